package service

import (
	"os"
	"path/filepath"
)

// PasswordHasher abstracts credential hashing. Token issuance and hashing
// details live with the authentication layer; the services only ever need
// to produce a digest for storage.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// ImageStore is the side-channel for locally stored tenant logos and member
// profile images. Unlink is fire-and-forget from the caller's perspective:
// failures are logged by the caller and never abort the primary operation.
type ImageStore interface {
	Unlink(ref string) error
}

// LocalImageStore removes image files below a fixed root directory.
type LocalImageStore struct {
	Root string
}

// NewLocalImageStore creates an image store rooted at dir
func NewLocalImageStore(dir string) *LocalImageStore {
	return &LocalImageStore{Root: dir}
}

// Unlink removes the file for ref. A missing file is not an error; the
// record may reference an image that was never uploaded.
func (s *LocalImageStore) Unlink(ref string) error {
	if ref == "" {
		return nil
	}
	path := filepath.Join(s.Root, filepath.Base(ref))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
