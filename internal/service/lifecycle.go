package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"timeclock-backend/internal/database/models"
	apperrors "timeclock-backend/internal/errors"
	"timeclock-backend/internal/logger"
	"timeclock-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bundle is the self-contained export/import document representing one
// tenant's full data graph. Version 1 is the only format version.
type Bundle struct {
	Tenant     *BundleTenant `json:"tenant"`
	Users      []BundleUser  `json:"users"`
	Fichajes   []BundleEvent `json:"fichajes"`
	ExportDate time.Time     `json:"exportDate"`
	Version    int           `json:"version"`
}

// BundleTenant carries the tenant record inside a bundle
type BundleTenant struct {
	Name    string `json:"name"`
	LogoRef string `json:"logoRef"`
	Enabled bool   `json:"enabled"`
}

// BundleUser carries one member record inside a bundle. The password is
// never exported; the id is only kept so events can be remapped on import.
type BundleUser struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"name"`
	LastName        string    `json:"surname"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	ProfileImageRef string    `json:"profileImageRef"`
	Enabled         bool      `json:"enabled"`
}

// BundleEvent carries one attendance event inside a bundle, referencing the
// bundle's original member id.
type BundleEvent struct {
	Member    uuid.UUID        `json:"member"`
	Kind      models.EventKind `json:"kind"`
	Timestamp time.Time        `json:"timestamp"`
}

// ImportResult summarizes a committed import
type ImportResult struct {
	Tenant      *TenantResponse `json:"tenant"`
	MemberCount int             `json:"member_count"`
	EventCount  int             `json:"event_count"`
}

// importState names the phases of an import for logging. RollingBack is
// reachable from any of the three creating states.
type importState string

const (
	stateValidating     importState = "validating"
	stateCreatingTenant importState = "creating_tenant"
	stateCreatingUsers  importState = "creating_members"
	stateCreatingEvents importState = "creating_events"
	stateRollingBack    importState = "rolling_back"
	stateCommitted      importState = "committed"
	stateFailed         importState = "failed"
)

// LifecycleService orchestrates the multi-entity tenant operations: cascade
// delete, export and all-or-nothing import. The store has no multi-record
// transactions, so import is an ordered plan of compensable steps and
// delete runs in strict dependency order (events, then members, then the
// tenant) so a crash mid-sequence never leaves orphaned events.
type LifecycleService struct {
	tenants repository.TenantRepositoryInterface
	members repository.MemberRepositoryInterface
	events  repository.EventRepositoryInterface
	hasher  PasswordHasher
	images  ImageStore
	log     *logger.Logger
}

// NewLifecycleService creates a new tenant lifecycle service
func NewLifecycleService(
	tenants repository.TenantRepositoryInterface,
	members repository.MemberRepositoryInterface,
	events repository.EventRepositoryInterface,
	hasher PasswordHasher,
	images ImageStore,
) *LifecycleService {
	return &LifecycleService{
		tenants: tenants,
		members: members,
		events:  events,
		hasher:  hasher,
		images:  images,
		log:     logger.New(),
	}
}

// Delete removes a tenant together with all its members and their events,
// in dependency order. Image files referenced by the tenant or its members
// are unlinked best-effort; unlink failures are logged and never abort the
// deletion. Deleting an id that does not exist returns NotFoundError.
func (s *LifecycleService) Delete(tenantID uuid.UUID) error {
	tenant, err := s.tenants.GetWithMembers(tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTenantNotFound
		}
		return fmt.Errorf("failed to get tenant: %w", err)
	}

	memberIDs := make([]uuid.UUID, len(tenant.Members))
	for i := range tenant.Members {
		memberIDs[i] = tenant.Members[i].ID
	}

	// Counted before anything disappears; the count only feeds the cascade
	// log, so a failure here never blocks the delete.
	eventCount, err := s.events.CountByMemberIDs(memberIDs)
	if err != nil {
		s.log.WithError(err).Warn("failed to count tenant events before delete")
	}

	// Events before members before the tenant, so an interrupted run never
	// leaves events referencing a deleted member.
	if err := s.events.DeleteByMemberIDs(memberIDs); err != nil {
		return fmt.Errorf("failed to delete tenant events: %w", err)
	}
	if err := s.members.DeleteByIDs(memberIDs); err != nil {
		return fmt.Errorf("failed to delete tenant members: %w", err)
	}
	if err := s.tenants.Delete(tenant.ID); err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	s.unlinkImage(tenant.LogoRef, "tenant", tenant.ID)
	for i := range tenant.Members {
		s.unlinkImage(tenant.Members[i].ProfileImageRef, "member", tenant.Members[i].ID)
	}

	s.log.WithFields(map[string]interface{}{
		"tenant_id": tenant.ID,
		"members":   len(memberIDs),
		"events":    eventCount,
	}).Info("tenant deleted with cascade")

	return nil
}

// Export produces a self-contained bundle of the tenant, its members (with
// passwords excluded) and all their events. This is a snapshot read with no
// locking; concurrent writes may produce an inconsistent bundle, which is
// acceptable for an administrative operation.
func (s *LifecycleService) Export(tenantID uuid.UUID) (*Bundle, error) {
	tenant, err := s.tenants.GetWithMembers(tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	users := make([]BundleUser, len(tenant.Members))
	memberIDs := make([]uuid.UUID, len(tenant.Members))
	for i := range tenant.Members {
		m := &tenant.Members[i]
		memberIDs[i] = m.ID
		users[i] = BundleUser{
			ID:              m.ID,
			FirstName:       m.FirstName,
			LastName:        m.LastName,
			Email:           m.Email,
			Role:            string(m.Role),
			ProfileImageRef: m.ProfileImageRef,
			Enabled:         m.Enabled,
		}
	}

	var fichajes []BundleEvent
	if len(memberIDs) > 0 {
		events, err := s.events.Query(repository.EventFilter{MemberIDs: memberIDs})
		if err != nil {
			return nil, fmt.Errorf("failed to query tenant events: %w", err)
		}
		fichajes = make([]BundleEvent, len(events))
		for i := range events {
			fichajes[i] = BundleEvent{
				Member:    events[i].MemberID,
				Kind:      events[i].Kind,
				Timestamp: events[i].Timestamp,
			}
		}
	}
	if fichajes == nil {
		fichajes = []BundleEvent{}
	}

	return &Bundle{
		Tenant: &BundleTenant{
			Name:    tenant.Name,
			LogoRef: tenant.LogoRef,
			Enabled: tenant.Enabled,
		},
		Users:      users,
		Fichajes:   fichajes,
		ExportDate: time.Now(),
		Version:    1,
	}, nil
}

// Import recreates a tenant's full data graph from a bundle under fresh
// identities. Validation and the duplicate-name check fail fast with no
// side effects; once writing starts, any failure rolls the import back in
// compensating order so no partially-created tenant survives. Rollback
// failures are logged but never replace the original error.
func (s *LifecycleService) Import(bundle *Bundle) (*ImportResult, error) {
	s.log.WithField("state", stateValidating).Debug("import started")

	if err := validateBundle(bundle); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(bundle.Tenant.Name)
	existing, err := s.tenants.GetByNormalizedName(name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing tenant by name: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrTenantExists
	}

	// Committed work tracked for compensation, undone in reverse order.
	var createdTenant *models.Tenant
	var createdMemberIDs []uuid.UUID
	var eventsInserted bool

	rollback := func(cause error) {
		rbLog := s.log.WithField("state", stateRollingBack).WithError(cause)
		rbLog.Warn("import failed; rolling back")
		if eventsInserted || len(createdMemberIDs) > 0 {
			if err := s.events.DeleteByMemberIDs(createdMemberIDs); err != nil {
				rbLog.WithError(err).Error("rollback: failed to delete imported events")
			}
			if err := s.members.DeleteByIDs(createdMemberIDs); err != nil {
				rbLog.WithError(err).Error("rollback: failed to delete imported members")
			}
		}
		if createdTenant != nil {
			if err := s.tenants.Delete(createdTenant.ID); err != nil {
				rbLog.WithError(err).Error("rollback: failed to delete imported tenant")
			}
		}
		s.log.WithField("state", stateFailed).Debug("import rolled back")
	}

	// CreatingTenant: the bundle's original identity is discarded.
	s.log.WithField("state", stateCreatingTenant).Debug("creating tenant")
	tenant := &models.Tenant{
		Name:    name,
		LogoRef: bundle.Tenant.LogoRef,
		Enabled: bundle.Tenant.Enabled,
	}
	if err := s.tenants.Create(tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	createdTenant = tenant

	// CreatingMembers: fresh identities, synthesized passwords, and a map
	// from the bundle's original ids for event remapping.
	s.log.WithField("state", stateCreatingUsers).Debug("creating members")
	idMap := make(map[uuid.UUID]uuid.UUID, len(bundle.Users))
	for i := range bundle.Users {
		u := &bundle.Users[i]

		// The export excludes passwords, so imported accounts receive an
		// unguessable, unrecoverable one; an administrator must reset it.
		hash, err := s.hasher.Hash(u.Email + time.Now().Format(time.RFC3339Nano))
		if err != nil {
			rollback(err)
			return nil, fmt.Errorf("failed to synthesize password: %w", err)
		}

		member := &models.Member{
			TenantID:        &tenant.ID,
			FirstName:       u.FirstName,
			LastName:        u.LastName,
			Email:           strings.ToLower(strings.TrimSpace(u.Email)),
			PasswordHash:    hash,
			Role:            models.MemberRole(u.Role),
			ProfileImageRef: u.ProfileImageRef,
			Enabled:         u.Enabled,
		}
		if err := s.members.Create(member); err != nil {
			rollback(err)
			return nil, fmt.Errorf("failed to create member %q: %w", u.Email, err)
		}
		createdMemberIDs = append(createdMemberIDs, member.ID)
		idMap[u.ID] = member.ID
	}

	// CreatingEvents: remap member references through the id map.
	s.log.WithField("state", stateCreatingEvents).Debug("inserting events")
	events := make([]models.AttendanceEvent, 0, len(bundle.Fichajes))
	for i := range bundle.Fichajes {
		f := &bundle.Fichajes[i]
		newID, ok := idMap[f.Member]
		if !ok {
			err := apperrors.NewValidationError("fichajes", fmt.Sprintf("event %d references unknown member %s", i, f.Member))
			rollback(err)
			return nil, err
		}
		events = append(events, models.AttendanceEvent{
			MemberID:  newID,
			Kind:      f.Kind,
			Timestamp: f.Timestamp,
		})
	}
	if len(events) > 0 {
		eventsInserted = true
		if err := s.events.BulkCreate(events); err != nil {
			rollback(err)
			return nil, fmt.Errorf("failed to insert events: %w", err)
		}
	}

	s.log.WithField("state", stateCommitted).WithFields(map[string]interface{}{
		"tenant_id": tenant.ID,
		"members":   len(createdMemberIDs),
		"events":    len(events),
	}).Info("tenant import committed")

	return &ImportResult{
		Tenant: &TenantResponse{
			ID:        tenant.ID,
			Name:      tenant.Name,
			LogoRef:   tenant.LogoRef,
			Enabled:   tenant.Enabled,
			CreatedAt: tenant.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			UpdatedAt: tenant.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
		MemberCount: len(createdMemberIDs),
		EventCount:  len(events),
	}, nil
}

// validateBundle rejects a bundle whose top-level shape is invalid before
// any write occurs. Kind and role values are checked here too so a bad
// bundle never reaches the creating states.
func validateBundle(bundle *Bundle) error {
	if bundle == nil || bundle.Tenant == nil || bundle.Users == nil || bundle.Fichajes == nil {
		return apperrors.ErrInvalidBundle
	}
	if strings.TrimSpace(bundle.Tenant.Name) == "" {
		return apperrors.NewValidationError("tenant.name", "must not be blank")
	}
	if bundle.Version != 1 {
		return apperrors.NewValidationError("version", fmt.Sprintf("unsupported format version %d", bundle.Version))
	}
	for i := range bundle.Users {
		role := models.MemberRole(bundle.Users[i].Role)
		if !role.IsValid() {
			return apperrors.NewValidationError("users", fmt.Sprintf("user %d has invalid role %q", i, bundle.Users[i].Role))
		}
		// Every imported member belongs to the bundle's tenant, and a global
		// admin belongs to none, so no legitimate export can contain one.
		if role == models.MemberRoleGlobalAdmin {
			return apperrors.NewValidationError("users", fmt.Sprintf("user %d has role %q, which cannot belong to a tenant", i, bundle.Users[i].Role))
		}
		if strings.TrimSpace(bundle.Users[i].Email) == "" {
			return apperrors.NewValidationError("users", fmt.Sprintf("user %d has no email", i))
		}
	}
	for i := range bundle.Fichajes {
		if !bundle.Fichajes[i].Kind.IsValid() {
			return apperrors.NewValidationError("fichajes", fmt.Sprintf("event %d has invalid kind %q", i, bundle.Fichajes[i].Kind))
		}
	}
	return nil
}

func (s *LifecycleService) unlinkImage(ref, entity string, id uuid.UUID) {
	if ref == "" {
		return
	}
	if err := s.images.Unlink(ref); err != nil {
		s.log.WithFields(map[string]interface{}{
			"entity": entity,
			"id":     id,
			"ref":    ref,
		}).WithError(err).Warn("image unlink failed")
	}
}
