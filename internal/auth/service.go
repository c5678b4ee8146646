package auth

import (
	"errors"
	"fmt"
	"time"

	"timeclock-backend/internal/database/models"
	apperrors "timeclock-backend/internal/errors"
	"timeclock-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Claims is the caller identity carried in a JWT
type Claims struct {
	MemberID uuid.UUID  `json:"member_id"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
	Role     string     `json:"role"`
	Email    string     `json:"email"`
	jwt.RegisteredClaims
}

// Service issues and validates tokens and checks credentials
type Service struct {
	secret  []byte
	expiry  time.Duration
	members repository.MemberRepositoryInterface
	tenants repository.TenantRepositoryInterface
	hasher  *BcryptHasher
}

// NewService creates a new auth service
func NewService(secret string, expiryMins int, members repository.MemberRepositoryInterface, tenants repository.TenantRepositoryInterface) *Service {
	if expiryMins <= 0 {
		expiryMins = 480
	}
	return &Service{
		secret:  []byte(secret),
		expiry:  time.Duration(expiryMins) * time.Minute,
		members: members,
		tenants: tenants,
		hasher:  NewBcryptHasher(),
	}
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the member's identity
type LoginResponse struct {
	Token    string     `json:"token"`
	MemberID uuid.UUID  `json:"member_id"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
	Role     string     `json:"role"`
	Email    string     `json:"email"`
}

// Login checks credentials and issues a token. A member whose own flag is
// disabled, or whose tenant is disabled, cannot log in: a disabled tenant
// forces all its members' effective access to disabled.
func (s *Service) Login(req *LoginRequest) (*LoginResponse, error) {
	member, err := s.members.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up member: %w", err)
	}

	if !s.hasher.Compare(member.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !member.Enabled {
		return nil, apperrors.ErrAccountDisabled
	}
	if member.TenantID != nil {
		tenant, err := s.tenants.GetByID(*member.TenantID)
		if err == nil && !tenant.Enabled {
			return nil, apperrors.ErrAccountDisabled
		}
	}

	token, err := s.IssueToken(member)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:    token,
		MemberID: member.ID,
		TenantID: member.TenantID,
		Role:     string(member.Role),
		Email:    member.Email,
	}, nil
}

// IssueToken creates a signed HS256 token for a member
func (s *Service) IssueToken(member *models.Member) (string, error) {
	now := time.Now()
	claims := &Claims{
		MemberID: member.ID,
		TenantID: member.TenantID,
		Role:     string(member.Role),
		Email:    member.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   member.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token string
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
