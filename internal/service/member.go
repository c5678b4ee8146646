package service

import (
	"errors"
	"fmt"
	"strings"

	"timeclock-backend/internal/database/models"
	apperrors "timeclock-backend/internal/errors"
	"timeclock-backend/internal/logger"
	"timeclock-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberService handles business logic for members
type MemberService struct {
	repo      repository.MemberRepositoryInterface
	tenants   repository.TenantRepositoryInterface
	events    repository.EventRepositoryInterface
	hasher    PasswordHasher
	images    ImageStore
	validator *validator.Validate
	log       *logger.Logger
}

// NewMemberService creates a new member service
func NewMemberService(
	repo repository.MemberRepositoryInterface,
	tenants repository.TenantRepositoryInterface,
	events repository.EventRepositoryInterface,
	hasher PasswordHasher,
	images ImageStore,
	validator *validator.Validate,
) *MemberService {
	return &MemberService{
		repo:      repo,
		tenants:   tenants,
		events:    events,
		hasher:    hasher,
		images:    images,
		validator: validator,
		log:       logger.New(),
	}
}

// CreateMemberRequest represents the data needed to create a member
type CreateMemberRequest struct {
	TenantID        *uuid.UUID `json:"tenant_id"`
	FirstName       string     `json:"first_name" validate:"required,max=100"`
	LastName        string     `json:"last_name" validate:"required,max=100"`
	Email           string     `json:"email" validate:"required,email,max=255"`
	Password        string     `json:"password" validate:"required,min=6"`
	Role            *string    `json:"role"` // Optional: defaults to "worker". Valid values: worker, tenant_admin, global_admin
	ProfileImageRef string     `json:"profile_image_ref" validate:"max=500"`
	Enabled         *bool      `json:"enabled"` // Optional: defaults to true
}

// UpdateMemberRequest represents the data needed to update a member
type UpdateMemberRequest struct {
	FirstName       *string `json:"first_name" validate:"omitempty,max=100"`
	LastName        *string `json:"last_name" validate:"omitempty,max=100"`
	Email           *string `json:"email" validate:"omitempty,email,max=255"`
	Password        *string `json:"password" validate:"omitempty,min=6"`
	ProfileImageRef *string `json:"profile_image_ref" validate:"omitempty,max=500"`
}

// MemberResponse represents the response data for a member
type MemberResponse struct {
	ID              uuid.UUID  `json:"id"`
	TenantID        *uuid.UUID `json:"tenant_id,omitempty"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email"`
	Role            string     `json:"role"`
	ProfileImageRef string     `json:"profile_image_ref"`
	Enabled         bool       `json:"enabled"`
	EffectiveAccess bool       `json:"effective_access"`
	CreatedAt       string     `json:"created_at"`
	UpdatedAt       string     `json:"updated_at"`
}

// MemberListResponse represents a paginated list of members
type MemberListResponse struct {
	Members  []MemberResponse `json:"members"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// Create creates a new member. A tenant admin caller is forced into their
// own tenant regardless of the requested tenant id; a global admin chooses
// freely. Global admin members carry no tenant; everyone else needs one.
func (s *MemberService) Create(caller Caller, req *CreateMemberRequest) (*MemberResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	role := models.MemberRoleWorker
	if req.Role != nil {
		role = models.MemberRole(*req.Role)
		if !role.IsValid() {
			return nil, apperrors.ErrInvalidRole
		}
	}

	tenantID := req.TenantID
	if caller.Role == models.MemberRoleTenantAdmin {
		tenantID = caller.TenantID
	}

	if role == models.MemberRoleGlobalAdmin {
		if tenantID != nil {
			return nil, apperrors.ErrGlobalAdminHasTenant
		}
	} else {
		if tenantID == nil {
			return nil, apperrors.ErrMemberNeedsTenant
		}
		if _, err := s.tenants.GetByID(*tenantID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrTenantNotFound
			}
			return nil, fmt.Errorf("failed to get tenant: %w", err)
		}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.repo.GetByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing member by email: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrMemberExists
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	member := &models.Member{
		TenantID:        tenantID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           email,
		PasswordHash:    hash,
		Role:            role,
		ProfileImageRef: req.ProfileImageRef,
		Enabled:         enabled,
	}

	if err := s.repo.Create(member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	return s.toResponse(member, true)
}

// GetByID retrieves a member by ID
func (s *MemberService) GetByID(id uuid.UUID) (*MemberResponse, error) {
	member, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return s.toResponse(member, true)
}

// List retrieves the members visible to the caller: a tenant admin sees
// their own tenant, a global admin sees everyone.
func (s *MemberService) List(caller Caller, page, pageSize int) (*MemberListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var members []models.Member
	var total int64
	var err error

	switch caller.Role {
	case models.MemberRoleGlobalAdmin:
		members, total, err = s.repo.GetAll(pageSize, offset)
	case models.MemberRoleTenantAdmin:
		if caller.TenantID == nil {
			return nil, apperrors.ErrForbidden
		}
		members, total, err = s.repo.GetByTenantID(*caller.TenantID, pageSize, offset)
	default:
		return nil, apperrors.ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	responses := make([]MemberResponse, len(members))
	for i := range members {
		resp, err := s.toResponse(&members[i], false)
		if err != nil {
			return nil, err
		}
		responses[i] = *resp
	}
	s.fillEffectiveAccess(members, responses)

	return &MemberListResponse{
		Members:  responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update updates a member's profile fields
func (s *MemberService) Update(id uuid.UUID, req *UpdateMemberRequest) (*MemberResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	member, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	if req.FirstName != nil {
		member.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		member.LastName = *req.LastName
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != member.Email {
			existing, err := s.repo.GetByEmail(email)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check existing member by email: %w", err)
			}
			if existing != nil && existing.ID != member.ID {
				return nil, apperrors.ErrMemberExists
			}
			member.Email = email
		}
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		member.PasswordHash = hash
	}
	if req.ProfileImageRef != nil {
		member.ProfileImageRef = *req.ProfileImageRef
	}

	if err := s.repo.Update(member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return s.toResponse(member, true)
}

// SetEnabled toggles a member's own enabled flag. A member may not disable
// themselves, and global admin accounts cannot be disabled by anyone.
func (s *MemberService) SetEnabled(caller Caller, id uuid.UUID, enabled bool) (*MemberResponse, error) {
	member, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	if !enabled && member.ID == caller.MemberID {
		return nil, apperrors.ErrSelfDisable
	}
	if !enabled && member.Role == models.MemberRoleGlobalAdmin {
		return nil, apperrors.ErrGlobalAdminImmutable
	}

	member.Enabled = enabled
	if err := s.repo.Update(member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return s.toResponse(member, true)
}

// Delete removes a member and, first, every event they own so no orphaned
// event survives the member. Global admin accounts cannot be deleted. The
// member's profile image is unlinked best-effort.
func (s *MemberService) Delete(id uuid.UUID) error {
	member, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMemberNotFound
		}
		return fmt.Errorf("failed to get member: %w", err)
	}

	if member.Role == models.MemberRoleGlobalAdmin {
		return apperrors.ErrGlobalAdminImmutable
	}

	if err := s.events.DeleteByMemberIDs([]uuid.UUID{member.ID}); err != nil {
		return fmt.Errorf("failed to delete member events: %w", err)
	}
	if err := s.repo.Delete(member.ID); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	if err := s.images.Unlink(member.ProfileImageRef); err != nil {
		s.log.WithField("member_id", member.ID).WithError(err).
			Warn("profile image unlink failed")
	}

	return nil
}

// toResponse converts a member model to response. When resolveTenant is set
// the owning tenant is loaded to fold its enabled flag into the member's
// effective access; a disabled tenant disables all of its members.
func (s *MemberService) toResponse(member *models.Member, resolveTenant bool) (*MemberResponse, error) {
	effective := member.Enabled
	if resolveTenant && member.TenantID != nil {
		tenant, err := s.tenants.GetByID(*member.TenantID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to get tenant: %w", err)
			}
		} else if !tenant.Enabled {
			effective = false
		}
	}

	return &MemberResponse{
		ID:              member.ID,
		TenantID:        member.TenantID,
		FirstName:       member.FirstName,
		LastName:        member.LastName,
		Email:           member.Email,
		Role:            string(member.Role),
		ProfileImageRef: member.ProfileImageRef,
		Enabled:         member.Enabled,
		EffectiveAccess: effective,
		CreatedAt:       member.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:       member.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// fillEffectiveAccess resolves tenant enabled flags for a listing in one
// pass per distinct tenant instead of one lookup per member.
func (s *MemberService) fillEffectiveAccess(members []models.Member, responses []MemberResponse) {
	disabled := make(map[uuid.UUID]bool)
	resolved := make(map[uuid.UUID]bool)
	for i := range members {
		if members[i].TenantID == nil {
			continue
		}
		id := *members[i].TenantID
		if !resolved[id] {
			resolved[id] = true
			if tenant, err := s.tenants.GetByID(id); err == nil && !tenant.Enabled {
				disabled[id] = true
			}
		}
		if disabled[id] {
			responses[i].EffectiveAccess = false
		}
	}
}
