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

// TenantService handles business logic for tenants
type TenantService struct {
	repo      repository.TenantRepositoryInterface
	members   repository.MemberRepositoryInterface
	validator *validator.Validate
	log       *logger.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(repo repository.TenantRepositoryInterface, members repository.MemberRepositoryInterface, validator *validator.Validate) *TenantService {
	return &TenantService{
		repo:      repo,
		members:   members,
		validator: validator,
		log:       logger.New(),
	}
}

// CreateTenantRequest represents the request to create a tenant
type CreateTenantRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	LogoRef string `json:"logo_ref,omitempty" validate:"max=500"`
}

// UpdateTenantRequest represents the request to rename a tenant or change its logo
type UpdateTenantRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	LogoRef *string `json:"logo_ref" validate:"omitempty,max=500"`
}

// TenantResponse represents the response for tenant operations
type TenantResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	LogoRef   string    `json:"logo_ref"`
	Enabled   bool      `json:"enabled"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// TenantListResponse represents a paginated list of tenants
type TenantListResponse struct {
	Tenants  []TenantResponse `json:"tenants"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// Create creates a new tenant. The name must be unique case-insensitively
// after trimming surrounding whitespace.
func (s *TenantService) Create(req *CreateTenantRequest) (*TenantResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "must not be blank")
	}

	existing, err := s.repo.GetByNormalizedName(name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing tenant by name: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrTenantExists
	}

	tenant := &models.Tenant{
		Name:    name,
		LogoRef: req.LogoRef,
		Enabled: true,
	}

	if err := s.repo.Create(tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	return s.toResponse(tenant), nil
}

// GetByID retrieves a tenant by ID
func (s *TenantService) GetByID(id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return s.toResponse(tenant), nil
}

// GetAll retrieves all tenants with pagination
func (s *TenantService) GetAll(page, pageSize int) (*TenantListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	tenants, total, err := s.repo.GetAll(pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	responses := make([]TenantResponse, len(tenants))
	for i := range tenants {
		responses[i] = *s.toResponse(&tenants[i])
	}

	return &TenantListResponse{
		Tenants:  responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update renames a tenant and/or changes its logo reference. A rename
// re-checks name uniqueness excluding the tenant's own record.
func (s *TenantService) Update(id uuid.UUID, req *UpdateTenantRequest) (*TenantResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	tenant, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name", "must not be blank")
		}
		existing, err := s.repo.GetByNormalizedName(name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check existing tenant by name: %w", err)
		}
		if existing != nil && existing.ID != tenant.ID {
			return nil, apperrors.ErrTenantExists
		}
		tenant.Name = name
	}
	if req.LogoRef != nil {
		tenant.LogoRef = *req.LogoRef
	}

	if err := s.repo.Update(tenant); err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	return s.toResponse(tenant), nil
}

// SetEnabled flips the tenant's enabled flag and cascades it to every
// member of the tenant. The cascade is best-effort: if it fails after the
// tenant's own flag changed, the primary operation is still reported as
// succeeded and the cascade failure is only logged.
func (s *TenantService) SetEnabled(id uuid.UUID, enabled bool) (*TenantResponse, error) {
	tenant, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	tenant.Enabled = enabled
	if err := s.repo.Update(tenant); err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	if err := s.members.SetEnabledByTenantID(tenant.ID, enabled); err != nil {
		s.log.WithField("tenant_id", tenant.ID).WithError(err).
			Warn("enabled-flag cascade to members failed; tenant flag already committed")
	}

	return s.toResponse(tenant), nil
}

// toResponse converts a tenant model to response
func (s *TenantService) toResponse(tenant *models.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:        tenant.ID,
		Name:      tenant.Name,
		LogoRef:   tenant.LogoRef,
		Enabled:   tenant.Enabled,
		CreatedAt: tenant.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: tenant.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
