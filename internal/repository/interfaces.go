package repository

import (
	"time"

	"timeclock-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// TenantRepositoryInterface defines the interface for tenant repository operations
type TenantRepositoryInterface interface {
	Create(tenant *models.Tenant) error
	GetByID(id uuid.UUID) (*models.Tenant, error)
	GetByNormalizedName(name string) (*models.Tenant, error)
	GetAll(limit, offset int) ([]models.Tenant, int64, error)
	Update(tenant *models.Tenant) error
	Delete(id uuid.UUID) error
	GetWithMembers(id uuid.UUID) (*models.Tenant, error)
}

// MemberRepositoryInterface defines the interface for member repository operations
type MemberRepositoryInterface interface {
	Create(member *models.Member) error
	GetByID(id uuid.UUID) (*models.Member, error)
	GetByEmail(email string) (*models.Member, error)
	GetAll(limit, offset int) ([]models.Member, int64, error)
	GetByTenantID(tenantID uuid.UUID, limit, offset int) ([]models.Member, int64, error)
	GetIDsByTenantID(tenantID uuid.UUID) ([]uuid.UUID, error)
	Update(member *models.Member) error
	Delete(id uuid.UUID) error
	DeleteByIDs(ids []uuid.UUID) error
	SetEnabledByTenantID(tenantID uuid.UUID, enabled bool) error
}

// EventFilter is a conjunction of constraints for querying attendance events.
// Zero-valued fields are not applied.
type EventFilter struct {
	From      *time.Time
	To        *time.Time
	MemberIDs []uuid.UUID
	Kinds     []models.EventKind
}

// EventRepositoryInterface defines the interface for attendance event repository operations
type EventRepositoryInterface interface {
	Create(event *models.AttendanceEvent) error
	BulkCreate(events []models.AttendanceEvent) error
	Query(filter EventFilter) ([]models.AttendanceEvent, error)
	CountByMemberIDs(memberIDs []uuid.UUID) (int64, error)
	DeleteByMemberIDs(memberIDs []uuid.UUID) error
}
