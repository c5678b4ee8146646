package service

import (
	"time"

	"timeclock-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// TenantServiceInterface defines the interface for tenant service
type TenantServiceInterface interface {
	Create(req *CreateTenantRequest) (*TenantResponse, error)
	GetByID(id uuid.UUID) (*TenantResponse, error)
	GetAll(page, pageSize int) (*TenantListResponse, error)
	Update(id uuid.UUID, req *UpdateTenantRequest) (*TenantResponse, error)
	SetEnabled(id uuid.UUID, enabled bool) (*TenantResponse, error)
}

// MemberServiceInterface defines the interface for member service
type MemberServiceInterface interface {
	Create(caller Caller, req *CreateMemberRequest) (*MemberResponse, error)
	GetByID(id uuid.UUID) (*MemberResponse, error)
	List(caller Caller, page, pageSize int) (*MemberListResponse, error)
	Update(id uuid.UUID, req *UpdateMemberRequest) (*MemberResponse, error)
	SetEnabled(caller Caller, id uuid.UUID, enabled bool) (*MemberResponse, error)
	Delete(id uuid.UUID) error
}

// EventServiceInterface defines the interface for attendance event service
type EventServiceInterface interface {
	Record(caller Caller, req *RecordEventRequest) (*EventResponse, error)
	Query(caller Caller, req *EventQueryRequest) ([]models.AttendanceEvent, error)
	QueryGrouped(caller Caller, req *EventQueryRequest) ([]DayGroup, error)
	ClockStateFor(memberID uuid.UUID, at time.Time, loc *time.Location) (*ClockState, error)
}

// LifecycleServiceInterface defines the interface for tenant lifecycle operations
type LifecycleServiceInterface interface {
	Delete(tenantID uuid.UUID) error
	Export(tenantID uuid.UUID) (*Bundle, error)
	Import(bundle *Bundle) (*ImportResult, error)
}
