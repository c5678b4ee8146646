package testutils

import (
	"fmt"
	"time"

	"timeclock-backend/internal/database/models"

	"github.com/google/uuid"
)

// TenantFactory provides methods to create test Tenant data
type TenantFactory struct{}

// NewTenantFactory creates a new TenantFactory
func NewTenantFactory() *TenantFactory {
	return &TenantFactory{}
}

// Create creates a test Tenant with default values
func (f *TenantFactory) Create() *models.Tenant {
	return &models.Tenant{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:    "Test Tenant",
		Enabled: true,
	}
}

// WithName sets a custom name for the tenant
func (f *TenantFactory) WithName(name string) *models.Tenant {
	tenant := f.Create()
	tenant.Name = name
	return tenant
}

// Disabled creates a tenant with the enabled flag off
func (f *TenantFactory) Disabled() *models.Tenant {
	tenant := f.Create()
	tenant.Enabled = false
	return tenant
}

// MemberFactory provides methods to create test Member data
type MemberFactory struct{}

// NewMemberFactory creates a new MemberFactory
func NewMemberFactory() *MemberFactory {
	return &MemberFactory{}
}

// Create creates a test worker Member with default values. Emails carry a
// UUID fragment so repeated calls do not collide on the unique index.
func (f *MemberFactory) Create() *models.Member {
	id := uuid.New()
	tenantID := uuid.New()

	return &models.Member{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		TenantID:     &tenantID,
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        fmt.Sprintf("jane.doe-%s@test.com", id.String()[:8]),
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:         models.MemberRoleWorker,
		Enabled:      true,
	}
}

// WithTenant sets the tenant ID for the member
func (f *MemberFactory) WithTenant(tenantID uuid.UUID) *models.Member {
	member := f.Create()
	member.TenantID = &tenantID
	return member
}

// WithEmail sets a custom email for the member
func (f *MemberFactory) WithEmail(email string) *models.Member {
	member := f.Create()
	member.Email = email
	return member
}

// WithRole sets a custom role for the member
func (f *MemberFactory) WithRole(role models.MemberRole) *models.Member {
	member := f.Create()
	member.Role = role
	return member
}

// GlobalAdmin creates a member with the global admin role and no tenant
func (f *MemberFactory) GlobalAdmin() *models.Member {
	member := f.Create()
	member.TenantID = nil
	member.Role = models.MemberRoleGlobalAdmin
	return member
}

// EventFactory provides methods to create test AttendanceEvent data
type EventFactory struct{}

// NewEventFactory creates a new EventFactory
func NewEventFactory() *EventFactory {
	return &EventFactory{}
}

// Create creates a test clock-in event with default values
func (f *EventFactory) Create() *models.AttendanceEvent {
	return &models.AttendanceEvent{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		MemberID:  uuid.New(),
		Kind:      models.EventKindClockIn,
		Timestamp: time.Now(),
	}
}

// For creates an event for a specific member, kind and timestamp
func (f *EventFactory) For(memberID uuid.UUID, kind models.EventKind, ts time.Time) *models.AttendanceEvent {
	event := f.Create()
	event.MemberID = memberID
	event.Kind = kind
	event.Timestamp = ts
	return event
}

// WorkDay creates a typical day of events for a member: clock-in, lunch
// break pair and a final clock-out.
func (f *EventFactory) WorkDay(memberID uuid.UUID, day time.Time) []models.AttendanceEvent {
	at := func(h, m int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location())
	}
	return []models.AttendanceEvent{
		*f.For(memberID, models.EventKindClockIn, at(9, 0)),
		*f.For(memberID, models.EventKindClockOut, at(13, 0)),
		*f.For(memberID, models.EventKindClockIn, at(14, 0)),
		*f.For(memberID, models.EventKindClockOut, at(17, 30)),
	}
}
