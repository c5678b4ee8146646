package models

import (
	"github.com/google/uuid"
)

// MemberRole represents the role of a member
type MemberRole string

const (
	MemberRoleWorker      MemberRole = "worker"
	MemberRoleTenantAdmin MemberRole = "tenant_admin"
	MemberRoleGlobalAdmin MemberRole = "global_admin"
)

// IsValid checks if the MemberRole is valid
func (r MemberRole) IsValid() bool {
	switch r {
	case MemberRoleWorker, MemberRoleTenantAdmin, MemberRoleGlobalAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the role carries administrative rights over a scope.
func (r MemberRole) IsAdmin() bool {
	return r == MemberRoleTenantAdmin || r == MemberRoleGlobalAdmin
}

// Member represents a person account belonging to at most one tenant.
// TenantID is nil only for global admins.
type Member struct {
	BaseModel
	TenantID        *uuid.UUID `json:"tenant_id,omitempty" gorm:"type:uuid;index"`
	FirstName       string     `json:"first_name" gorm:"not null;size:100" validate:"required,max=100"`
	LastName        string     `json:"last_name" gorm:"not null;size:100" validate:"required,max=100"`
	Email           string     `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email,max=255"`
	PasswordHash    string     `json:"-" gorm:"not null;size:255"`
	Role            MemberRole `json:"role" gorm:"type:varchar(50);not null;default:'worker'" validate:"required"`
	ProfileImageRef string     `json:"profile_image_ref" gorm:"size:500"`
	Enabled         bool       `json:"enabled" gorm:"not null;default:true"`

	// Relationships
	Tenant *Tenant           `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Events []AttendanceEvent `json:"events,omitempty" gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Member
func (Member) TableName() string {
	return "members"
}
