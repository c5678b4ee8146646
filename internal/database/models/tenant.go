package models

// Tenant represents a company using the time clock; it is the root
// entity for multi-tenancy and the visibility boundary for tenant admins.
type Tenant struct {
	BaseModel
	Name    string `json:"name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	LogoRef string `json:"logo_ref" gorm:"size:500"`
	Enabled bool   `json:"enabled" gorm:"not null;default:true"`

	// Relationships
	Members []Member `json:"members,omitempty" gorm:"foreignKey:TenantID"`
}

// TableName returns the table name for Tenant
func (Tenant) TableName() string {
	return "tenants"
}
