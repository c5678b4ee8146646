package repository

import (
	"strings"

	"timeclock-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberRepository handles database operations for members
type MemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create creates a new member
func (r *MemberRepository) Create(member *models.Member) error {
	return r.db.Create(member).Error
}

// GetByID retrieves a member by ID
func (r *MemberRepository) GetByID(id uuid.UUID) (*models.Member, error) {
	var member models.Member
	err := r.db.First(&member, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByEmail retrieves a member by email, matched case-insensitively
func (r *MemberRepository) GetByEmail(email string) (*models.Member, error) {
	var member models.Member
	err := r.db.First(&member, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetAll retrieves all members with pagination
func (r *MemberRepository) GetAll(limit, offset int) ([]models.Member, int64, error) {
	var members []models.Member
	var total int64

	if err := r.db.Model(&models.Member{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Limit(limit).Offset(offset).Order("last_name ASC, first_name ASC").Find(&members).Error
	if err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// GetByTenantID retrieves all members for a tenant with pagination
func (r *MemberRepository) GetByTenantID(tenantID uuid.UUID, limit, offset int) ([]models.Member, int64, error) {
	var members []models.Member
	var total int64

	query := r.db.Model(&models.Member{}).Where("tenant_id = ?", tenantID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Limit(limit).Offset(offset).Order("last_name ASC, first_name ASC").Find(&members).Error
	if err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// GetIDsByTenantID retrieves the ids of every member of a tenant
func (r *MemberRepository) GetIDsByTenantID(tenantID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.Member{}).Where("tenant_id = ?", tenantID).Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Update updates a member
func (r *MemberRepository) Update(member *models.Member) error {
	return r.db.Save(member).Error
}

// Delete deletes a member
func (r *MemberRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Member{}, "id = ?", id).Error
}

// DeleteByIDs deletes the members with the given ids
func (r *MemberRepository) DeleteByIDs(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Delete(&models.Member{}, "id IN ?", ids).Error
}

// SetEnabledByTenantID sets the enabled flag on every member of a tenant
func (r *MemberRepository) SetEnabledByTenantID(tenantID uuid.UUID, enabled bool) error {
	return r.db.Model(&models.Member{}).Where("tenant_id = ?", tenantID).Update("enabled", enabled).Error
}
