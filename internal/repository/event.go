package repository

import (
	"timeclock-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventRepository handles database operations for attendance events
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new attendance event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates a new attendance event
func (r *EventRepository) Create(event *models.AttendanceEvent) error {
	return r.db.Create(event).Error
}

// BulkCreate inserts a batch of attendance events in chunks. Used by import
// and seeding; callers must not assume ordering between individual insert
// failures within a batch.
func (r *EventRepository) BulkCreate(events []models.AttendanceEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.CreateInBatches(events, 500).Error
}

// Query retrieves events matching the filter, ordered by ascending timestamp.
// The ordering is required by the reconciliation engine's pairing scan.
func (r *EventRepository) Query(filter EventFilter) ([]models.AttendanceEvent, error) {
	query := r.db.Model(&models.AttendanceEvent{})

	if filter.From != nil {
		query = query.Where("timestamp >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("timestamp <= ?", *filter.To)
	}
	if len(filter.MemberIDs) > 0 {
		query = query.Where("member_id IN ?", filter.MemberIDs)
	}
	if len(filter.Kinds) > 0 {
		query = query.Where("kind IN ?", filter.Kinds)
	}

	var events []models.AttendanceEvent
	err := query.Order("timestamp ASC").Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// CountByMemberIDs counts the events owned by any of the given members
func (r *EventRepository) CountByMemberIDs(memberIDs []uuid.UUID) (int64, error) {
	if len(memberIDs) == 0 {
		return 0, nil
	}
	var total int64
	err := r.db.Model(&models.AttendanceEvent{}).Where("member_id IN ?", memberIDs).Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// DeleteByMemberIDs deletes every event owned by any of the given members
func (r *EventRepository) DeleteByMemberIDs(memberIDs []uuid.UUID) error {
	if len(memberIDs) == 0 {
		return nil
	}
	return r.db.Delete(&models.AttendanceEvent{}, "member_id IN ?", memberIDs).Error
}
