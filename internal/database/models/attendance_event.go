package models

import (
	"time"

	"github.com/google/uuid"
)

// EventKind represents the kind of an attendance event. The wire values
// match the export bundle format ("entrada", "salida", "ausencia").
type EventKind string

const (
	EventKindClockIn  EventKind = "entrada"
	EventKindClockOut EventKind = "salida"
	EventKindAbsence  EventKind = "ausencia"
)

// IsValid checks if the EventKind is valid
func (k EventKind) IsValid() bool {
	switch k {
	case EventKindClockIn, EventKindClockOut, EventKindAbsence:
		return true
	}
	return false
}

// AttendanceEvent represents a single timestamped clock-in, clock-out or
// absence record owned by exactly one member. Multiple same-kind events per
// day are legal data; pairing is resolved at read time by the reconciliation
// engine.
type AttendanceEvent struct {
	BaseModel
	MemberID  uuid.UUID `json:"member_id" gorm:"type:uuid;not null;index" validate:"required"`
	Kind      EventKind `json:"kind" gorm:"type:varchar(20);not null;index" validate:"required"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`

	// Relationships
	Member *Member `json:"member,omitempty" gorm:"foreignKey:MemberID"`
}

// TableName returns the table name for AttendanceEvent
func (AttendanceEvent) TableName() string {
	return "attendance_events"
}
