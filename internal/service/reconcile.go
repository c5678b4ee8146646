package service

import (
	"sort"
	"time"

	"timeclock-backend/internal/database/models"

	"github.com/google/uuid"
)

// ClockState reports which attendance actions are currently permissible for
// one worker on one day.
type ClockState struct {
	CanClockIn        bool `json:"can_clock_in"`
	CanClockOut       bool `json:"can_clock_out"`
	CanDeclareAbsence bool `json:"can_declare_absence"`
	// UnmatchedClockOuts counts clock-outs with no preceding open clock-in.
	// Informational only; such events are legal data and never rejected.
	UnmatchedClockOuts int `json:"unmatched_clock_outs"`
}

// ComputeClockState derives the clock state from one worker's events for a
// single day using stack pairing rather than strict alternation: a clock-in
// opens a pair, a clock-out closes the most recent open one. Multiple
// in/out cycles per day are legal (lunch breaks); absence is only available
// while the day has no events at all, so a day holding nothing but
// clock-outs is not absence-eligible.
func ComputeClockState(events []models.AttendanceEvent) ClockState {
	ordered := make([]models.AttendanceEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	open := 0
	unmatched := 0
	for _, event := range ordered {
		switch event.Kind {
		case models.EventKindClockIn:
			open++
		case models.EventKindClockOut:
			if open > 0 {
				open--
			} else {
				unmatched++
			}
		}
	}

	return ClockState{
		CanClockIn:         open == 0,
		CanClockOut:        open > 0,
		CanDeclareAbsence:  len(ordered) == 0,
		UnmatchedClockOuts: unmatched,
	}
}

// DayGroup is one member's events for one calendar day, ready for display.
type DayGroup struct {
	MemberID uuid.UUID                `json:"member_id"`
	Day      string                   `json:"day"` // YYYY-MM-DD in the viewer's location
	Events   []models.AttendanceEvent `json:"events"`
}

// GroupEventsByDay groups events by (member, calendar day) in the viewer's
// location. Events within a day are sorted ascending by timestamp; groups
// are sorted most recent day first, with member id as a tie-breaker so the
// ordering is stable across calls.
func GroupEventsByDay(events []models.AttendanceEvent, loc *time.Location) []DayGroup {
	type key struct {
		memberID uuid.UUID
		day      string
	}

	grouped := make(map[key][]models.AttendanceEvent)
	for _, event := range events {
		k := key{
			memberID: event.MemberID,
			day:      event.Timestamp.In(loc).Format("2006-01-02"),
		}
		grouped[k] = append(grouped[k], event)
	}

	groups := make([]DayGroup, 0, len(grouped))
	for k, dayEvents := range grouped {
		sort.SliceStable(dayEvents, func(i, j int) bool {
			return dayEvents[i].Timestamp.Before(dayEvents[j].Timestamp)
		})
		groups = append(groups, DayGroup{MemberID: k.memberID, Day: k.day, Events: dayEvents})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Day != groups[j].Day {
			return groups[i].Day > groups[j].Day
		}
		return groups[i].MemberID.String() < groups[j].MemberID.String()
	})

	return groups
}
