package service

import (
	"fmt"
	"time"

	"timeclock-backend/internal/database/models"
	apperrors "timeclock-backend/internal/errors"
	"timeclock-backend/internal/repository"

	"github.com/google/uuid"
)

// EventService handles recording attendance events and the scoped query /
// reconciliation reads over them.
type EventService struct {
	repo    repository.EventRepositoryInterface
	members repository.MemberRepositoryInterface
}

// NewEventService creates a new attendance event service
func NewEventService(repo repository.EventRepositoryInterface, members repository.MemberRepositoryInterface) *EventService {
	return &EventService{repo: repo, members: members}
}

// RecordEventRequest represents the request to record an attendance event.
// The owning member is always the caller; any client-supplied identity is
// ignored.
type RecordEventRequest struct {
	Kind      string     `json:"kind"`
	Timestamp *time.Time `json:"timestamp"`
}

// EventResponse represents the response for a recorded event
type EventResponse struct {
	ID        uuid.UUID `json:"id"`
	MemberID  uuid.UUID `json:"member_id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// EventQueryRequest bundles the explicit filters of an event query before
// scope resolution.
type EventQueryRequest struct {
	Scope ScopeRequest
	Date  DateRequest
	Kinds []models.EventKind
}

// Record persists an attendance event for the caller. The timestamp
// defaults to the current instant; the kind must be one of the three
// enumerated values.
func (s *EventService) Record(caller Caller, req *RecordEventRequest) (*EventResponse, error) {
	kind := models.EventKind(req.Kind)
	if !kind.IsValid() {
		return nil, apperrors.ErrInvalidEventKind
	}

	ts := time.Now()
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}

	event := &models.AttendanceEvent{
		MemberID:  caller.MemberID,
		Kind:      kind,
		Timestamp: ts,
	}

	if err := s.repo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to record event: %w", err)
	}

	return &EventResponse{
		ID:        event.ID,
		MemberID:  event.MemberID,
		Kind:      string(event.Kind),
		Timestamp: event.Timestamp,
	}, nil
}

// Query returns the events visible to the caller under the request's
// explicit filters, ordered ascending by timestamp.
func (s *EventService) Query(caller Caller, req *EventQueryRequest) ([]models.AttendanceEvent, error) {
	scope := ResolveScope(caller, req.Scope)

	memberIDs, unrestricted, err := s.resolveMemberIDs(scope)
	if err != nil {
		return nil, err
	}
	if !unrestricted && len(memberIDs) == 0 {
		// Scope resolved to nobody; nothing can match.
		return []models.AttendanceEvent{}, nil
	}

	from, to := ResolveDateRange(req.Date, time.Now(), time.Local)

	filter := repository.EventFilter{
		From:  &from,
		To:    &to,
		Kinds: req.Kinds,
	}
	if !unrestricted {
		filter.MemberIDs = memberIDs
	}

	events, err := s.repo.Query(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	return events, nil
}

// QueryGrouped returns the caller-visible events grouped per member and
// calendar day, most recent day first.
func (s *EventService) QueryGrouped(caller Caller, req *EventQueryRequest) ([]DayGroup, error) {
	events, err := s.Query(caller, req)
	if err != nil {
		return nil, err
	}
	return GroupEventsByDay(events, time.Local), nil
}

// ClockStateFor computes the caller's clock state for the day containing
// the given instant. The result may be momentarily stale under concurrent
// writes; each clock action is still durably recorded.
func (s *EventService) ClockStateFor(memberID uuid.UUID, at time.Time, loc *time.Location) (*ClockState, error) {
	from, to := dayBounds(at.In(loc))
	events, err := s.repo.Query(repository.EventFilter{
		From:      &from,
		To:        &to,
		MemberIDs: []uuid.UUID{memberID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	state := ComputeClockState(events)
	return &state, nil
}

// resolveMemberIDs turns a Scope into the member id set a store query may
// touch. The second return is true when no member restriction applies at
// all (global admin without explicit scope).
func (s *EventService) resolveMemberIDs(scope Scope) ([]uuid.UUID, bool, error) {
	switch scope.Kind {
	case ScopeAllTenants:
		return nil, true, nil

	case ScopeExplicitMembers:
		return scope.MemberIDs, false, nil

	case ScopeOneTenant:
		tenantMembers, err := s.members.GetIDsByTenantID(scope.TenantID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to resolve tenant members: %w", err)
		}
		if len(scope.MemberIDs) == 0 {
			return tenantMembers, false, nil
		}
		// Explicit member set intersected with the tenant boundary.
		allowed := make(map[uuid.UUID]bool, len(tenantMembers))
		for _, id := range tenantMembers {
			allowed[id] = true
		}
		var ids []uuid.UUID
		for _, id := range scope.MemberIDs {
			if allowed[id] {
				ids = append(ids, id)
			}
		}
		return ids, false, nil

	default:
		return nil, false, fmt.Errorf("unknown scope kind %d", scope.Kind)
	}
}
