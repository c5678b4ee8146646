package service

import (
	"strconv"
	"time"

	"timeclock-backend/internal/database/models"

	"github.com/google/uuid"
)

// Caller is the identity the authentication layer resolved for a request.
type Caller struct {
	MemberID uuid.UUID
	TenantID *uuid.UUID
	Role     models.MemberRole
}

// ScopeKind tags the visibility variant a query runs under
type ScopeKind int

const (
	// ScopeAllTenants places no tenant restriction (global admins only)
	ScopeAllTenants ScopeKind = iota
	// ScopeOneTenant restricts to members of a single tenant
	ScopeOneTenant
	// ScopeExplicitMembers restricts to a fixed member id set
	ScopeExplicitMembers
)

// Scope is the resolved visibility of a query. It is built once at the
// boundary from the caller's role and explicit request parameters, then
// passed as an opaque value through the query layer.
type Scope struct {
	Kind     ScopeKind
	TenantID uuid.UUID
	// MemberIDs further narrows a tenant scope when non-empty; it is the
	// whole restriction for ScopeExplicitMembers.
	MemberIDs []uuid.UUID
}

// ScopeRequest carries the explicit scope parameters of a request, already
// parsed from their wire form. Nil/empty fields mean "not specified".
type ScopeRequest struct {
	TenantID  *uuid.UUID
	MemberIDs []uuid.UUID
}

// ResolveScope translates a caller's role plus explicit filters into a Scope.
// A tenant admin naming a foreign tenant is silently overridden to their own
// tenant; the system favors a permissive fallback over a hard rejection.
func ResolveScope(caller Caller, req ScopeRequest) Scope {
	switch caller.Role {
	case models.MemberRoleGlobalAdmin:
		if req.TenantID != nil {
			return Scope{Kind: ScopeOneTenant, TenantID: *req.TenantID, MemberIDs: req.MemberIDs}
		}
		if len(req.MemberIDs) > 0 {
			return Scope{Kind: ScopeExplicitMembers, MemberIDs: req.MemberIDs}
		}
		return Scope{Kind: ScopeAllTenants}

	case models.MemberRoleTenantAdmin:
		if caller.TenantID == nil {
			// Malformed identity; fall through to self-only visibility.
			return Scope{Kind: ScopeExplicitMembers, MemberIDs: []uuid.UUID{caller.MemberID}}
		}
		return Scope{Kind: ScopeOneTenant, TenantID: *caller.TenantID, MemberIDs: req.MemberIDs}

	default:
		// Workers only ever see themselves.
		return Scope{Kind: ScopeExplicitMembers, MemberIDs: []uuid.UUID{caller.MemberID}}
	}
}

// DateRequest carries the explicit date parameters of a request in their
// wire form. From/To take priority; otherwise year/month/day components
// build a range; otherwise the current calendar day applies.
type DateRequest struct {
	From  *time.Time
	To    *time.Time
	Year  string
	Month string
	Day   string
}

// ResolveDateRange builds the inclusive [from, to] range for a query.
// Malformed components degrade to the broadest enclosing range rather than
// failing the request: a bad day falls back to the whole month, a bad month
// to the whole year, a bad year to the current day. It never errors.
func ResolveDateRange(req DateRequest, now time.Time, loc *time.Location) (time.Time, time.Time) {
	if req.From != nil || req.To != nil {
		from := time.Time{}
		to := now
		if req.From != nil {
			from = *req.From
		}
		if req.To != nil {
			to = *req.To
		}
		return from, to
	}

	year, ok := parseComponent(req.Year, 1, 9999)
	if !ok {
		return dayBounds(now.In(loc))
	}

	month, ok := parseComponent(req.Month, 1, 12)
	if !ok {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		to := time.Date(year, time.December, 31, 23, 59, 59, int(time.Second-time.Nanosecond), loc)
		return from, to
	}

	day, ok := parseComponent(req.Day, 1, 31)
	if !ok {
		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		// Day 0 of the next month is the last day of this one.
		last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, loc)
		to := time.Date(year, time.Month(month), last.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), loc)
		return from, to
	}

	return dayBounds(time.Date(year, time.Month(month), day, 12, 0, 0, 0, loc))
}

func parseComponent(s string, min, max int) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < min || n > max {
		return 0, false
	}
	return n, true
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	to := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
	return from, to
}
