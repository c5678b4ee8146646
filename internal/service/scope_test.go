package service_test

import (
	"testing"
	"time"

	"timeclock-backend/internal/database/models"
	"timeclock-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolveScope_GlobalAdmin(t *testing.T) {
	caller := service.Caller{MemberID: uuid.New(), Role: models.MemberRoleGlobalAdmin}

	scope := service.ResolveScope(caller, service.ScopeRequest{})
	assert.Equal(t, service.ScopeAllTenants, scope.Kind)

	tenantID := uuid.New()
	scope = service.ResolveScope(caller, service.ScopeRequest{TenantID: &tenantID})
	assert.Equal(t, service.ScopeOneTenant, scope.Kind)
	assert.Equal(t, tenantID, scope.TenantID)

	memberID := uuid.New()
	scope = service.ResolveScope(caller, service.ScopeRequest{MemberIDs: []uuid.UUID{memberID}})
	assert.Equal(t, service.ScopeExplicitMembers, scope.Kind)
	assert.Equal(t, []uuid.UUID{memberID}, scope.MemberIDs)
}

func TestResolveScope_TenantAdminForcedToOwnTenant(t *testing.T) {
	ownTenant := uuid.New()
	foreignTenant := uuid.New()
	caller := service.Caller{
		MemberID: uuid.New(),
		TenantID: &ownTenant,
		Role:     models.MemberRoleTenantAdmin,
	}

	// Naming a foreign tenant is silently overridden, not rejected.
	scope := service.ResolveScope(caller, service.ScopeRequest{TenantID: &foreignTenant})
	assert.Equal(t, service.ScopeOneTenant, scope.Kind)
	assert.Equal(t, ownTenant, scope.TenantID)
}

func TestResolveScope_TenantAdminWithoutTenant(t *testing.T) {
	caller := service.Caller{MemberID: uuid.New(), Role: models.MemberRoleTenantAdmin}

	scope := service.ResolveScope(caller, service.ScopeRequest{})
	assert.Equal(t, service.ScopeExplicitMembers, scope.Kind)
	assert.Equal(t, []uuid.UUID{caller.MemberID}, scope.MemberIDs)
}

func TestResolveScope_WorkerSelfOnly(t *testing.T) {
	tenantID := uuid.New()
	caller := service.Caller{
		MemberID: uuid.New(),
		TenantID: &tenantID,
		Role:     models.MemberRoleWorker,
	}

	// Explicit filters are ignored for workers.
	other := uuid.New()
	scope := service.ResolveScope(caller, service.ScopeRequest{
		TenantID:  &tenantID,
		MemberIDs: []uuid.UUID{other},
	})
	assert.Equal(t, service.ScopeExplicitMembers, scope.Kind)
	assert.Equal(t, []uuid.UUID{caller.MemberID}, scope.MemberIDs)
}

func TestResolveDateRange_ExplicitBounds(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	fromWant := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	toWant := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	from, to := service.ResolveDateRange(service.DateRequest{From: &fromWant, To: &toWant}, now, time.UTC)
	assert.Equal(t, fromWant, from)
	assert.Equal(t, toWant, to)

	// A lone From runs until now.
	from, to = service.ResolveDateRange(service.DateRequest{From: &fromWant}, now, time.UTC)
	assert.Equal(t, fromWant, from)
	assert.Equal(t, now, to)
}

func TestResolveDateRange_FullDay(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	from, to := service.ResolveDateRange(service.DateRequest{Year: "2025", Month: "6", Day: "3"}, now, time.UTC)
	assert.Equal(t, time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, 3, to.Day())
	assert.Equal(t, 23, to.Hour())
}

func TestResolveDateRange_BadDayFallsBackToMonth(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	from, to := service.ResolveDateRange(service.DateRequest{Year: "2025", Month: "2", Day: "banana"}, now, time.UTC)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.February, to.Month())
	assert.Equal(t, 28, to.Day())
}

func TestResolveDateRange_BadMonthFallsBackToYear(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	from, to := service.ResolveDateRange(service.DateRequest{Year: "2025", Month: "13", Day: "3"}, now, time.UTC)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.December, to.Month())
	assert.Equal(t, 31, to.Day())
}

func TestResolveDateRange_BadYearFallsBackToCurrentDay(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	from, to := service.ResolveDateRange(service.DateRequest{Year: "oops", Month: "6", Day: "3"}, now, time.UTC)
	assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, 15, to.Day())
	assert.Equal(t, 23, to.Hour())
}

func TestResolveDateRange_NothingGivenIsToday(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	from, to := service.ResolveDateRange(service.DateRequest{}, now, time.UTC)
	assert.Equal(t, 15, from.Day())
	assert.Equal(t, 0, from.Hour())
	assert.Equal(t, 15, to.Day())
	assert.Equal(t, 23, to.Hour())
}
