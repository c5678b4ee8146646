package service_test

import (
	"testing"
	"time"

	"timeclock-backend/internal/database/models"
	apperrors "timeclock-backend/internal/errors"
	"timeclock-backend/internal/mocks"
	"timeclock-backend/internal/repository"
	"timeclock-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type EventServiceTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockRepo     *mocks.MockEventRepositoryInterface
	mockMembers  *mocks.MockMemberRepositoryInterface
	eventService *service.EventService
}

func (suite *EventServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockRepo = mocks.NewMockEventRepositoryInterface(suite.ctrl)
	suite.mockMembers = mocks.NewMockMemberRepositoryInterface(suite.ctrl)
	suite.eventService = service.NewEventService(suite.mockRepo, suite.mockMembers)
}

func (suite *EventServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func workerCaller(tenantID uuid.UUID) service.Caller {
	return service.Caller{MemberID: uuid.New(), TenantID: &tenantID, Role: models.MemberRoleWorker}
}

func (suite *EventServiceTestSuite) TestRecord_Success() {
	caller := workerCaller(uuid.New())
	ts := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	suite.mockRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(e *models.AttendanceEvent) error {
		e.ID = uuid.New()
		assert.Equal(suite.T(), caller.MemberID, e.MemberID)
		assert.Equal(suite.T(), models.EventKindClockIn, e.Kind)
		return nil
	})

	resp, err := suite.eventService.Record(caller, &service.RecordEventRequest{
		Kind:      "entrada",
		Timestamp: &ts,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), caller.MemberID, resp.MemberID)
	assert.Equal(suite.T(), ts, resp.Timestamp)
}

func (suite *EventServiceTestSuite) TestRecord_DefaultsTimestampToNow() {
	caller := workerCaller(uuid.New())
	before := time.Now()

	suite.mockRepo.EXPECT().Create(gomock.Any()).Return(nil)

	resp, err := suite.eventService.Record(caller, &service.RecordEventRequest{Kind: "salida"})

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), resp.Timestamp.Before(before))
}

func (suite *EventServiceTestSuite) TestRecord_InvalidKind() {
	resp, err := suite.eventService.Record(workerCaller(uuid.New()), &service.RecordEventRequest{Kind: "pause"})

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidEventKind)
}

func (suite *EventServiceTestSuite) TestQuery_WorkerSeesOnlySelf() {
	caller := workerCaller(uuid.New())

	suite.mockRepo.EXPECT().Query(gomock.Any()).DoAndReturn(func(f repository.EventFilter) ([]models.AttendanceEvent, error) {
		assert.Equal(suite.T(), []uuid.UUID{caller.MemberID}, f.MemberIDs)
		return []models.AttendanceEvent{}, nil
	})

	// Explicit filters for other members are discarded for workers.
	other := uuid.New()
	_, err := suite.eventService.Query(caller, &service.EventQueryRequest{
		Scope: service.ScopeRequest{MemberIDs: []uuid.UUID{other}},
	})

	assert.NoError(suite.T(), err)
}

func (suite *EventServiceTestSuite) TestQuery_GlobalAdminUnrestricted() {
	caller := service.Caller{MemberID: uuid.New(), Role: models.MemberRoleGlobalAdmin}

	suite.mockRepo.EXPECT().Query(gomock.Any()).DoAndReturn(func(f repository.EventFilter) ([]models.AttendanceEvent, error) {
		assert.Nil(suite.T(), f.MemberIDs)
		assert.NotNil(suite.T(), f.From)
		assert.NotNil(suite.T(), f.To)
		return []models.AttendanceEvent{}, nil
	})

	_, err := suite.eventService.Query(caller, &service.EventQueryRequest{})

	assert.NoError(suite.T(), err)
}

func (suite *EventServiceTestSuite) TestQuery_TenantScopeIntersectsExplicitMembers() {
	tenantID := uuid.New()
	caller := service.Caller{MemberID: uuid.New(), TenantID: &tenantID, Role: models.MemberRoleTenantAdmin}

	inside := uuid.New()
	outside := uuid.New()
	suite.mockMembers.EXPECT().GetIDsByTenantID(tenantID).Return([]uuid.UUID{inside, caller.MemberID}, nil)
	suite.mockRepo.EXPECT().Query(gomock.Any()).DoAndReturn(func(f repository.EventFilter) ([]models.AttendanceEvent, error) {
		assert.Equal(suite.T(), []uuid.UUID{inside}, f.MemberIDs)
		return []models.AttendanceEvent{}, nil
	})

	_, err := suite.eventService.Query(caller, &service.EventQueryRequest{
		Scope: service.ScopeRequest{MemberIDs: []uuid.UUID{inside, outside}},
	})

	assert.NoError(suite.T(), err)
}

func (suite *EventServiceTestSuite) TestQuery_EmptyScopeShortCircuits() {
	tenantID := uuid.New()
	caller := service.Caller{MemberID: uuid.New(), TenantID: &tenantID, Role: models.MemberRoleTenantAdmin}

	// Tenant has no members at all; the store is never queried.
	suite.mockMembers.EXPECT().GetIDsByTenantID(tenantID).Return(nil, nil)

	events, err := suite.eventService.Query(caller, &service.EventQueryRequest{})

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), events)
}

func (suite *EventServiceTestSuite) TestClockStateFor_QueriesDayBounds() {
	memberID := uuid.New()
	instant := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)

	suite.mockRepo.EXPECT().Query(gomock.Any()).DoAndReturn(func(f repository.EventFilter) ([]models.AttendanceEvent, error) {
		assert.Equal(suite.T(), []uuid.UUID{memberID}, f.MemberIDs)
		assert.Equal(suite.T(), 10, f.From.Day())
		assert.Equal(suite.T(), 0, f.From.Hour())
		assert.Equal(suite.T(), 23, f.To.Hour())
		return []models.AttendanceEvent{
			{MemberID: memberID, Kind: models.EventKindClockIn, Timestamp: instant.Add(-2 * time.Hour)},
		}, nil
	})

	state, err := suite.eventService.ClockStateFor(memberID, instant, time.UTC)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), state.CanClockIn)
	assert.True(suite.T(), state.CanClockOut)
}

func TestEventServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EventServiceTestSuite))
}
