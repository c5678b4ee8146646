package auth_test

import (
	"testing"

	"timeclock-backend/internal/auth"
	"timeclock-backend/internal/database/models"
	apperrors "timeclock-backend/internal/errors"
	"timeclock-backend/internal/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockMembers *mocks.MockMemberRepositoryInterface
	mockTenants *mocks.MockTenantRepositoryInterface
	authService *auth.Service
	hasher      *auth.BcryptHasher
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockMembers = mocks.NewMockMemberRepositoryInterface(suite.ctrl)
	suite.mockTenants = mocks.NewMockTenantRepositoryInterface(suite.ctrl)
	suite.hasher = auth.NewBcryptHasher()
	suite.authService = auth.NewService("test-secret", 60, suite.mockMembers, suite.mockTenants)
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *AuthServiceTestSuite) member(password string) *models.Member {
	hash, err := suite.hasher.Hash(password)
	assert.NoError(suite.T(), err)
	tenantID := uuid.New()
	return &models.Member{
		BaseModel:    models.BaseModel{ID: uuid.New()},
		TenantID:     &tenantID,
		Email:        "jane@acme.com",
		PasswordHash: hash,
		Role:         models.MemberRoleWorker,
		Enabled:      true,
	}
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	member := suite.member("secret1")
	tenant := &models.Tenant{BaseModel: models.BaseModel{ID: *member.TenantID}, Enabled: true}

	suite.mockMembers.EXPECT().GetByEmail("jane@acme.com").Return(member, nil)
	suite.mockTenants.EXPECT().GetByID(*member.TenantID).Return(tenant, nil)

	resp, err := suite.authService.Login(&auth.LoginRequest{Email: "jane@acme.com", Password: "secret1"})

	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), resp.Token)
	assert.Equal(suite.T(), member.ID, resp.MemberID)

	claims, err := suite.authService.ValidateToken(resp.Token)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), member.ID, claims.MemberID)
	assert.Equal(suite.T(), string(models.MemberRoleWorker), claims.Role)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	member := suite.member("secret1")

	suite.mockMembers.EXPECT().GetByEmail("jane@acme.com").Return(member, nil)

	resp, err := suite.authService.Login(&auth.LoginRequest{Email: "jane@acme.com", Password: "nope"})

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	suite.mockMembers.EXPECT().GetByEmail("nobody@acme.com").Return(nil, gorm.ErrRecordNotFound)

	resp, err := suite.authService.Login(&auth.LoginRequest{Email: "nobody@acme.com", Password: "secret1"})

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLogin_DisabledMember() {
	member := suite.member("secret1")
	member.Enabled = false

	suite.mockMembers.EXPECT().GetByEmail("jane@acme.com").Return(member, nil)

	resp, err := suite.authService.Login(&auth.LoginRequest{Email: "jane@acme.com", Password: "secret1"})

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrAccountDisabled)
}

func (suite *AuthServiceTestSuite) TestLogin_DisabledTenantBlocksMember() {
	member := suite.member("secret1")
	tenant := &models.Tenant{BaseModel: models.BaseModel{ID: *member.TenantID}, Enabled: false}

	suite.mockMembers.EXPECT().GetByEmail("jane@acme.com").Return(member, nil)
	suite.mockTenants.EXPECT().GetByID(*member.TenantID).Return(tenant, nil)

	resp, err := suite.authService.Login(&auth.LoginRequest{Email: "jane@acme.com", Password: "secret1"})

	assert.Nil(suite.T(), resp)
	assert.ErrorIs(suite.T(), err, apperrors.ErrAccountDisabled)
}

func (suite *AuthServiceTestSuite) TestValidateToken_RejectsTampering() {
	member := suite.member("secret1")
	token, err := suite.authService.IssueToken(member)
	assert.NoError(suite.T(), err)

	claims, err := suite.authService.ValidateToken(token + "x")
	assert.Nil(suite.T(), claims)
	assert.Error(suite.T(), err)
}

func (suite *AuthServiceTestSuite) TestValidateToken_RejectsForeignSecret() {
	member := suite.member("secret1")
	other := auth.NewService("other-secret", 60, suite.mockMembers, suite.mockTenants)
	token, err := other.IssueToken(member)
	assert.NoError(suite.T(), err)

	claims, err := suite.authService.ValidateToken(token)
	assert.Nil(suite.T(), claims)
	assert.Error(suite.T(), err)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	hasher := auth.NewBcryptHasher()

	digest, err := hasher.Hash("secret1")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret1", digest)
	assert.True(t, hasher.Compare(digest, "secret1"))
	assert.False(t, hasher.Compare(digest, "secret2"))
}
