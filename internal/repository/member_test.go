//go:build integration
// +build integration

package repository

import (
	"testing"

	"timeclock-backend/internal/database/models"
	"timeclock-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// MemberRepositoryTestSuite tests the MemberRepository
type MemberRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *MemberRepository
	tenants       *TenantRepository
	factory       *testutils.MemberFactory
}

// SetupSuite runs before all tests in the suite
func (suite *MemberRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewMemberRepository(suite.baseTestSuite.DB)
	suite.tenants = NewTenantRepository(suite.baseTestSuite.DB)
	suite.factory = testutils.NewMemberFactory()
}

// TearDownSuite runs after all tests in the suite
func (suite *MemberRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *MemberRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *MemberRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// createTenant inserts a tenant for members to reference
func (suite *MemberRepositoryTestSuite) createTenant() *models.Tenant {
	tenant := testutils.NewTenantFactory().WithName("T-" + uuid.NewString()[:8])
	suite.NoError(suite.tenants.Create(tenant))
	return tenant
}

func (suite *MemberRepositoryTestSuite) TestCreateAndGetByEmail() {
	tenant := suite.createTenant()
	member := suite.factory.WithTenant(tenant.ID)
	member.Email = "jane.doe@acme.com"
	suite.NoError(suite.repo.Create(member))

	// Lookup is case-insensitive.
	found, err := suite.repo.GetByEmail("Jane.Doe@ACME.com")
	suite.NoError(err)
	suite.Equal(member.ID, found.ID)
}

func (suite *MemberRepositoryTestSuite) TestGlobalAdminHasNoTenant() {
	admin := suite.factory.GlobalAdmin()
	suite.NoError(suite.repo.Create(admin))

	found, err := suite.repo.GetByID(admin.ID)
	suite.NoError(err)
	suite.Nil(found.TenantID)
	suite.Equal(models.MemberRoleGlobalAdmin, found.Role)
}

func (suite *MemberRepositoryTestSuite) TestGetByTenantID() {
	tenant := suite.createTenant()
	other := suite.createTenant()

	suite.NoError(suite.repo.Create(suite.factory.WithTenant(tenant.ID)))
	suite.NoError(suite.repo.Create(suite.factory.WithTenant(tenant.ID)))
	suite.NoError(suite.repo.Create(suite.factory.WithTenant(other.ID)))

	members, total, err := suite.repo.GetByTenantID(tenant.ID, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(members, 2)
}

func (suite *MemberRepositoryTestSuite) TestGetIDsByTenantID() {
	tenant := suite.createTenant()
	m1 := suite.factory.WithTenant(tenant.ID)
	m2 := suite.factory.WithTenant(tenant.ID)
	suite.NoError(suite.repo.Create(m1))
	suite.NoError(suite.repo.Create(m2))

	ids, err := suite.repo.GetIDsByTenantID(tenant.ID)
	suite.NoError(err)
	suite.ElementsMatch([]uuid.UUID{m1.ID, m2.ID}, ids)
}

func (suite *MemberRepositoryTestSuite) TestDeleteByIDs() {
	tenant := suite.createTenant()
	m1 := suite.factory.WithTenant(tenant.ID)
	m2 := suite.factory.WithTenant(tenant.ID)
	suite.NoError(suite.repo.Create(m1))
	suite.NoError(suite.repo.Create(m2))

	suite.NoError(suite.repo.DeleteByIDs([]uuid.UUID{m1.ID, m2.ID}))

	_, err := suite.repo.GetByID(m1.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
	_, err = suite.repo.GetByID(m2.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *MemberRepositoryTestSuite) TestSetEnabledByTenantID() {
	tenant := suite.createTenant()
	m1 := suite.factory.WithTenant(tenant.ID)
	m2 := suite.factory.WithTenant(tenant.ID)
	suite.NoError(suite.repo.Create(m1))
	suite.NoError(suite.repo.Create(m2))

	suite.NoError(suite.repo.SetEnabledByTenantID(tenant.ID, false))

	for _, id := range []uuid.UUID{m1.ID, m2.ID} {
		found, err := suite.repo.GetByID(id)
		suite.NoError(err)
		suite.False(found.Enabled)
	}
}

func TestMemberRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(MemberRepositoryTestSuite))
}
