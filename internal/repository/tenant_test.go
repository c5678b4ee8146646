//go:build integration
// +build integration

package repository

import (
	"testing"

	"timeclock-backend/internal/database/models"
	"timeclock-backend/internal/testutils"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// TenantRepositoryTestSuite tests the TenantRepository
type TenantRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *TenantRepository
	factory       *testutils.TenantFactory
}

// SetupSuite runs before all tests in the suite
func (suite *TenantRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewTenantRepository(suite.baseTestSuite.DB)
	suite.factory = testutils.NewTenantFactory()
}

// TearDownSuite runs after all tests in the suite
func (suite *TenantRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *TenantRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *TenantRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func (suite *TenantRepositoryTestSuite) TestCreateAndGetByID() {
	tenant := suite.factory.WithName("Acme")
	suite.NoError(suite.repo.Create(tenant))

	found, err := suite.repo.GetByID(tenant.ID)
	suite.NoError(err)
	suite.Equal("Acme", found.Name)
	suite.True(found.Enabled)
}

func (suite *TenantRepositoryTestSuite) TestGetByNormalizedName() {
	tenant := suite.factory.WithName("Acme Logistics")
	suite.NoError(suite.repo.Create(tenant))

	// Case and surrounding whitespace are ignored.
	found, err := suite.repo.GetByNormalizedName("  acme logistics ")
	suite.NoError(err)
	suite.Equal(tenant.ID, found.ID)

	_, err = suite.repo.GetByNormalizedName("unknown")
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *TenantRepositoryTestSuite) TestGetAll_OrderedByName() {
	suite.NoError(suite.repo.Create(suite.factory.WithName("Zeta")))
	suite.NoError(suite.repo.Create(suite.factory.WithName("Acme")))

	tenants, total, err := suite.repo.GetAll(10, 0)
	suite.NoError(err)
	suite.Equal(int64(2), total)
	suite.Equal("Acme", tenants[0].Name)
	suite.Equal("Zeta", tenants[1].Name)
}

func (suite *TenantRepositoryTestSuite) TestDelete() {
	tenant := suite.factory.Create()
	suite.NoError(suite.repo.Create(tenant))
	suite.NoError(suite.repo.Delete(tenant.ID))

	_, err := suite.repo.GetByID(tenant.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *TenantRepositoryTestSuite) TestGetWithMembers() {
	tenant := suite.factory.Create()
	suite.NoError(suite.repo.Create(tenant))

	memberFactory := testutils.NewMemberFactory()
	member := memberFactory.WithTenant(tenant.ID)
	suite.NoError(suite.baseTestSuite.DB.Create(member).Error)

	found, err := suite.repo.GetWithMembers(tenant.ID)
	suite.NoError(err)
	suite.Len(found.Members, 1)
	suite.Equal(member.ID, found.Members[0].ID)
}

func (suite *TenantRepositoryTestSuite) TestUpdateEnabledFlag() {
	tenant := suite.factory.Create()
	suite.NoError(suite.repo.Create(tenant))

	tenant.Enabled = false
	suite.NoError(suite.repo.Update(tenant))

	var found models.Tenant
	suite.NoError(suite.baseTestSuite.DB.First(&found, "id = ?", tenant.ID).Error)
	suite.False(found.Enabled)
}

func TestTenantRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TenantRepositoryTestSuite))
}
