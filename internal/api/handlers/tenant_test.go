package handlers

import (
	"net/http"
	"testing"

	"timeclock-backend/internal/auth"
	"timeclock-backend/internal/database/models"
	apperrors "timeclock-backend/internal/errors"
	"timeclock-backend/internal/mocks"
	"timeclock-backend/internal/service"
	"timeclock-backend/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// injectClaims fakes the authentication middleware for handler tests.
func injectClaims(memberID uuid.UUID, tenantID *uuid.UUID, role models.MemberRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("auth_claims", &auth.Claims{
			MemberID: memberID,
			TenantID: tenantID,
			Role:     string(role),
		})
		c.Next()
	}
}

type TenantHandlerTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockService   *mocks.MockTenantServiceInterface
	mockLifecycle *mocks.MockLifecycleServiceInterface
	http          *testutils.HTTPTestSuite
}

func (suite *TenantHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockService = mocks.NewMockTenantServiceInterface(suite.ctrl)
	suite.mockLifecycle = mocks.NewMockLifecycleServiceInterface(suite.ctrl)
	suite.http = testutils.SetupHTTPTest()

	handler := NewTenantHandler(suite.mockService, suite.mockLifecycle)
	admin := suite.http.Router.Group("/api/v1/tenants")
	admin.Use(injectClaims(uuid.New(), nil, models.MemberRoleGlobalAdmin))
	{
		admin.POST("", handler.CreateTenant)
		admin.GET("", handler.ListTenants)
		admin.GET("/:id", handler.GetTenant)
		admin.PUT("/:id", handler.UpdateTenant)
		admin.PATCH("/:id/enabled", handler.SetTenantEnabled)
		admin.DELETE("/:id", handler.DeleteTenant)
		admin.GET("/:id/export", handler.ExportTenant)
		admin.POST("/import", handler.ImportTenant)
	}
}

func (suite *TenantHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *TenantHandlerTestSuite) TestCreateTenant_Success() {
	resp := &service.TenantResponse{ID: uuid.New(), Name: "Acme", Enabled: true}
	suite.mockService.EXPECT().Create(gomock.Any()).Return(resp, nil)

	rec := suite.http.MakeRequest(http.MethodPost, "/api/v1/tenants", service.CreateTenantRequest{Name: "Acme"})

	var got service.TenantResponse
	testutils.AssertJSONResponse(suite.T(), rec, http.StatusCreated, &got)
	assert.Equal(suite.T(), "Acme", got.Name)
}

func (suite *TenantHandlerTestSuite) TestCreateTenant_Conflict() {
	suite.mockService.EXPECT().Create(gomock.Any()).Return(nil, apperrors.ErrTenantExists)

	rec := suite.http.MakeRequest(http.MethodPost, "/api/v1/tenants", service.CreateTenantRequest{Name: "Acme"})

	testutils.AssertErrorResponse(suite.T(), rec, http.StatusConflict, "already exists")
}

func (suite *TenantHandlerTestSuite) TestGetTenant_InvalidID() {
	rec := suite.http.MakeRequest(http.MethodGet, "/api/v1/tenants/not-a-uuid", nil)

	testutils.AssertErrorResponse(suite.T(), rec, http.StatusBadRequest, "Invalid tenant ID")
}

func (suite *TenantHandlerTestSuite) TestGetTenant_NotFound() {
	id := uuid.New()
	suite.mockService.EXPECT().GetByID(id).Return(nil, apperrors.ErrTenantNotFound)

	rec := suite.http.MakeRequest(http.MethodGet, "/api/v1/tenants/"+id.String(), nil)

	testutils.AssertErrorResponse(suite.T(), rec, http.StatusNotFound, "not found")
}

func (suite *TenantHandlerTestSuite) TestSetTenantEnabled_RequiresBody() {
	id := uuid.New()

	rec := suite.http.MakeRequest(http.MethodPatch, "/api/v1/tenants/"+id.String()+"/enabled", map[string]interface{}{})

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *TenantHandlerTestSuite) TestSetTenantEnabled_Success() {
	id := uuid.New()
	resp := &service.TenantResponse{ID: id, Name: "Acme", Enabled: false}
	suite.mockService.EXPECT().SetEnabled(id, false).Return(resp, nil)

	rec := suite.http.MakeRequest(http.MethodPatch, "/api/v1/tenants/"+id.String()+"/enabled",
		map[string]interface{}{"enabled": false})

	var got service.TenantResponse
	testutils.AssertJSONResponse(suite.T(), rec, http.StatusOK, &got)
	assert.False(suite.T(), got.Enabled)
}

func (suite *TenantHandlerTestSuite) TestDeleteTenant_Success() {
	id := uuid.New()
	suite.mockLifecycle.EXPECT().Delete(id).Return(nil)

	rec := suite.http.MakeRequest(http.MethodDelete, "/api/v1/tenants/"+id.String(), nil)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *TenantHandlerTestSuite) TestDeleteTenant_NotFound() {
	id := uuid.New()
	suite.mockLifecycle.EXPECT().Delete(id).Return(apperrors.ErrTenantNotFound)

	rec := suite.http.MakeRequest(http.MethodDelete, "/api/v1/tenants/"+id.String(), nil)

	testutils.AssertErrorResponse(suite.T(), rec, http.StatusNotFound, "not found")
}

func (suite *TenantHandlerTestSuite) TestExportTenant_SetsAttachmentHeader() {
	id := uuid.New()
	bundle := &service.Bundle{
		Tenant:   &service.BundleTenant{Name: "Acme", Enabled: true},
		Users:    []service.BundleUser{},
		Fichajes: []service.BundleEvent{},
		Version:  1,
	}
	suite.mockLifecycle.EXPECT().Export(id).Return(bundle, nil)

	rec := suite.http.MakeRequest(http.MethodGet, "/api/v1/tenants/"+id.String()+"/export", nil)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Header().Get("Content-Disposition"), "attachment")

	var got service.Bundle
	testutils.ParseJSONResponse(suite.T(), rec, &got)
	assert.Equal(suite.T(), 1, got.Version)
	assert.Equal(suite.T(), "Acme", got.Tenant.Name)
}

func (suite *TenantHandlerTestSuite) TestImportTenant_Success() {
	result := &service.ImportResult{
		Tenant:      &service.TenantResponse{ID: uuid.New(), Name: "Acme"},
		MemberCount: 2,
		EventCount:  10,
	}
	suite.mockLifecycle.EXPECT().Import(gomock.Any()).Return(result, nil)

	bundle := service.Bundle{
		Tenant:   &service.BundleTenant{Name: "Acme", Enabled: true},
		Users:    []service.BundleUser{},
		Fichajes: []service.BundleEvent{},
		Version:  1,
	}
	rec := suite.http.MakeRequest(http.MethodPost, "/api/v1/tenants/import", bundle)

	var got service.ImportResult
	testutils.AssertJSONResponse(suite.T(), rec, http.StatusCreated, &got)
	assert.Equal(suite.T(), 2, got.MemberCount)
}

func (suite *TenantHandlerTestSuite) TestImportTenant_InvalidBundle() {
	suite.mockLifecycle.EXPECT().Import(gomock.Any()).Return(nil, apperrors.ErrInvalidBundle)

	rec := suite.http.MakeRequest(http.MethodPost, "/api/v1/tenants/import", map[string]interface{}{"version": 1})

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *TenantHandlerTestSuite) TestImportTenant_DuplicateName() {
	suite.mockLifecycle.EXPECT().Import(gomock.Any()).Return(nil, apperrors.ErrTenantExists)

	bundle := service.Bundle{
		Tenant:   &service.BundleTenant{Name: "Acme", Enabled: true},
		Users:    []service.BundleUser{},
		Fichajes: []service.BundleEvent{},
		Version:  1,
	}
	rec := suite.http.MakeRequest(http.MethodPost, "/api/v1/tenants/import", bundle)

	testutils.AssertErrorResponse(suite.T(), rec, http.StatusConflict, "already exists")
}

func TestTenantHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TenantHandlerTestSuite))
}
