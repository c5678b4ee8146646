package routes

import (
	"timeclock-backend/internal/api/handlers"
	"timeclock-backend/internal/api/middleware"
	"timeclock-backend/internal/auth"
	"timeclock-backend/internal/config"
	"timeclock-backend/internal/database/models"
	"timeclock-backend/internal/repository"
	"timeclock-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg))

	validate := validator.New()

	// Repositories
	tenantRepo := repository.NewTenantRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Collaborators
	hasher := auth.NewBcryptHasher()
	images := service.NewLocalImageStore(cfg.UploadDir)

	// Services
	tenantService := service.NewTenantService(tenantRepo, memberRepo, validate)
	memberService := service.NewMemberService(memberRepo, tenantRepo, eventRepo, hasher, images, validate)
	eventService := service.NewEventService(eventRepo, memberRepo)
	lifecycleService := service.NewLifecycleService(tenantRepo, memberRepo, eventRepo, hasher, images)
	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiryMins, memberRepo, tenantRepo)
	authMiddleware := auth.NewMiddleware(authService)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService)
	tenantHandler := handlers.NewTenantHandler(tenantService, lifecycleService)
	memberHandler := handlers.NewMemberHandler(memberService)
	eventHandler := handlers.NewEventHandler(eventService)

	router.GET("/health", healthHandler.Health)

	v1 := router.Group("/api/v1")

	v1.POST("/auth/login", authHandler.Login)

	protected := v1.Group("")
	protected.Use(authMiddleware.RequireAuth())

	adminOnly := authMiddleware.RequireRole(models.MemberRoleTenantAdmin, models.MemberRoleGlobalAdmin)
	globalOnly := authMiddleware.RequireRole(models.MemberRoleGlobalAdmin)

	tenants := protected.Group("/tenants")
	{
		tenants.GET("", tenantHandler.ListTenants)
		tenants.GET("/:id", tenantHandler.GetTenant)
		tenants.POST("", globalOnly, tenantHandler.CreateTenant)
		tenants.PUT("/:id", globalOnly, tenantHandler.UpdateTenant)
		tenants.PATCH("/:id/enabled", globalOnly, tenantHandler.SetTenantEnabled)
		tenants.DELETE("/:id", globalOnly, tenantHandler.DeleteTenant)
		tenants.GET("/:id/export", globalOnly, tenantHandler.ExportTenant)
		tenants.POST("/import", globalOnly, tenantHandler.ImportTenant)
	}

	membersGroup := protected.Group("/members")
	{
		membersGroup.GET("", adminOnly, memberHandler.ListMembers)
		membersGroup.GET("/:id", adminOnly, memberHandler.GetMember)
		membersGroup.POST("", adminOnly, memberHandler.CreateMember)
		membersGroup.PUT("/:id", adminOnly, memberHandler.UpdateMember)
		membersGroup.PATCH("/:id/enabled", adminOnly, memberHandler.SetMemberEnabled)
		membersGroup.DELETE("/:id", adminOnly, memberHandler.DeleteMember)
	}

	events := protected.Group("/events")
	{
		events.POST("", eventHandler.RecordEvent)
		events.GET("", eventHandler.QueryEvents)
		events.GET("/state", eventHandler.ClockState)
	}

	return router
}
