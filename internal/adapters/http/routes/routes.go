package routes

import (
	"log"
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/http/handlers"
	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/http/middleware"
	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/repositories"
	"github.com/Kaixun123/SerenShift-sub001/internal/config"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/services"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application and returns the cron
// service so the caller controls its lifecycle.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.CronService {
	// Initialize repositories
	employeeRepo := repositories.NewEmployeeRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	scheduleRepo := repositories.NewScheduleRepository(db)
	blacklistRepo := repositories.NewBlacklistRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	fileRepo := repositories.NewFileRepository(db)

	// Attachment storage backend
	store, err := storage.NewDiskStore(cfg.Storage.Dir)
	if err != nil {
		log.Fatalf("❌ Failed to initialize attachment storage: %v", err)
	}

	// Initialize services
	authService := services.NewAuthService(employeeRepo, refreshTokenRepo, cfg.JWT)
	employeeService := services.NewEmployeeService(employeeRepo)
	fileService := services.NewFileService(fileRepo, store)
	notificationService := services.NewNotificationService(notificationRepo, cfg.Notify)
	blacklistService := services.NewBlacklistService(db, blacklistRepo, fileService)
	applicationService := services.NewApplicationService(
		db,
		applicationRepo,
		scheduleRepo,
		employeeRepo,
		blacklistService,
		notificationService,
		fileService,
	)
	scheduleService := services.NewScheduleService(scheduleRepo)
	statisticsService := services.NewStatisticsService(applicationRepo, scheduleRepo, employeeRepo)
	cronService := services.NewCronService(applicationRepo, employeeRepo, refreshTokenRepo, notificationService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	blacklistHandler := handlers.NewBlacklistHandler(blacklistService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	statisticsHandler := handlers.NewStatisticsHandler(statisticsService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate limited)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Employee directory routes
	employeeRoutes := apiV1.Group("/employee")
	employeeRoutes.Use(middleware.AuthMiddleware(cfg))
	setupEmployeeRoutes(employeeRoutes, employeeHandler)

	// Application lifecycle routes
	applicationRoutes := apiV1.Group("/application")
	applicationRoutes.Use(middleware.AuthMiddleware(cfg))
	setupApplicationRoutes(applicationRoutes, applicationHandler)

	// Blacklist routes
	blacklistRoutes := apiV1.Group("/blacklist")
	blacklistRoutes.Use(middleware.AuthMiddleware(cfg))
	setupBlacklistRoutes(blacklistRoutes, blacklistHandler)

	// Notification routes
	notificationRoutes := apiV1.Group("/notification")
	notificationRoutes.Use(middleware.AuthMiddleware(cfg))
	notificationRoutes.Use(middleware.NoCacheHeaders())
	setupNotificationRoutes(notificationRoutes, notificationHandler)

	// Schedule routes
	scheduleRoutes := apiV1.Group("/schedule")
	scheduleRoutes.Use(middleware.AuthMiddleware(cfg))
	scheduleRoutes.Get("/retrieveSchedules", scheduleHandler.RetrieveSchedules)

	// Statistics routes (HR only)
	statisticsRoutes := apiV1.Group("/statistics")
	statisticsRoutes.Use(middleware.AuthMiddleware(cfg))
	statisticsRoutes.Use(middleware.HROnly())
	statisticsRoutes.Get("/overview", statisticsHandler.Overview)

	return cronService
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupEmployeeRoutes configures employee directory routes
func setupEmployeeRoutes(router fiber.Router, handler *handlers.EmployeeHandler) {
	router.Get("/myDetails", handler.MyDetails)
	router.Get("/colleagues", handler.Colleagues)

	// Approver routes
	router.Get("/mySubordinates", middleware.ApproverOnly(), handler.MySubordinates)

	// HR routes
	router.Post("/createEmployee", middleware.HROnly(), handler.CreateEmployee)
	router.Delete("/deleteEmployee/:id", middleware.HROnly(), handler.DeleteEmployee)
}

// setupApplicationRoutes configures application lifecycle routes
func setupApplicationRoutes(router fiber.Router, handler *handlers.ApplicationHandler) {
	// Requestor routes
	router.Post("/createNewApplication", handler.CreateNewApplication)
	router.Get("/retrieveApplications", handler.RetrieveApplications)
	router.Get("/retrieveApplication/:id", handler.RetrieveApplication)
	router.Patch("/updatePendingApplication/:id", handler.UpdatePendingApplication)
	router.Put("/withdrawPending/:id", handler.WithdrawPending)
	router.Put("/withdrawApproved/:id", handler.WithdrawApproved)

	// Approver routes
	approverRoutes := router.Group("")
	approverRoutes.Use(middleware.ApproverOnly())
	approverRoutes.Get("/retrievePendingApplications", handler.RetrievePendingApplications)
	approverRoutes.Put("/approveApplication/:id", handler.ApproveApplication)
	approverRoutes.Put("/rejectApplication/:id", handler.RejectApplication)
}

// setupBlacklistRoutes configures blocked-window routes
func setupBlacklistRoutes(router fiber.Router, handler *handlers.BlacklistHandler) {
	// Every employee can read the blocked windows
	router.Get("/getBlacklistDates", middleware.PublicCache(5*time.Minute), handler.GetBlacklistDates)

	// Manager/HR routes
	managerRoutes := router.Group("")
	managerRoutes.Use(middleware.ApproverOnly())
	managerRoutes.Post("/createBlacklistDate", handler.CreateBlacklistDate)
	managerRoutes.Patch("/updateBlacklistDate/:id", handler.UpdateBlacklistDate)
	managerRoutes.Delete("/deleteBlacklist/:id", handler.DeleteBlacklist)
}

// setupNotificationRoutes configures notification routes
func setupNotificationRoutes(router fiber.Router, handler *handlers.NotificationHandler) {
	router.Get("/retrieveNotifications", handler.RetrieveNotifications)
	router.Patch("/markAsRead/:id", handler.MarkAsRead)
	router.Patch("/markAllAsRead", handler.MarkAllAsRead)
}
