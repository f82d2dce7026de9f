package main

import (
	"github.com/gin-gonic/gin"

	"github.com/345668/CarbonTrackRegistry-sub001/internal/handlers"
	"github.com/345668/CarbonTrackRegistry-sub001/internal/middleware"
	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for public auth routes
	authLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
			auth.GET("/config", svc.authHandler.GetAuthConfig)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Dashboard and statistics (all users)
			dashboardHandler := handlers.NewDashboardHandler(models.GetDB())
			protected.GET("/dashboard", dashboardHandler.GetOverview)
			protected.GET("/dashboard/map", dashboardHandler.GetMapFeatures)
			protected.GET("/statistics", dashboardHandler.GetStatistics)
			protected.POST("/statistics/refresh", dashboardHandler.RefreshStatistics)

			// Projects
			projectHandler := handlers.NewProjectHandler(models.GetDB(), svc.cfg.Registry.DefaultCountry)
			protected.GET("/projects", projectHandler.List)
			protected.GET("/projects/:id", projectHandler.GetByID)
			protected.GET("/projects/key/:projectId", projectHandler.GetByKey)
			protected.POST("/projects", projectHandler.Create)
			protected.PUT("/projects/:id", projectHandler.Update)
			protected.POST("/projects/:id/submit", projectHandler.Submit)
			protected.DELETE("/projects/:id", projectHandler.Delete)

			// Categories and methodologies (read for all users)
			categoryHandler := handlers.NewCategoryHandler(models.GetDB())
			protected.GET("/categories", categoryHandler.List)
			methodologyHandler := handlers.NewMethodologyHandler(models.GetDB())
			protected.GET("/methodologies", methodologyHandler.List)

			// Verification stages (read for all users)
			stageHandler := handlers.NewStageHandler(models.GetDB())
			protected.GET("/verification-stages", stageHandler.List)

			// Verifications (read for all users)
			verificationHandler := handlers.NewVerificationHandler(svc.verificationService)
			protected.GET("/verifications", verificationHandler.List)
			protected.GET("/verifications/:id", verificationHandler.GetByID)

			// Verification workflow (verifiers and admins)
			verifier := protected.Group("")
			verifier.Use(middleware.RoleRequired(models.RoleAdmin, models.RoleVerifier))
			{
				verifier.POST("/verifications", verificationHandler.Create)
				verifier.POST("/verifications/:id/advance", verificationHandler.AdvanceStage)
				verifier.POST("/verifications/:id/resolve", verificationHandler.Resolve)
			}

			// Credits
			creditHandler := handlers.NewCreditHandler(svc.creditService)
			protected.GET("/credits", creditHandler.List)
			protected.GET("/credits/:id", creditHandler.GetByID)
			protected.GET("/credits/serial/:serial", creditHandler.GetBySerial)
			protected.GET("/credits/:id/history", creditHandler.History)
			protected.POST("/credits", creditHandler.Issue)
			protected.POST("/credits/:id/retire", creditHandler.Retire)
			protected.POST("/credits/:id/transfer", creditHandler.Transfer)

			// Activity log
			activityHandler := handlers.NewActivityHandler(models.GetDB())
			protected.GET("/activity", activityHandler.List)
			protected.POST("/activity", activityHandler.Record)

			// Ledger records (read for all users)
			ledgerHandler := handlers.NewLedgerHandler(svc.ledgerService)
			protected.GET("/ledger", ledgerHandler.List)
			protected.GET("/ledger/:receiptId", ledgerHandler.GetByReceipt)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			// Users
			userHandler := handlers.NewUserHandler(models.GetDB())
			admin.GET("/users", userHandler.List)
			admin.POST("/users", userHandler.Create)
			admin.PUT("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)

			// Categories and methodologies (write operations)
			categoryHandler := handlers.NewCategoryHandler(models.GetDB())
			admin.POST("/categories", categoryHandler.Create)
			admin.PUT("/categories/:id", categoryHandler.Update)
			admin.DELETE("/categories/:id", categoryHandler.Delete)

			methodologyHandler := handlers.NewMethodologyHandler(models.GetDB())
			admin.POST("/methodologies", methodologyHandler.Create)
			admin.PUT("/methodologies/:id", methodologyHandler.Update)
			admin.DELETE("/methodologies/:id", methodologyHandler.Delete)

			// Verification stages (write operations)
			stageHandler := handlers.NewStageHandler(models.GetDB())
			admin.POST("/verification-stages", stageHandler.Create)
			admin.PUT("/verification-stages/:id", stageHandler.Update)
			admin.DELETE("/verification-stages/:id", stageHandler.Delete)

			// System Logs
			systemLogHandler := handlers.NewSystemLogHandler(models.GetDB())
			admin.GET("/system-logs", systemLogHandler.List)
			admin.GET("/system-logs/modules", systemLogHandler.GetModules)
			admin.GET("/system-logs/retention", systemLogHandler.GetRetention)
			admin.PUT("/system-logs/retention", systemLogHandler.SetRetention)
			admin.POST("/system-logs/cleanup", systemLogHandler.Cleanup)

			// System Config
			systemConfigHandler := handlers.NewSystemConfigHandler(models.GetDB())
			admin.GET("/system-config/groups", systemConfigHandler.ListGroups)
			admin.GET("/system-config/:group", systemConfigHandler.GetByGroup)
			admin.PUT("/system-config", systemConfigHandler.Set)
		}
	}
}
