package main

import (
	"github.com/345668/CarbonTrackRegistry-sub001/internal/config"
	"github.com/345668/CarbonTrackRegistry-sub001/internal/handlers"
	"github.com/345668/CarbonTrackRegistry-sub001/internal/models"
	"github.com/345668/CarbonTrackRegistry-sub001/internal/services"
	"github.com/345668/CarbonTrackRegistry-sub001/internal/utils"
	"github.com/345668/CarbonTrackRegistry-sub001/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg                 *config.Config
	taskQueue           services.TaskQueue
	worker              *services.Worker
	scheduler           *services.Scheduler
	ledgerService       *services.LedgerService
	verificationService *services.VerificationService
	creditService       *services.CreditService
	authHandler         *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default categories, methodologies and verification stages
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Initialize system logger
	services.InitSystemLogger(models.GetDB())

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)
	ledgerService := services.NewLedgerService(models.GetDB(), taskQueue, cfg.Registry.LedgerEnabled)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(ledgerService.Process)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(ledgerService.Process)
			if err := worker.Start(); err != nil {
				logger.Warn().Err(err).Msg("Failed to start ledger worker")
			}
		}
	}

	// Domain services
	projectService := services.NewProjectService(models.GetDB(), cfg.Registry.DefaultCountry)
	emailService := services.NewEmailService(&cfg.SMTP)
	verificationService := services.NewVerificationService(models.GetDB(), projectService, ledgerService, emailService)
	creditService := services.NewCreditService(models.GetDB(), ledgerService)

	// Periodic statistics refresh and log cleanup
	statsService := services.NewStatisticsService(models.GetDB())
	scheduler := services.NewScheduler(statsService, services.NewSystemLogService(models.GetDB()))
	if err := scheduler.Start(cfg.Registry.StatsRefreshMinutes); err != nil {
		logger.Warn().Err(err).Msg("Failed to start scheduler")
	}

	// Create default admin user
	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		cfg:                 cfg,
		taskQueue:           taskQueue,
		worker:              worker,
		scheduler:           scheduler,
		ledgerService:       ledgerService,
		verificationService: verificationService,
		creditService:       creditService,
		authHandler:         authHandler,
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	logger.Info().Msg("All background services stopped")
}
