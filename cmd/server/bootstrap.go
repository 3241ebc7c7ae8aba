package main

import (
	"github.com/codecrew/backend/internal/config"
	"github.com/codecrew/backend/internal/handlers"
	"github.com/codecrew/backend/internal/models"
	"github.com/codecrew/backend/internal/realtime"
	"github.com/codecrew/backend/internal/services"
	"github.com/codecrew/backend/internal/utils"
	"github.com/codecrew/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	hub         *realtime.Hub
	bridge      *realtime.RedisBridge
	taskQueue   services.TaskQueue
	worker      *services.Worker
	authHandler *handlers.AuthHandler
	chatHandler *handlers.ChatHandler
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

	// Seed default data
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Create default admin account
	authService := services.NewAuthService(models.GetDB(), &cfg.JWT)
	if err := authService.CreateAdminIfNotExists(cfg.Server.AdminPassword); err != nil {
		logger.Warn().Err(err).Msg("Failed to create default admin")
	}

	// Initialize system logger
	services.InitSystemLogger(models.GetDB())

	// Start system log cleanup scheduler
	services.StartLogCleanupScheduler(models.GetDB())

	// Chat fan-out. The in-process hub handles a single instance; with
	// Redis enabled, messages also cross instances through pub/sub.
	hub := realtime.NewHub(cfg.Chat.ClientBuffer)
	var bridge *realtime.RedisBridge
	var publisher realtime.Publisher = hub
	if cfg.Redis.Enabled {
		b, err := realtime.NewRedisBridge(&cfg.Redis, hub)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis chat bridge unavailable, staying single-instance")
		} else {
			b.Start()
			bridge = b
			publisher = b
		}
	}

	// Notification delivery queue (uses Redis if enabled, otherwise sync mode)
	notificationService := services.NewNotificationService(models.GetDB())
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(notificationService.Deliver)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled && taskQueue.IsAsync() {
		worker = services.NewWorker(&cfg.Redis)
		worker.SetProcessor(notificationService.Deliver)
		if err := worker.Start(); err != nil {
			logger.Warn().Err(err).Msg("Failed to start notification worker")
		}
	}

	return &appServices{
		hub:         hub,
		bridge:      bridge,
		taskQueue:   taskQueue,
		worker:      worker,
		authHandler: handlers.NewAuthHandler(models.GetDB(), cfg),
		chatHandler: handlers.NewChatHandler(models.GetDB(), &cfg.Chat, hub, publisher),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	services.StopLogCleanupScheduler()

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	if s.bridge != nil {
		s.bridge.Stop()
	}
	logger.Info().Msg("All background services stopped")
}
