package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evoapps/confeitaria-backend/config"
	"github.com/evoapps/confeitaria-backend/internal/app/controller"
	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/internal/app/service"
	"github.com/evoapps/confeitaria-backend/internal/db"
	"github.com/evoapps/confeitaria-backend/internal/middleware"
	"github.com/evoapps/confeitaria-backend/internal/notifier"
	"github.com/evoapps/confeitaria-backend/internal/router"
	"github.com/evoapps/confeitaria-backend/internal/scheduler"
	"github.com/evoapps/confeitaria-backend/internal/storage"
	ws "github.com/evoapps/confeitaria-backend/internal/websocket"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	redisclient "github.com/evoapps/confeitaria-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting Confeitaria Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
		"db_driver":   cfg.Database.Driver,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.Seed(db.GetDB()); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Login throttle and token revocation live in Redis when enabled
	var throttle service.LoginThrottle = service.NewMemoryLoginThrottle()
	var revoker service.TokenRevoker = service.NewMemoryTokenRevoker()
	if cfg.Redis.Enabled {
		client, err := redisclient.Connect(context.Background(), &cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, using in-process throttle", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer client.Close()
			throttle = redisclient.NewLoginThrottle(client)
			revoker = redisclient.NewTokenBlacklist(client)
		}
	}

	// Backups go to S3 when enabled, otherwise to a local directory
	var blobs storage.BlobStorage = storage.NewLocalStorage(cfg.Backup.LocalDir)
	var presigner controller.ImagePresigner
	if cfg.S3.Enabled {
		s3Storage := storage.NewS3Storage(context.Background(), &cfg.S3)
		blobs = s3Storage
		presigner = s3Storage
	}
	logger.Info("Blob storage configured", map[string]interface{}{
		"backend": blobs.Backend(),
	})

	// Live board and Telegram both receive order events
	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	var orderNotifier service.OrderEventPublisher = notifier.Nop{}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		telegram, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Warn("Telegram notifier disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer telegram.Close()
			orderNotifier = telegram
		}
	}
	publishers := service.OrderEventPublishers{hub, orderNotifier}

	// Initialize repositories
	database := db.GetDB()
	userRepo := repository.NewUserRepository(database)
	storeRepo := repository.NewStoreRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	productRepo := repository.NewProductRepository(database)
	clientRepo := repository.NewClientRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	activityRepo := repository.NewActivityRepository(database)
	backupRepo := repository.NewBackupRepository(database)

	// Initialize services
	activityService := service.NewActivityService(activityRepo)
	authService := service.NewAuthService(
		userRepo,
		activityService,
		throttle,
		revoker,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	userService := service.NewUserService(userRepo, storeRepo, activityService)
	storeService := service.NewStoreService(storeRepo, activityService)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	clientService := service.NewClientService(clientRepo, orderRepo)
	orderService := service.NewOrderService(
		orderRepo,
		productRepo,
		clientRepo,
		storeRepo,
		authService,
		activityService,
		publishers,
		cfg.Order.DeliveryFee,
	)
	dashboardService := service.NewDashboardService(orderRepo)
	reportService := service.NewReportService(orderRepo, productRepo, categoryRepo)
	backupService := service.NewBackupService(backupRepo, blobs, activityService, cfg.Backup.Prefix)

	// Automatic backups follow the stored settings
	backupScheduler := scheduler.NewBackupScheduler(backupService)
	backupService.OnSettingsChange(func(settings model.BackupSettings) {
		if err := backupScheduler.Reschedule(settings); err != nil {
			logger.Error("Failed to reschedule backups", err)
		}
	})
	if err := backupScheduler.Start(); err != nil {
		logger.Error("Failed to start backup scheduler", err)
	}
	defer backupScheduler.Stop()

	// Setup router
	r := router.NewRouter(router.Controllers{
		Auth:      controller.NewAuthController(authService),
		User:      controller.NewUserController(userService),
		Store:     controller.NewStoreController(storeService),
		Category:  controller.NewCategoryController(categoryService),
		Product:   controller.NewProductController(productService),
		Order:     controller.NewOrderController(orderService),
		Client:    controller.NewClientController(clientService),
		Dashboard: controller.NewDashboardController(dashboardService, reportService, activityService),
		Backup:    controller.NewBackupController(backupService),
		Upload:    controller.NewUploadController(presigner),
		Board:     controller.NewBoardController(hub, cfg.CORS.AllowedOrigins),
	}, middleware.NewAuthMiddleware(authService), cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
