package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"linepay_backend/database"
	"linepay_backend/internal/config"
	"linepay_backend/internal/email"
	"linepay_backend/internal/handlers"
	"linepay_backend/internal/line"
	"linepay_backend/internal/logger"
	"linepay_backend/internal/middleware"
	"linepay_backend/internal/repositories"
	"linepay_backend/internal/routes"
	"linepay_backend/internal/services"
	"linepay_backend/internal/slipok"
	"linepay_backend/internal/statusapi"
	"linepay_backend/internal/storage"
	"linepay_backend/internal/validator"
	"linepay_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	ginRouter, worker := SetupRouter(cfg, gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires every adapter, repository, service and handler and
// returns the router plus the billing worker, not yet started.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *workers.BillingWorker) {
	lineClient, err := line.New(cfg.Line.ChannelSecret, cfg.Line.ChannelAccessToken)
	if err != nil {
		logger.Fatal("Failed to initialize LINE client", "error", err)
	}

	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	verifier := slipok.NewClient(cfg.SlipOK.Endpoint, cfg.SlipOK.APIKey, cfg.SlipOKTimeout())
	toggler := statusapi.NewClient(cfg.StatusAPI.URL, cfg.StatusAPITimeout())

	var alerts email.AlertSender = email.NoopSender{}
	if cfg.Email.Enabled {
		alerts = email.NewSMTPSender(email.Config{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromEmail:    cfg.Email.FromEmail,
			AlertEmail:   cfg.Email.AlertEmail,
		})
	}

	userRepo := repositories.NewUserRepository(gormDB)
	configRepo := repositories.NewPaymentConfigRepository(gormDB)
	txnRepo := repositories.NewTransactionRepository(gormDB)
	imageRepo := repositories.NewSlipImageRepository(gormDB)
	scheduleRepo := repositories.NewBillingScheduleRepository(gormDB)

	reconciliationService := services.NewReconciliationService(
		userRepo, configRepo, txnRepo, imageRepo,
		lineClient, verifier, toggler, storageInstance, alerts,
	)
	userService := services.NewUserService(userRepo, txnRepo, imageRepo)
	scheduleService := services.NewScheduleService(scheduleRepo)

	worker := workers.NewBillingWorker(
		scheduleRepo, configRepo, txnRepo,
		lineClient, toggler, alerts,
		cfg.BillingTick(), cfg.BillingBand(),
	)

	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)
	appHandlers := &handlers.AppHandlers{
		WebhookHandler:  handlers.NewWebhookHandler(baseHandler, lineClient, reconciliationService),
		UserHandler:     handlers.NewUserHandler(baseHandler, userService),
		ScheduleHandler: handlers.NewScheduleHandler(baseHandler, scheduleService),
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())

	routes.RegisterRoutes(ginRouter, appHandlers)

	// Local storage is only reachable by the verifier if we serve it.
	if cfg.Storage.Type == "local" {
		ginRouter.Static("/uploads", cfg.Storage.BasePath)
	}

	return ginRouter, worker
}
