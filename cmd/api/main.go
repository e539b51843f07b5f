package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/onusexpress/courier-api/internal/application/service"
	"github.com/onusexpress/courier-api/internal/config"
	"github.com/onusexpress/courier-api/internal/infrastructure/database"
	"github.com/onusexpress/courier-api/internal/infrastructure/repository"
	"github.com/onusexpress/courier-api/internal/presentation/http/handler"
	"github.com/onusexpress/courier-api/internal/presentation/http/routes"
	"github.com/onusexpress/courier-api/pkg/email"
	"github.com/onusexpress/courier-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiry,
		cfg.JWT.AdminExpiry,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)
	auditRepo := repository.NewCredentialAuditRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	contactRepo := repository.NewContactRepository(db)
	failureRepo := repository.NewDispatchFailureRepository(db)
	notificationRepo := repository.NewQuoteNotificationRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.SMTP.Host,
		SMTPPort:     cfg.SMTP.Port,
		SMTPUsername: cfg.SMTP.User,
		SMTPPassword: cfg.SMTP.Password,
		FromName:     cfg.SMTP.FromName,
		FromEmail:    cfg.SMTP.From,
		SalesEmail:   cfg.SMTP.SalesEmail,
		FrontendURL:  cfg.SMTP.FrontendURL,
	})

	// Initialize services
	dispatchService := service.NewDispatchService(
		cfg.Dispatch.Endpoint,
		cfg.Dispatch.Token,
		cfg.Dispatch.Timeout,
		failureRepo,
	)
	quoteService := service.NewQuoteService(dispatchService)
	authService := service.NewAuthService(userRepo, passwordResetRepo, auditRepo, jwtManager, emailService, cfg.Admin.PIN)
	campaignService := service.NewCampaignService(campaignRepo, applicationRepo)
	leadService := service.NewLeadService(contactRepo)
	notificationService := service.NewNotificationService(notificationRepo, emailService)

	// Evict abandoned quote sessions in the background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	quoteService.StartJanitor(ctx, time.Hour)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Account:      handler.NewAccountHandler(authService),
		Quote:        handler.NewQuoteHandler(quoteService),
		Lead:         handler.NewLeadHandler(leadService),
		Campaign:     handler.NewCampaignHandler(campaignService),
		Notification: handler.NewNotificationHandler(notificationService),
		Dispatch:     handler.NewDispatchHandler(failureRepo),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
