package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aibot-api/internal/api"
	"aibot-api/internal/api/handlers"
	"aibot-api/internal/bot"
	"aibot-api/internal/config"
	"aibot-api/internal/models"
	"aibot-api/internal/openai"
	"aibot-api/internal/repository"
	"aibot-api/internal/services"
	"aibot-api/internal/telegram"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	// Initialize database connection
	db, err := initDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Get underlying *sql.DB instance for connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get underlying *sql.DB instance:", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	// Initialize repositories
	quotaConfig := config.NewQuotaConfig()
	userRepo := repository.NewUserRepository(db, quotaConfig)
	historyRepo := repository.NewHistoryRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Initialize services
	entitlementService := services.NewEntitlementService(userRepo, historyRepo, quotaConfig)
	completionClient := openai.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	chatService := services.NewChatService(completionClient, entitlementService)
	imageService := services.NewImageService(cfg.ImageAPIURL)

	// Initialize the bot
	botClient := telegram.NewClient(cfg.TelegramToken, cfg.PaymentToken)
	router := bot.NewRouter(botClient, entitlementService, chatService, imageService, paymentRepo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// HTTP surface: health, admin usage endpoint, webhook receiver
	usageHandler := handlers.NewUsageHandler(entitlementService)
	httpRouter := api.SetupRoutes(db, usageHandler, router, cfg.AdminToken)

	corsMiddleware := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Admin-Token"},
		MaxAge:         300,
	})

	srv := &http.Server{
		Handler:      corsMiddleware.Handler(httpRouter),
		Addr:         ":" + cfg.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	go func() {
		log.Printf("HTTP server starting on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed:", err)
		}
	}()

	// Inbound updates: webhook push or long polling
	if cfg.Mode == config.ModeWebhook {
		if err := botClient.SetWebhook(ctx, cfg.WebhookURL); err != nil {
			log.Fatal("Failed to set webhook:", err)
		}
		log.Printf("Webhook registered at %s", cfg.WebhookURL)
		<-ctx.Done()
	} else {
		if err := botClient.DeleteWebhook(ctx); err != nil {
			log.Printf("Warning: failed to delete webhook before polling: %v", err)
		}
		poller := telegram.NewPoller(botClient, router)
		if err := poller.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("Polling loop stopped: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	// Configure GORM logger
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	gormConfig := &gorm.Config{Logger: gormLogger}

	var db *gorm.DB
	var err error
	if cfg.DatabaseURL != "" {
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), gormConfig)
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormConfig)
	}
	if err != nil {
		return nil, err
	}

	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.HistoryEntry{},
		&models.Payment{},
	)
}
