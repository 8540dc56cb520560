// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"styleforge-backend/internal/config"
	"styleforge-backend/internal/database"
	"styleforge-backend/internal/handlers"
	"styleforge-backend/internal/jobs"
	"styleforge-backend/internal/repository"
	"styleforge-backend/internal/routes"
	"styleforge-backend/internal/services"
	"styleforge-backend/internal/storage"
)

func initLogger(env string) *zap.Logger {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	// Customize time format
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func main() {
	// Initialize logger first
	logger := initLogger(os.Getenv("ENV"))
	defer logger.Sync() // Flush any buffered log entries

	// Replace global logger
	zap.ReplaceGlobals(logger)

	logger.Info("Starting styleforge-backend server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port))

	// Initialize database
	db, err := database.NewMongoDB(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			logger.Error("Error closing database connection", zap.Error(err))
		}
	}()

	logger.Info("Successfully connected to MongoDB")

	// Job registry is the durable source of truth for in-flight jobs; it
	// must survive process restarts, so Redis is required here.
	registry, err := jobs.NewRedisRegistry(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	logger.Info("Successfully connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// Object storage is optional; without a bucket the original uploads are
	// simply not archived.
	var images storage.ImageStore
	if cfg.Storage.Bucket != "" {
		images, err = storage.NewS3Store(context.Background(), cfg)
		if err != nil {
			logger.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		logger.Info("Object storage initialized", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		images = storage.NewNopStore()
		logger.Warn("No storage bucket configured, original images will not be archived")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetCollection("users"))
	transformRepo := repository.NewTransformationRepository(db.GetCollection("transformations"))

	// Initialize services
	userService := services.NewUserService(userRepo)
	creditsService := services.NewCreditsService(userRepo)
	paymentService := services.NewPaymentService(cfg, userRepo)
	falService := services.NewFalAPIService(cfg)
	verifier := services.NewWebhookVerifier(cfg.Fal.JWKSURL)
	transformService := services.NewTransformService(
		userRepo,
		transformRepo,
		registry,
		creditsService,
		falService,
		images,
		cfg.Server.BaseURL,
	)

	logger.Info("All services initialized successfully")

	// Initialize handlers
	h := &routes.Handlers{
		Health:          handlers.NewHealthHandler(),
		User:            handlers.NewUserHandler(userService),
		Transform:       handlers.NewTransformHandler(transformService),
		Jobs:            handlers.NewJobsHandler(transformService),
		Webhook:         handlers.NewWebhookHandler(verifier, transformService),
		Payment:         handlers.NewPaymentHandler(paymentService),
		Transformations: handlers.NewTransformationsHandler(transformRepo),
		ImageProxy:      handlers.NewImageProxyHandler(),
	}

	// Setup routes
	router := routes.SetupRoutes(cfg, h)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}
