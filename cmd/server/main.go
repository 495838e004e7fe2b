package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/lumina-app/lumina-backend/internal/config"
	"github.com/lumina-app/lumina-backend/internal/database"
	"github.com/lumina-app/lumina-backend/internal/handlers"
	"github.com/lumina-app/lumina-backend/internal/inference"
	"github.com/lumina-app/lumina-backend/internal/logging"
	"github.com/lumina-app/lumina-backend/internal/middleware"
	"github.com/lumina-app/lumina-backend/internal/oauth"
	"github.com/lumina-app/lumina-backend/internal/routes"
	"github.com/lumina-app/lumina-backend/internal/services"
	"github.com/lumina-app/lumina-backend/internal/storage"
	"github.com/lumina-app/lumina-backend/internal/workers"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	for _, required := range []struct{ name, value string }{
		{"SESSION_SECRET", cfg.SessionSecret},
		{"DATABASE_URL", cfg.DatabaseURL},
		{"REPLICATE_API_TOKEN", cfg.ReplicateAPIToken},
		{"CLOUDINARY_CLOUD_NAME", cfg.CloudinaryCloudName},
		{"CLOUDINARY_API_KEY", cfg.CloudinaryAPIKey},
		{"CLOUDINARY_API_SECRET", cfg.CloudinaryAPISecret},
	} {
		if required.value == "" {
			slog.Error(required.name + " environment variable is required")
			os.Exit(1)
		}
	}

	// Database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewFanout(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cleanupDone)

	// External services
	store, err := storage.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	if err != nil {
		slog.Error("cloudinary init failed", "error", err)
		os.Exit(1)
	}

	engine, err := inference.NewReplicateEngine(cfg.ReplicateAPIToken)
	if err != nil {
		slog.Error("replicate init failed", "error", err)
		os.Exit(1)
	}

	registry := oauth.NewRegistry(cfg)
	slog.Info("oauth providers registered", "providers", registry.Names())

	// Services
	authService := services.NewAuthService(db, cfg)
	photoService := services.NewPhotoService(db, store, nil)
	analyzer := workers.NewAnalyzer(photoService, engine, cfg.AITimeout, 64)
	photoService.SetAnalyzer(analyzer)
	analyzer.Start(2)

	enhanceService := services.NewEnhanceService(photoService, store, engine, cfg.AITimeout)
	subscriptionService := services.NewSubscriptionService(db)
	statsService := services.NewStatsService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	oauthHandler := handlers.NewOAuthHandler(registry, authService, cfg)
	photoHandler := handlers.NewPhotoHandler(photoService)
	enhanceHandler := handlers.NewEnhanceHandler(enhanceService, authService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	adminHandler := handlers.NewAdminHandler(statsService)
	healthHandler := handlers.NewHealthHandler(db)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app. Body limit leaves headroom over the 10MB image cap for
	// multipart framing.
	app := fiber.New(fiber.Config{
		BodyLimit:    12 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, db, authHandler, oauthHandler, photoHandler, enhanceHandler, subscriptionHandler, adminHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	// Stop the listener first: no new uploads may reach Enqueue while the
	// analyzer is draining.
	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := analyzer.Shutdown(drainCtx); err != nil {
		slog.Error("analyzer drain incomplete", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
