package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/lumina-app/lumina-backend/internal/config"
	"github.com/lumina-app/lumina-backend/internal/handlers"
	"github.com/lumina-app/lumina-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	oauthHandler *handlers.OAuthHandler,
	photoHandler *handlers.PhotoHandler,
	enhanceHandler *handlers.EnhanceHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Auth is public, with a stricter rate limit than the rest of the API:
	// 10 req/min per IP
	auth := app.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Get("/logout", authHandler.Logout)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/status", authHandler.Status)

	// Social login. The provider segment must match a Registry entry;
	// Apple posts its callback instead of redirecting with a query string.
	auth.Get("/:provider<regex(google|facebook|apple)>", oauthHandler.Begin)
	auth.Get("/:provider<regex(google|facebook)>/callback", oauthHandler.Callback)
	auth.Post("/:provider<regex(apple)>/callback", oauthHandler.Callback)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Health)

	// Protected routes (JWT required) - apply middleware to individual routes
	// so public routes stay unaffected
	api.Get("/me", middleware.JWTProtected(cfg), authHandler.Me)

	api.Post("/upload", middleware.JWTProtected(cfg), photoHandler.Upload)
	api.Get("/photos", middleware.JWTProtected(cfg), photoHandler.List)
	api.Get("/photos/:id", middleware.JWTProtected(cfg), photoHandler.Get)
	api.Get("/photos/:id/status", middleware.JWTProtected(cfg), photoHandler.Status)
	api.Post("/photos/:id/rating", middleware.JWTProtected(cfg), photoHandler.Rate)

	api.Post("/enhance", middleware.JWTProtected(cfg), enhanceHandler.Enhance)
	api.Post("/subscribe", middleware.JWTProtected(cfg), subscriptionHandler.Subscribe)

	// Admin dashboard (protected + admin required). Lives at the root, not
	// under /api; the dashboard fetches /admin/stats directly.
	admin := app.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/users", adminHandler.Users)
}
