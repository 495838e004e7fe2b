package routes

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-app/lumina-backend/internal/config"
	"github.com/lumina-app/lumina-backend/internal/handlers"
)

// testApp wires the full route table with inert handlers. The JWT guard
// rejects every request before a handler runs, which is enough to tell a
// mounted route (401) from a missing one (404).
func testApp() *fiber.App {
	cfg := &config.Config{SessionSecret: "test-secret"}
	app := fiber.New()
	Setup(app, cfg, nil,
		handlers.NewAuthHandler(nil),
		handlers.NewOAuthHandler(nil, nil, cfg),
		handlers.NewPhotoHandler(nil),
		handlers.NewEnhanceHandler(nil, nil),
		handlers.NewSubscriptionHandler(nil),
		handlers.NewAdminHandler(nil),
		handlers.NewHealthHandler(nil),
	)
	return app
}

func TestAdminRoutesMountedAtRoot(t *testing.T) {
	app := testApp()

	for _, path := range []string{"/admin/stats", "/admin/users"} {
		req := httptest.NewRequest("GET", path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := testApp()

	routes := []struct{ method, path string }{
		{"POST", "/api/upload"},
		{"GET", "/api/photos"},
		{"POST", "/api/enhance"},
		{"POST", "/api/subscribe"},
		{"GET", "/api/me"},
	}
	for _, r := range routes {
		req := httptest.NewRequest(r.method, r.path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, r.method+" "+r.path)
	}
}
