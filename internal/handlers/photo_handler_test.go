package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-app/lumina-backend/internal/config"
	"github.com/lumina-app/lumina-backend/internal/middleware"
	"github.com/lumina-app/lumina-backend/internal/services"
)

// uploadApp mounts only the upload route. The request validation under test
// runs before any service call, so the service graph stays inert.
func uploadApp(cfg *config.Config) *fiber.App {
	h := NewPhotoHandler(services.NewPhotoService(nil, nil, nil))
	app := fiber.New(fiber.Config{BodyLimit: 12 * 1024 * 1024})
	app.Post("/api/upload", middleware.JWTProtected(cfg), h.Upload)
	return app
}

func accessToken(t *testing.T, secret string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func multipartFile(t *testing.T, contentType string, size int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(make([]byte, size))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

// Oversized input is a validation failure, same as a wrong content type.
func TestUploadOversizedImageRejected(t *testing.T) {
	cfg := &config.Config{SessionSecret: "test-secret"}
	app := uploadApp(cfg)

	body, contentType := multipartFile(t, "image/png", services.MaxUploadBytes+1)
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, cfg.SessionSecret))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadRejectsNonImageFile(t *testing.T) {
	cfg := &config.Config{SessionSecret: "test-secret"}
	app := uploadApp(cfg)

	body, contentType := multipartFile(t, "text/plain", 128)
	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, cfg.SessionSecret))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadMissingFile(t *testing.T) {
	cfg := &config.Config{SessionSecret: "test-secret"}
	app := uploadApp(cfg)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+accessToken(t, cfg.SessionSecret))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
