package config

import (
	"os"
	"time"
)

type Config struct {
	// Database
	DatabaseURL string

	// Tokens (SESSION_SECRET signs access tokens)
	SessionSecret      string
	TokenAccessExpiry  time.Duration
	TokenRefreshExpiry time.Duration

	// Replicate
	ReplicateAPIToken string
	AITimeout         time.Duration

	// Cloudinary
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	// OAuth; a provider activates only when its client id is set
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	FacebookAppID       string
	FacebookAppSecret   string
	FacebookCallbackURL string

	AppleClientID       string
	AppleTeamID         string
	AppleKeyID          string
	ApplePrivateKeyPath string
	AppleCallbackURL    string

	// Admin
	AdminEmail string

	// Server
	Port        string
	CORSOrigins string
	FrontendURL string
}

func Load() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),

		SessionSecret:      getEnv("SESSION_SECRET", ""),
		TokenAccessExpiry:  parseDuration(getEnv("TOKEN_ACCESS_EXPIRY", "24h")),
		TokenRefreshExpiry: parseDuration(getEnv("TOKEN_REFRESH_EXPIRY", "720h")),

		ReplicateAPIToken: getEnv("REPLICATE_API_TOKEN", ""),
		AITimeout:         parseDuration(getEnv("AI_TIMEOUT", "60s")),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "lumina"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleCallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "/auth/google/callback"),

		FacebookAppID:       getEnv("FACEBOOK_APP_ID", ""),
		FacebookAppSecret:   getEnv("FACEBOOK_APP_SECRET", ""),
		FacebookCallbackURL: getEnv("FACEBOOK_CALLBACK_URL", "/auth/facebook/callback"),

		AppleClientID:       getEnv("APPLE_CLIENT_ID", ""),
		AppleTeamID:         getEnv("APPLE_TEAM_ID", ""),
		AppleKeyID:          getEnv("APPLE_KEY_ID", ""),
		ApplePrivateKeyPath: getEnv("APPLE_PRIVATE_KEY_PATH", ""),
		AppleCallbackURL:    getEnv("APPLE_CALLBACK_URL", "/auth/apple/callback"),

		AdminEmail: getEnv("ADMIN_EMAIL", ""),

		Port:        getEnv("PORT", "3000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}
