package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Common errors
var (
	ErrMissingDatabaseURL   = errors.New("DATABASE_URL environment variable is required")
	ErrMissingSigningSecret = errors.New("SIGNING_SECRET environment variable is required")
	ErrMissingAPIKey        = errors.New("API_KEY_APP environment variable is required")
	ErrMissingJWTSecret     = errors.New("JWT_SECRET_KEY environment variable is required")
)

// Config holds all server configuration, loaded once at startup.
type Config struct {
	// Postgres DSN (PostGIS extension required)
	DatabaseURL string

	// HMAC ingestion guard
	APIKey        string
	SigningSecret string
	AllowedSkew   time.Duration

	// Admin token auth
	JWTSecret    string
	JWTExpiresIn time.Duration
	AdminUser    string
	AdminPass    string

	Port string
}

// DefaultAllowedSkew is the accepted clock drift between a field device and
// the server, in either direction.
const DefaultAllowedSkew = 120 * time.Second

// LoadFromEnv loads server configuration from environment variables.
//
// Environment variables:
//   - DATABASE_URL: Postgres DSN (required)
//   - API_KEY_APP: key identifier expected from field devices
//   - SIGNING_SECRET: HMAC-SHA256 signing secret shared with field devices
//   - HMAC_SKEW_SECONDS: allowed timestamp skew in seconds (default: 120)
//   - JWT_SECRET_KEY: signing key for admin bearer tokens
//   - JWT_ACCESS_TOKEN_EXPIRE_MINUTES: admin token lifetime (default: 30)
//   - ADMIN_USER / ADMIN_PASS: bootstrap admin credentials (default: admin/admin123)
//   - PORT: HTTP listen port (default: 8000)
func LoadFromEnv() Config {
	skew := DefaultAllowedSkew
	if s := strings.TrimSpace(os.Getenv("HMAC_SKEW_SECONDS")); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			skew = time.Duration(n) * time.Second
		}
	}

	expiry := 30 * time.Minute
	if s := strings.TrimSpace(os.Getenv("JWT_ACCESS_TOKEN_EXPIRE_MINUTES")); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			expiry = time.Duration(n) * time.Minute
		}
	}

	adminUser := os.Getenv("ADMIN_USER")
	if adminUser == "" {
		adminUser = "admin"
	}
	adminPass := os.Getenv("ADMIN_PASS")
	if adminPass == "" {
		adminPass = "admin123"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	return Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		APIKey:        os.Getenv("API_KEY_APP"),
		SigningSecret: os.Getenv("SIGNING_SECRET"),
		AllowedSkew:   skew,
		JWTSecret:     os.Getenv("JWT_SECRET_KEY"),
		JWTExpiresIn:  expiry,
		AdminUser:     adminUser,
		AdminPass:     adminPass,
		Port:          port,
	}
}

// Validate checks that every required setting is present.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.SigningSecret == "" {
		return ErrMissingSigningSecret
	}
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}
