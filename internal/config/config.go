// Copyright (C) 2025 the wedding-website maintainers
// See root-dir/LICENSE for more information

package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the site.
type Config struct {
	Environment string
	Addr        string
	DBPath      string

	// GuestPassword is the shared site password guests receive with
	// their invitation.
	GuestPassword string

	// AdminUser and AdminPasswordHash gate the /admin pages. The hash
	// is a bcrypt digest, never the plain password.
	AdminUser         string
	AdminPasswordHash string

	// SessionSecret signs the login cookie.
	SessionSecret string

	CacheTTL     time.Duration
	OTLPEndpoint string
}

// Load reads configuration from environment variables, loading a .env
// file first outside of production. Missing .env is not an error since
// production relies on system environment variables.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	if env != "production" {
		if err := godotenv.Load(); err != nil {
			slog.Warn("no .env file loaded", "error", err)
		}
	}

	cfg := &Config{
		Environment:       env,
		Addr:              os.Getenv("ADDR"),
		DBPath:            os.Getenv("DB_PATH"),
		GuestPassword:     os.Getenv("GUEST_PASSWORD"),
		AdminUser:         os.Getenv("ADMIN_USER"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		OTLPEndpoint:      os.Getenv("OTLP_ENDPOINT"),
		CacheTTL:          5 * time.Minute,
	}

	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, err
		}
		cfg.CacheTTL = ttl
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "wedding.db"
	}
	if cfg.AdminUser == "" {
		cfg.AdminUser = "admin"
	}

	return cfg, nil
}
