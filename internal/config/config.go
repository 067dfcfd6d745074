package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"

	serviceRole = "service_role"
)

var (
	ErrMissingServiceURL = errors.New("SUPABASE_URL is required for the rest backend")
	ErrMissingServiceKey = errors.New("SUPABASE_SERVICE_ROLE_KEY is required for the rest backend")
	ErrMissingDatabase   = errors.New("DATABASE_URL is required for the postgres backend")
	ErrNotServiceRole    = errors.New("SUPABASE_SERVICE_ROLE_KEY is not a service-role key")
)

type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`

	DatabaseBackend string `env:"DATABASE_BACKEND" envDefault:"rest"`
	ServiceURL      string `env:"SUPABASE_URL"`
	ServiceRoleKey  string `env:"SUPABASE_SERVICE_ROLE_KEY"`
	DatabaseURL     string `env:"DATABASE_URL"`
	DatabaseDriver  string `env:"DATABASE_DRIVER" envDefault:"postgres"`

	RedisURL        string `env:"REDIS_URL"`
	RateLimitPerMin int    `env:"RATE_LIMIT_PER_MIN" envDefault:"120"`

	DiagnosticsEnabled   bool   `env:"DIAGNOSTICS_ENABLED" envDefault:"true"`
	DiagnosticLocationID string `env:"DIAGNOSTIC_LOCATION_ID" envDefault:"test-location-id"`

	CRMExtraScopes  []string `env:"CRM_EXTRA_SCOPES" envSeparator:","`
	CRMClientID     string   `env:"CRM_CLIENT_ID"`
	CRMRedirectURL  string   `env:"CRM_REDIRECT_URL"`
	CRMAuthorizeURL string   `env:"CRM_AUTHORIZE_URL" envDefault:"https://marketplace.gohighlevel.com/oauth/chooselocation"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ValidateBackend checks the credentials for the selected database backend.
// It runs when the privileged store is first built, not at process start.
func (c *Config) ValidateBackend() error {
	switch c.DatabaseBackend {
	case BackendREST:
		if c.ServiceURL == "" {
			return ErrMissingServiceURL
		}
		if c.ServiceRoleKey == "" {
			return ErrMissingServiceKey
		}
		return validateServiceRoleKey(c.ServiceRoleKey)
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabase
		}
		return nil
	default:
		return fmt.Errorf("unknown DATABASE_BACKEND %q (expected %q or %q)", c.DatabaseBackend, BackendREST, BackendPostgres)
	}
}

// Validate checks values that are needed at startup and warns about risky
// settings in production.
func (c *Config) Validate() error {
	if c.Port <= 0 {
		return fmt.Errorf("PORT must be positive, got %d", c.Port)
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must not be negative, got %d", c.RateLimitPerMin)
	}

	if c.IsProduction() {
		if c.DiagnosticsEnabled {
			log.Warn().Msg("DIAGNOSTICS_ENABLED is on in production: /diagnostic-endpoint is development scaffolding")
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

// validateServiceRoleKey reads the role claim without verifying the
// signature; the key is checked by the database service on every request.
func validateServiceRoleKey(key string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return fmt.Errorf("parse SUPABASE_SERVICE_ROLE_KEY: %w", err)
	}
	role, _ := claims["role"].(string)
	if role != serviceRole {
		return fmt.Errorf("%w (role %q)", ErrNotServiceRole, role)
	}
	return nil
}

func Load() (*Config, error) {
	// A missing .env file is fine; the environment is authoritative.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
