package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

// TokenConfig is read once at startup and never mutated.
type TokenConfig struct {
	Secret        string `env:"JWT_SECRET"`
	Issuer        string `env:"JWT_ISSUER" envDefault:"todoapp"`
	Audience      string `env:"JWT_AUDIENCE" envDefault:"todoapp"`
	ExpiryMinutes int    `env:"JWT_EXPIRY_MINUTES" envDefault:"60"`
}

func (tc TokenConfig) Expiry() time.Duration {
	return time.Duration(tc.ExpiryMinutes) * time.Minute
}

type DatabaseConfig struct {
	Driver         string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	Path           string `env:"DATABASE_PATH" envDefault:"database.db"`
	URL            string `env:"DATABASE_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH"`
}

type GoogleConfig struct {
	ClientID string `env:"GOOGLE_CLIENT_ID"`
	JWKSURL  string `env:"GOOGLE_JWKS_URL" envDefault:"https://www.googleapis.com/oauth2/v3/certs"`
}

type TelemetryConfig struct {
	ServiceName    string `env:"SERVICE_NAME" envDefault:"todoapp"`
	ServiceVersion string `env:"SERVICE_VERSION" envDefault:"1.0.0"`
	MetricsPort    string `env:"METRICS_PORT" envDefault:"9091"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"localhost:4317"`
	LokiURL        string `env:"LOKI_URL" envDefault:"http://localhost:3100"`
}

// AppConfig general application configurations
type AppConfig struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	RedisURL    string `env:"REDIS_URL"`

	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitConfigs map[string]RateLimitConfig

	EnforceHTTPS bool `env:"ENFORCE_HTTPS" envDefault:"false"`

	Token     TokenConfig
	Database  DatabaseConfig
	Google    GoogleConfig
	Telemetry TelemetryConfig
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Load parses the environment into an AppConfig. A missing signing secret is
// a startup error.
func Load() (*AppConfig, error) {
	cfg := GetDefaultConfig()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Token.Secret == "" {
		return nil, ErrMissingJWTSecret
	}

	return cfg, nil
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Port:             "8080",
		Environment:      "development",
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /signup": {
				Requests: 5,
				Window:   time.Minute,
			},
			"POST /auth": {
				Requests: 10,
				Window:   time.Minute,
			},
			"POST /auth/google": {
				Requests: 10,
				Window:   time.Minute,
			},
			"POST /auth/refresh": {
				Requests: 30,
				Window:   time.Minute,
			},
		},
		EnforceHTTPS: false,
		Token: TokenConfig{
			Issuer:        "todoapp",
			Audience:      "todoapp",
			ExpiryMinutes: 60,
		},
	}
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}
