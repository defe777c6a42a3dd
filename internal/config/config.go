package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr    = ":8080"
	defaultMetricsAddr = "off"
	defaultSessionTTL  = 7 * 24 * time.Hour

	minSessionSecretLen = 32

	// insecureDevSecret keeps local development working without a .env file.
	// Relying on it is a configuration defect; Load refuses it in production
	// and serve logs a warning when it is in effect.
	insecureDevSecret = "comanda-insecure-dev-secret-change-me-now"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env              string
	DatabaseURL      string
	HTTPAddr         string
	MetricsAddr      string
	AuthCookieSecure bool
	SessionSecret    string
	SessionTTL       time.Duration

	// SessionSecretFallback is true when SESSION_SECRET was absent and the
	// insecure development fallback is in effect.
	SessionSecretFallback bool
}

type LoadOptions struct {
	RequireDatabaseURL bool
}

func Load() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireDatabaseURL: true})
}

func LoadOptionalDB() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireDatabaseURL: false})
}

func LoadWithOptions(opts LoadOptions) (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, err
		}
	}

	cfg := Config{
		Env:           normalizeEnv(os.Getenv("APP_ENV")),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		HTTPAddr:      getenvDefault("HTTP_ADDR", defaultHTTPAddr),
		MetricsAddr:   getenvDefault("METRICS_ADDR", defaultMetricsAddr),
		SessionSecret: strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		SessionTTL:    defaultSessionTTL,
	}

	// Cookies default to Secure in production and plain HTTP in development.
	cfg.AuthCookieSecure = getenvBoolDefault("AUTH_COOKIE_SECURE", cfg.Env == EnvProduction)

	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL must be a positive duration, got %q", v)
		}
		cfg.SessionTTL = d
	}

	if err := resolveSessionSecret(&cfg); err != nil {
		return Config{}, err
	}

	if opts.RequireDatabaseURL && cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	return cfg, nil
}

// resolveSessionSecret enforces the signing-secret policy: at least 32
// characters, and never the built-in fallback outside development.
func resolveSessionSecret(cfg *Config) error {
	switch {
	case cfg.SessionSecret == "":
		if cfg.Env == EnvProduction {
			return errors.New("SESSION_SECRET is required in production")
		}
		cfg.SessionSecret = insecureDevSecret
		cfg.SessionSecretFallback = true
		return nil
	case len(cfg.SessionSecret) < minSessionSecretLen:
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", minSessionSecretLen)
	default:
		return nil
	}
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBoolDefault(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch v {
	case "1":
		return true
	case "0":
		return false
	default:
		return def
	}
}
