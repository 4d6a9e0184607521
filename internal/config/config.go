package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	MigrationsDir      string
	CORSAllowedOrigins []string

	// StoreBaseURL is the public base URL of the storefront; the return,
	// cancel and notification URLs sent to PayPoint are derived from it.
	StoreBaseURL string
	CurrencyCode string
	Locale       string

	// Bootstrap gateway credentials, written to the settings store on first
	// start when no configuration exists yet. The admin configuration screen
	// owns them afterwards.
	PayPointAPIUsername    string
	PayPointAPIPassword    string
	PayPointInstallationID string
	PayPointUseSandbox     bool

	GatewayTimeout   time.Duration
	SettingsCacheTTL time.Duration

	AdminJWTSecret string
	AdminJWTIssuer string
	AdminRateLimit string
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		MigrationsDir:      valueOrDefault(k.String("MIGRATIONS_DIR"), "migrations"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		StoreBaseURL: strings.TrimSpace(k.String("STORE_BASE_URL")),
		CurrencyCode: valueOrDefault(k.String("CURRENCY_CODE"), "USD"),
		Locale:       valueOrDefault(k.String("LOCALE"), "en"),

		PayPointAPIUsername:    k.String("PAYPOINT_API_USERNAME"),
		PayPointAPIPassword:    k.String("PAYPOINT_API_PASSWORD"),
		PayPointInstallationID: k.String("PAYPOINT_INSTALLATION_ID"),
		PayPointUseSandbox:     parseBool(valueOrDefault(k.String("PAYPOINT_USE_SANDBOX"), "true")),

		GatewayTimeout:   parseDuration(k.String("PAYPOINT_GATEWAY_TIMEOUT"), "30s"),
		SettingsCacheTTL: parseDuration(k.String("SETTINGS_CACHE_TTL"), "10m"),

		AdminJWTSecret: k.String("ADMIN_JWT_SECRET"),
		AdminJWTIssuer: strings.TrimSpace(k.String("ADMIN_JWT_ISSUER")),
		AdminRateLimit: valueOrDefault(k.String("ADMIN_RATE_LIMIT"), "30-M"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.StoreBaseURL == "" {
		return nil, errors.New("STORE_BASE_URL is required")
	}
	if cfg.AdminJWTSecret == "" {
		return nil, errors.New("ADMIN_JWT_SECRET is required")
	}
	if !strings.HasSuffix(cfg.StoreBaseURL, "/") {
		cfg.StoreBaseURL += "/"
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
