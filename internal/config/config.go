package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/noah-isme/lunch-tray/internal/pricing"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv            string
	Port              string
	PricingTaxRateBPS int
	CurrencyCode      string
	Locale            string
	MenuFile          string
	EventHistoryLimit int
	LogFormat         string
	LogLevel          string
	MetricsNamespace  string
	MetricsEnabled    bool
	ShutdownTimeout   time.Duration

	CORSAllowedOrigins []string
	SecurityHeaders    bool
	EnableHSTS         bool
	MaxBodyBytes       int64
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	taxBps, err := parseInt(k.String("PRICING_TAX_RATE_BPS"), 800)
	if err != nil {
		return nil, fmt.Errorf("PRICING_TAX_RATE_BPS: %w", err)
	}
	historyLimit, err := parseInt(k.String("EVENT_HISTORY_LIMIT"), 100)
	if err != nil {
		return nil, fmt.Errorf("EVENT_HISTORY_LIMIT: %w", err)
	}
	maxBody, err := parseInt(k.String("HTTP_MAX_BODY_BYTES"), 4096)
	if err != nil {
		return nil, fmt.Errorf("HTTP_MAX_BODY_BYTES: %w", err)
	}

	cfg := &Config{
		AppEnv:            valueOrDefault(k.String("APP_ENV"), "development"),
		Port:              valueOrDefault(k.String("PORT"), "8080"),
		PricingTaxRateBPS: taxBps,
		CurrencyCode:      strings.ToUpper(valueOrDefault(k.String("CURRENCY_CODE"), "USD")),
		Locale:            valueOrDefault(k.String("LOCALE"), "en-US"),
		MenuFile:          strings.TrimSpace(k.String("MENU_FILE")),
		EventHistoryLimit: historyLimit,
		LogFormat:         valueOrDefault(k.String("OBS_LOG_FORMAT"), "json"),
		LogLevel:          valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
		MetricsNamespace:  valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "lunchtray"),
		MetricsEnabled:    parseBoolDefault(k.String("OBS_ENABLE_PROMETHEUS"), true),
		ShutdownTimeout:   parseDuration(k.String("HTTP_SHUTDOWN_TIMEOUT"), "10s"),

		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		SecurityHeaders:    parseBoolDefault(k.String("SECURITY_HEADERS_ENABLED"), true),
		EnableHSTS:         parseBoolDefault(k.String("SECURITY_ENABLE_HSTS"), false),
		MaxBodyBytes:       int64(maxBody),
	}

	if !pricing.ValidBps(cfg.PricingTaxRateBPS) {
		return nil, errors.New("PRICING_TAX_RATE_BPS must be between 0 and 10000")
	}
	if cfg.EventHistoryLimit < 0 {
		return nil, errors.New("EVENT_HISTORY_LIMIT must not be negative")
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
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseInt(value string, fallback int) (int, error) {
	base := strings.TrimSpace(value)
	if base == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(base)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", value)
	}
	return n, nil
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

func parseBoolDefault(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
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
