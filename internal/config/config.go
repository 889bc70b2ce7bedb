package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// AppConfig holds process-level configuration. Provider credentials are not
// here: they arrive per request in the provider config blob.
type AppConfig struct {
	Port string

	// ProviderTimeout bounds each outbound provider HTTP call.
	ProviderTimeout time.Duration

	// OpenWeatherBaseURL overrides the production endpoint when set.
	OpenWeatherBaseURL string

	// Audit log storage and the periodic summary job.
	AuditDBPath          string
	AuditSummaryInterval time.Duration

	LogLevel logrus.Level
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Infof("no .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:               getenvDefault("PORT", "8080"),
		OpenWeatherBaseURL: os.Getenv("OPENWEATHER_BASE_URL"),
		AuditDBPath:        getenvDefault("AUDIT_DB_PATH", "audit.db"),
	}

	timeoutStr := getenvDefault("PROVIDER_TIMEOUT", "5s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT: %w", err)
	}
	cfg.ProviderTimeout = timeout

	intervalStr := getenvDefault("AUDIT_SUMMARY_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIT_SUMMARY_INTERVAL: %w", err)
	}
	cfg.AuditSummaryInterval = interval

	level, err := logrus.ParseLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
