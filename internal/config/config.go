package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds everything loaded from the environment.
type AppConfig struct {
	OpenAQAPIKey  string
	OpenAQBaseURL string

	// GeocoderAPIKey enables the city-lookup recenter endpoint when set.
	GeocoderAPIKey string

	// HTTPTimeout bounds outbound API calls.
	HTTPTimeout time.Duration

	// RecentMinGap is the minimum delay between two recent-data requests
	// within one session.
	RecentMinGap time.Duration

	// RecentDateFrom is the fixed historical start for recent-data queries.
	RecentDateFrom time.Time

	// Session retention.
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	Port     string
	LogLevel slog.Level
	AppEnv   string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenAQAPIKey = os.Getenv("OPENAQ_API_KEY")
	if cfg.OpenAQAPIKey == "" {
		return nil, fmt.Errorf("OPENAQ_API_KEY is required")
	}
	cfg.OpenAQBaseURL = getenvDefault("OPENAQ_BASE_URL", "https://api.openaq.org/v2")
	cfg.GeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	timeout, err := getenvDuration("HTTP_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	gap, err := getenvDuration("RECENT_MIN_GAP", "1s")
	if err != nil {
		return nil, err
	}
	cfg.RecentMinGap = gap

	dateFromStr := getenvDefault("RECENT_DATE_FROM", "2019-01-01T00:00:00Z")
	dateFrom, err := time.Parse(time.RFC3339, dateFromStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RECENT_DATE_FROM: %w", err)
	}
	cfg.RecentDateFrom = dateFrom

	ttl, err := getenvDuration("SESSION_TTL", "30m")
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = ttl

	sweep, err := getenvDuration("SESSION_SWEEP_INTERVAL", "1m")
	if err != nil {
		return nil, err
	}
	cfg.SessionSweepInterval = sweep

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.AppEnv = getenvDefault("APP_ENV", "dev")
	cfg.LogLevel = parseLogLevel(getenvDefault("LOG_LEVEL", "info"))

	return cfg, nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
