package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Price strategies selectable for the HTML form.
const (
	StrategyRange    = "range"
	StrategySnapshot = "snapshot"
)

// Config holds application configuration
type Config struct {
	Port            string
	LogLevel        string
	LogFormat       string
	CoinGeckoURL    string
	CoinGeckoAPIKey string
	CoinID          string
	VsCurrency      string
	HTTPTimeout     time.Duration
	UIPriceStrategy string
	SnapshotTZ      string
	ProbeSchedule   string

	// SnapshotLocation is SnapshotTZ resolved by NewConfig.
	SnapshotLocation *time.Location
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		CoinGeckoURL:    strings.TrimRight(getEnv("COINGECKO_URL", "https://api.coingecko.com/api/v3"), "/"),
		CoinGeckoAPIKey: getEnv("COINGECKO_API_KEY", ""),
		CoinID:          getEnv("COIN_ID", "ripple"),
		VsCurrency:      getEnv("VS_CURRENCY", "jpy"),
		UIPriceStrategy: getEnv("UI_PRICE_STRATEGY", StrategySnapshot),
		SnapshotTZ:      getEnv("SNAPSHOT_TZ", ""),
		ProbeSchedule:   getEnv("PROBE_SCHEDULE", "@every 5m"),
	}

	timeout, err := getEnvDuration("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	if cfg.Port == "" {
		return nil, fmt.Errorf("PORT is required")
	}
	if cfg.CoinGeckoURL == "" {
		return nil, fmt.Errorf("COINGECKO_URL is required")
	}
	if cfg.CoinID == "" {
		return nil, fmt.Errorf("COIN_ID is required")
	}
	if cfg.VsCurrency != "jpy" {
		return nil, fmt.Errorf("VS_CURRENCY %q is not supported, only jpy", cfg.VsCurrency)
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", cfg.HTTPTimeout)
	}
	switch cfg.UIPriceStrategy {
	case StrategyRange, StrategySnapshot:
	default:
		return nil, fmt.Errorf("UI_PRICE_STRATEGY must be %q or %q, got %q", StrategyRange, StrategySnapshot, cfg.UIPriceStrategy)
	}

	cfg.SnapshotLocation = time.Local
	if cfg.SnapshotTZ != "" {
		loc, err := time.LoadLocation(cfg.SnapshotTZ)
		if err != nil {
			return nil, fmt.Errorf("invalid SNAPSHOT_TZ %q: %w", cfg.SnapshotTZ, err)
		}
		cfg.SnapshotLocation = loc
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
