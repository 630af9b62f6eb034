// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// FIRMSPlaceholderKey is the sample value shipped in .env templates. It is
// treated as no key.
const FIRMSPlaceholderKey = "your_map_key_here"

// Config holds all service settings, populated from environment variables.
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	OTelEnabled  bool
	OTLPEndpoint string

	// FIRMSMapKey is empty when no usable key is configured.
	FIRMSMapKey string

	OpenMeteoAirQualityURL string
	OpenMeteoForecastURL   string
	OverpassURL            string
	FIRMSURL               string

	ProviderTimeout    time.Duration
	CacheSweepInterval time.Duration
	GridConcurrency    int

	CORSAllowedOrigins []string
	RequireTLS         bool
	ShutdownTimeout    time.Duration
}

// Load reads an optional .env file and then the environment, applying
// defaults where unset.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is ignored;
// variables already set in the environment take precedence over the file.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	providerTimeout, err := parseDuration("PROVIDER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	sweepInterval, err := parseDuration("CACHE_SWEEP_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	gridConcurrency, err := parsePositiveInt("GRID_CONCURRENCY", 5)
	if err != nil {
		return nil, err
	}

	firmsKey := strings.TrimSpace(os.Getenv("NASA_FIRMS_API_KEY"))
	if firmsKey == FIRMSPlaceholderKey {
		firmsKey = ""
	}

	cfg := &Config{
		Port:        envOrDefault("APP_PORT", "8080"),
		Environment: envOrDefault("APP_ENV", "development"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),

		OTelEnabled:  os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint: envOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		FIRMSMapKey: firmsKey,

		OpenMeteoAirQualityURL: os.Getenv("OPEN_METEO_AQ_URL"),
		OpenMeteoForecastURL:   os.Getenv("OPEN_METEO_FORECAST_URL"),
		OverpassURL:            os.Getenv("OVERPASS_URL"),
		FIRMSURL:               os.Getenv("FIRMS_URL"),

		ProviderTimeout:    providerTimeout,
		CacheSweepInterval: sweepInterval,
		GridConcurrency:    gridConcurrency,

		CORSAllowedOrigins: parseList(envOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		RequireTLS:         os.Getenv("REQUIRE_TLS") == "true",
		ShutdownTimeout:    shutdownTimeout,
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid APP_PORT %q", cfg.Port)
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// FIRMSEnabled reports whether a satellite fire key is configured.
func (c *Config) FIRMSEnabled() bool {
	return c.FIRMSMapKey != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return n, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
