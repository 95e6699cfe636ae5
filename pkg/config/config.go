package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Log           LogConfig
	Ingest        IngestConfig
	Observability ObservabilityConfig
	Watch         WatchConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type IngestConfig struct {
	Workers         int
	LineTolerance   float64
	SpaceGapRatio   float64
	DiagnosticLines int
	DefaultCurrency string
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsAddr    string
}

type WatchConfig struct {
	ArchivePath string
	Schedule    string
}

// Load reads configuration from environment variables, after loading .env
// from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
		Ingest: IngestConfig{
			Workers:         getEnvAsInt("INGEST_WORKERS", 0),
			LineTolerance:   getEnvAsFloat("PDF_LINE_TOLERANCE", 2.5),
			SpaceGapRatio:   getEnvAsFloat("PDF_SPACE_GAP_RATIO", 0.2),
			DiagnosticLines: getEnvAsInt("SEGMENTER_DIAGNOSTIC_LINES", 10),
			DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", false),
			MetricsAddr:    getEnv("METRICS_ADDR", ":9090"),
		},
		Watch: WatchConfig{
			ArchivePath: getEnv("ARCHIVE_PATH", "./data/archive"),
			Schedule:    getEnv("WATCH_SCHEDULE", "@every 1m"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format)
	}
	if c.Ingest.Workers < 0 {
		return errors.New("INGEST_WORKERS must not be negative")
	}
	if c.Ingest.LineTolerance <= 0 {
		return errors.New("PDF_LINE_TOLERANCE must be positive")
	}
	if c.Ingest.SpaceGapRatio <= 0 {
		return errors.New("PDF_SPACE_GAP_RATIO must be positive")
	}
	if c.Ingest.DiagnosticLines < 0 {
		return errors.New("SEGMENTER_DIAGNOSTIC_LINES must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
