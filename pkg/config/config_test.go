package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"LOG_LEVEL", "LOG_FORMAT", "INGEST_WORKERS", "PDF_LINE_TOLERANCE", "PDF_SPACE_GAP_RATIO",
	"SEGMENTER_DIAGNOSTIC_LINES", "METRICS_ENABLED", "METRICS_ADDR", "ARCHIVE_PATH",
	"WATCH_SCHEDULE", "DEFAULT_CURRENCY",
}

// isolate runs the test in an empty directory with every key cleared.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 0, cfg.Ingest.Workers)
	assert.Equal(t, 2.5, cfg.Ingest.LineTolerance)
	assert.Equal(t, 0.2, cfg.Ingest.SpaceGapRatio)
	assert.Equal(t, 10, cfg.Ingest.DiagnosticLines)
	assert.Equal(t, "USD", cfg.Ingest.DefaultCurrency)
	assert.False(t, cfg.Observability.MetricsEnabled)
	assert.Equal(t, ":9090", cfg.Observability.MetricsAddr)
	assert.Equal(t, "@every 1m", cfg.Watch.Schedule)
}

func TestLoad_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("INGEST_WORKERS", "4")
	t.Setenv("PDF_LINE_TOLERANCE", "3.5")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("DEFAULT_CURRENCY", "eur")
	t.Setenv("SEGMENTER_DIAGNOSTIC_LINES", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 4, cfg.Ingest.Workers)
	assert.Equal(t, 3.5, cfg.Ingest.LineTolerance)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.Equal(t, "EUR", cfg.Ingest.DefaultCurrency)
	assert.Equal(t, 10, cfg.Ingest.DiagnosticLines, "unparsable values fall back to the default")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ARCHIVE_PATH=/tmp/archive\nWATCH_SCHEDULE=*/5 * * * *\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/archive", cfg.Watch.ArchivePath)
	assert.Equal(t, "*/5 * * * *", cfg.Watch.Schedule)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Log:    LogConfig{Level: "info", Format: "text"},
			Ingest: IngestConfig{LineTolerance: 2.5, SpaceGapRatio: 0.2, DiagnosticLines: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "LOG_FORMAT"},
		{"negative workers", func(c *Config) { c.Ingest.Workers = -1 }, "INGEST_WORKERS"},
		{"zero tolerance", func(c *Config) { c.Ingest.LineTolerance = 0 }, "PDF_LINE_TOLERANCE"},
		{"zero gap ratio", func(c *Config) { c.Ingest.SpaceGapRatio = 0 }, "PDF_SPACE_GAP_RATIO"},
		{"negative diagnostic lines", func(c *Config) { c.Ingest.DiagnosticLines = -1 }, "SEGMENTER_DIAGNOSTIC_LINES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
