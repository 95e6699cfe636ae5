package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/layout"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/parser"
	importservice "github.com/FACorreiaa/statement-ingest/internal/domain/import/service"
	"github.com/FACorreiaa/statement-ingest/pkg/config"
	"github.com/FACorreiaa/statement-ingest/pkg/metrics"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	// Observability
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	// Services
	ImportService *importservice.ImportService
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	deps.initServices()

	logger.Debug("all dependencies initialized successfully")

	return deps, nil
}

// initMetrics registers ingest metrics on a private registry
func (d *Dependencies) initMetrics() error {
	d.Registry = prometheus.NewRegistry()
	m, err := metrics.New(d.Registry)
	if err != nil {
		return err
	}
	d.Metrics = m
	return nil
}

// initServices initializes the import pipeline from config
func (d *Dependencies) initServices() {
	opts := importservice.Options{
		Parser: parser.DefaultConfig(),
		Layout: layout.Options{
			LineTolerance: d.Config.Ingest.LineTolerance,
			SpaceGapRatio: d.Config.Ingest.SpaceGapRatio,
		},
		DiagnosticLines: d.Config.Ingest.DiagnosticLines,
		Workers:         d.Config.Ingest.Workers,
	}

	d.ImportService = importservice.NewImportService(opts, d.Logger).WithMetrics(d.Metrics)
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
