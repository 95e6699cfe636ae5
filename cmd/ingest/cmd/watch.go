package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/export"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/inbox"
	"github.com/FACorreiaa/statement-ingest/pkg/cron"
	"github.com/FACorreiaa/statement-ingest/pkg/metrics"
	"github.com/FACorreiaa/statement-ingest/pkg/storage"
)

const pollJob = "inbox-poll"

type watchOptions struct {
	schedule string
	outDir   string
	archive  string
	classify bool
	once     bool
}

func newWatchCommand(a *app) *cobra.Command {
	opts := &watchOptions{}

	c := &cobra.Command{
		Use:   "watch DIR",
		Short: "Ingest statements dropped into a directory",
		Long: `Watch polls DIR on a cron schedule. Files whose content was imported
before are skipped; new ones are ingested, written as JSON to the output
directory and archived by content hash.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd, args[0], opts)
		},
	}

	c.Flags().StringVar(&opts.schedule, "schedule", "", "cron schedule (default: WATCH_SCHEDULE)")
	c.Flags().StringVar(&opts.outDir, "out", "", "result directory (default: DIR/results)")
	c.Flags().StringVar(&opts.archive, "archive", "", "archive directory or gs://bucket/prefix (default: ARCHIVE_PATH)")
	c.Flags().BoolVar(&opts.classify, "classify", false, "add the essential/flex label to expenses")
	c.Flags().BoolVar(&opts.once, "once", false, "poll a single time and exit")
	return c
}

func (a *app) runWatch(cmd *cobra.Command, dir string, opts *watchOptions) error {
	cfg := a.deps.Config
	logger := a.deps.Logger

	if opts.schedule == "" {
		opts.schedule = cfg.Watch.Schedule
	}
	if opts.outDir == "" {
		opts.outDir = filepath.Join(dir, "results")
	}
	if opts.archive == "" {
		opts.archive = cfg.Watch.ArchivePath
	}

	archive, err := storage.Open(cmd.Context(), opts.archive)
	if err != nil {
		return err
	}
	defer archive.Close()
	box, err := inbox.New(dir, opts.outDir, archive, a.deps.ImportService, logger)
	if err != nil {
		return err
	}
	box.WithExport(export.Options{Classify: opts.classify})

	poll := func(ctx context.Context) error {
		report, err := box.Poll(ctx)
		logger.Info("inbox polled",
			slog.String("dir", dir),
			slog.Int("scanned", report.Scanned),
			slog.Int("skipped", report.Skipped),
			slog.Int("ingested", report.Ingested),
			slog.Int("transactions", report.Transactions),
			slog.Int("warnings", report.Warnings),
		)
		return err
	}

	if opts.once {
		return poll(cmd.Context())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := cron.NewScheduler(logger)
	if err := scheduler.Add(pollJob, opts.schedule, poll); err != nil {
		return err
	}

	var srv *http.Server
	if cfg.Observability.MetricsEnabled {
		srv = a.serveMetrics(cfg.Observability.MetricsAddr)
	}

	if err := scheduler.RunNow(pollJob); err != nil {
		logger.Warn("initial poll failed", slog.Any("error", err))
	}
	scheduler.Start()
	logger.Info("watching inbox",
		slog.String("dir", dir),
		slog.String("schedule", opts.schedule),
		slog.Time("next", scheduler.Next(pollJob)),
	)

	<-ctx.Done()

	<-scheduler.Stop().Done()
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop metrics server: %w", err)
		}
	}
	return nil
}

func (a *app) serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.deps.Registry))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.deps.Logger.Info("metrics server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.deps.Logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	return srv
}
