// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultJobTimeout bounds a single run of a job.
const DefaultJobTimeout = 10 * time.Minute

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

type entry struct {
	id  cron.EntryID
	job Job
}

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration

	mu   sync.Mutex
	jobs map[string]entry
}

// NewScheduler creates a new job scheduler. Overlapping runs of the same job
// are skipped and panics inside a job are recovered.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cronLogger := cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))

	// Standard 5-field format plus descriptors such as @every 1m
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	return &Scheduler{
		cron:    c,
		logger:  logger,
		timeout: DefaultJobTimeout,
		jobs:    make(map[string]entry),
	}
}

// WithTimeout overrides DefaultJobTimeout.
func (s *Scheduler) WithTimeout(d time.Duration) *Scheduler {
	s.timeout = d
	return s
}

// Add registers job under name on the given schedule.
func (s *Scheduler) Add(name, spec string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("job %q already registered", name)
	}

	id, err := s.cron.AddFunc(spec, func() {
		_ = s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %q: %w", spec, name, err)
	}

	s.jobs[name] = entry{id: id, job: job}
	return nil
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
}

// Stop gracefully stops all scheduled jobs. The returned context is done
// once running jobs have finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// Next returns the next activation time of a job, zero before Start.
func (s *Scheduler) Next(name string) time.Time {
	s.mu.Lock()
	e, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(e.id).Next
}

// RunNow runs a registered job synchronously, outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	e, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("job %q not registered", name)
	}
	return s.run(name, e.job)
}

func (s *Scheduler) run(name string, job Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Warn("scheduled job failed",
			slog.String("job", name),
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", err),
		)
		return err
	}

	s.logger.Debug("scheduled job completed",
		slog.String("job", name),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}
