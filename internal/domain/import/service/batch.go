package service

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/google/uuid"
)

// BatchItem is the result for one statement of a batch.
type BatchItem struct {
	RunID    uuid.UUID   `json:"run_id"`
	Filename string      `json:"filename"`
	Result   ParseResult `json:"result"`
}

type batchJob struct {
	index int
	stmt  RawStatement
}

// IngestBatch ingests statements on a bounded worker pool. Items come back in
// input order, all tagged with the same run ID. Statements not started
// before ctx is done get a single cancellation warning.
func (s *ImportService) IngestBatch(ctx context.Context, stmts []RawStatement) []BatchItem {
	runID := uuid.New()
	items := make([]BatchItem, len(stmts))
	if len(stmts) == 0 {
		return items
	}

	workerCount := s.opts.Workers
	if workerCount <= 0 {
		workerCount = runtime.GOMAXPROCS(0)
	}
	workerCount = min(workerCount, len(stmts))

	jobs := make(chan batchJob)
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				var result ParseResult
				if err := ctx.Err(); err != nil {
					result = failed(err)
				} else {
					result = s.Ingest(ctx, job.stmt)
				}
				items[job.index] = BatchItem{RunID: runID, Filename: job.stmt.Filename, Result: result}
			}
		}()
	}

	for i, stmt := range stmts {
		jobs <- batchJob{index: i, stmt: stmt}
	}
	close(jobs)
	wg.Wait()

	s.logger.Info("statement batch ingested",
		slog.String("run_id", runID.String()),
		slog.Int("statements", len(stmts)),
		slog.Int("workers", workerCount),
	)
	return items
}
