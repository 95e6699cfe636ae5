// Package inbox ingests statement files dropped into a directory.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/export"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/service"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/sniffer"
	"github.com/FACorreiaa/statement-ingest/pkg/storage"
)

// Ingester runs a batch of statements.
type Ingester interface {
	IngestBatch(ctx context.Context, stmts []service.RawStatement) []service.BatchItem
}

// Report counts what one poll did.
type Report struct {
	Scanned      int
	Skipped      int
	Ingested     int
	Transactions int
	Warnings     int
}

// Inbox polls Dir, ingests files whose content is not archived yet, writes
// one JSON document per file to OutDir and archives the original.
type Inbox struct {
	dir      string
	outDir   string
	archive  storage.Archive
	ingester Ingester
	logger   *slog.Logger
	export   export.Options
}

// New creates an inbox. The output directory is created if missing.
func New(dir, outDir string, archive storage.Archive, ingester Ingester, logger *slog.Logger) (*Inbox, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Inbox{
		dir:      dir,
		outDir:   outDir,
		archive:  archive,
		ingester: ingester,
		logger:   logger,
	}, nil
}

// WithExport sets the options used for result documents.
func (b *Inbox) WithExport(opts export.Options) *Inbox {
	b.export = opts
	return b
}

type pending struct {
	stmt service.RawStatement
	hash string
}

// Poll runs one pass over the inbox.
func (b *Inbox) Poll(ctx context.Context) (Report, error) {
	var report Report

	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return report, fmt.Errorf("failed to read inbox: %w", err)
	}

	seen := make(map[string]bool)
	var batch []pending
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		report.Scanned++

		path := filepath.Join(b.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return report, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}

		hash := sniffer.ContentHash(data)
		archived, err := b.archive.Has(ctx, hash)
		if err != nil {
			return report, err
		}
		if archived || seen[hash] {
			report.Skipped++
			b.logger.Debug("skipping already imported statement",
				slog.String("file", entry.Name()),
				slog.String("hash", hash),
			)
			continue
		}
		seen[hash] = true
		batch = append(batch, pending{
			stmt: service.RawStatement{Data: data, Filename: entry.Name()},
			hash: hash,
		})
	}

	if len(batch) == 0 {
		return report, nil
	}

	stmts := make([]service.RawStatement, len(batch))
	for i, p := range batch {
		stmts[i] = p.stmt
	}

	var errs []error
	for i, item := range b.ingester.IngestBatch(ctx, stmts) {
		p := batch[i]
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := b.writeResult(item, p.hash); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := b.archive.Put(ctx, p.stmt.Filename, p.stmt.Data); err != nil {
			errs = append(errs, err)
			continue
		}

		report.Ingested++
		report.Transactions += len(item.Result.Transactions)
		report.Warnings += len(item.Result.Errors)
		b.logger.Info("statement imported",
			slog.String("run_id", item.RunID.String()),
			slog.String("file", item.Filename),
			slog.Int("transactions", len(item.Result.Transactions)),
			slog.Int("warnings", len(item.Result.Errors)),
		)
	}

	return report, errors.Join(errs...)
}

// ResultPath is where the document for a file with this name and hash is written.
func (b *Inbox) ResultPath(filename, hash string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return filepath.Join(b.outDir, fmt.Sprintf("%s.%s.json", base, hash[:12]))
}

func (b *Inbox) writeResult(item service.BatchItem, hash string) error {
	path := b.ResultPath(item.Filename, hash)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create result file: %w", err)
	}

	doc := export.NewDocument(item.Filename, item.Result.Transactions, item.Result.Errors, b.export)
	if err := export.WriteJSON(f, doc); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
