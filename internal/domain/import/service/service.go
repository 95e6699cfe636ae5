// Package service provides the statement ingestion orchestration logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/dedupe"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/layout"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/parser"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/segmenter"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/sniffer"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/transaction"
)

const tracerName = "github.com/FACorreiaa/statement-ingest/internal/domain/import/service"

// ErrNoTextLayer is reported for PDFs that decode but carry no text, such as scans.
var ErrNoTextLayer = errors.New("PDF has no text layer (scanned statements are not supported)")

// RawStatement is one statement file to ingest.
type RawStatement struct {
	Data []byte
	// Format is the declared format. Empty means detect from Filename and Data.
	Format   sniffer.Format
	Filename string
}

// ParseResult is the outcome of ingesting one statement. Errors holds
// human-readable warnings; it is never empty when no transactions were found.
type ParseResult struct {
	Transactions []transaction.Transaction `json:"transactions"`
	Errors       []string                  `json:"errors"`
}

// Recorder receives ingest measurements.
type Recorder interface {
	ObserveIngest(format string, transactions, warnings int, elapsed time.Duration)
	ObserveStrategy(strategy string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveIngest(string, int, int, time.Duration) {}
func (nopRecorder) ObserveStrategy(string)                        {}

// Options tunes the format-specific stages.
type Options struct {
	Parser          parser.ParserConfig
	Layout          layout.Options
	DiagnosticLines int
	// Workers bounds IngestBatch concurrency. Zero means GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Parser:          parser.DefaultConfig(),
		Layout:          layout.DefaultOptions(),
		DiagnosticLines: segmenter.DefaultDiagnosticLines,
	}
}

// ImportService orchestrates statement parsing. It holds no per-call state
// and is safe for concurrent use.
type ImportService struct {
	opts    Options
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics Recorder
}

// NewImportService creates a new import service
func NewImportService(opts Options, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportService{
		opts:    opts,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
		metrics: nopRecorder{},
	}
}

// WithMetrics records every ingest on r.
func (s *ImportService) WithMetrics(r Recorder) *ImportService {
	s.metrics = r
	return s
}

// WithTracer replaces the global tracer.
func (s *ImportService) WithTracer(t trace.Tracer) *ImportService {
	s.tracer = t
	return s
}

// Ingest parses one statement. It never panics and never returns an error:
// anything that goes wrong below becomes a warning in the result.
func (s *ImportService) Ingest(ctx context.Context, stmt RawStatement) (result ParseResult) {
	start := time.Now()
	format := stmt.Format
	if format == sniffer.FormatUnknown {
		format = sniffer.DetectFormat(stmt.Filename, stmt.Data)
	}

	ctx, span := s.tracer.Start(ctx, "import.Ingest", trace.WithAttributes(
		attribute.String("statement.filename", stmt.Filename),
		attribute.String("statement.format", string(format)),
		attribute.Int("statement.bytes", len(stmt.Data)),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("statement ingest panicked",
				slog.String("filename", stmt.Filename),
				slog.Any("panic", r),
			)
			result = failed(fmt.Errorf("internal error while parsing %s: %v", displayName(stmt.Filename), r))
		}

		if len(result.Transactions) == 0 && len(result.Errors) == 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("no transactions found in %s", displayName(stmt.Filename)))
		}
		if len(result.Transactions) == 0 {
			span.SetStatus(codes.Error, "no transactions extracted")
		}
		span.SetAttributes(
			attribute.Int("ingest.transactions", len(result.Transactions)),
			attribute.Int("ingest.warnings", len(result.Errors)),
		)
		s.metrics.ObserveIngest(string(format), len(result.Transactions), len(result.Errors), time.Since(start))

		s.logger.Debug("statement ingested",
			slog.String("filename", stmt.Filename),
			slog.String("format", string(format)),
			slog.Int("transactions", len(result.Transactions)),
			slog.Int("warnings", len(result.Errors)),
			slog.Duration("elapsed", time.Since(start)),
		)
	}()

	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	switch format {
	case sniffer.FormatDelimited:
		return s.ingestDelimited(ctx, stmt.Data)
	case sniffer.FormatPDF:
		return s.ingestPDF(ctx, stmt.Data)
	case sniffer.FormatExcel:
		return s.ingestExcel(ctx, stmt.Data)
	default:
		return failed(fmt.Errorf("%w: %s", sniffer.ErrUnsupportedFormat, displayName(stmt.Filename)))
	}
}

func (s *ImportService) ingestDelimited(ctx context.Context, data []byte) ParseResult {
	_, span := s.tracer.Start(ctx, "import.parseDelimited")
	defer span.End()

	res := parser.NewParser(s.opts.Parser).ParseBytes(data)
	s.logParse("delimited statement parsed", res)
	return newResult(res.Transactions, res.ErrorStrings())
}

func (s *ImportService) ingestExcel(ctx context.Context, data []byte) ParseResult {
	_, span := s.tracer.Start(ctx, "import.parseExcel")
	defer span.End()

	res := parser.NewParser(s.opts.Parser).ParseExcel(data)
	s.logParse("excel statement parsed", res)
	return newResult(res.Transactions, res.ErrorStrings())
}

func (s *ImportService) logParse(msg string, res *parser.ParseResult) {
	s.logger.Debug(msg,
		slog.String("layout", string(res.Layout)),
		slog.String("fingerprint", res.Fingerprint),
		slog.Int("rows_total", res.TotalRows),
		slog.Int("rows_parsed", res.ParsedRows),
		slog.Int("rows_skipped", res.SkippedRows),
	)
}

func (s *ImportService) ingestPDF(ctx context.Context, data []byte) ParseResult {
	_, extractSpan := s.tracer.Start(ctx, "import.extractLines")
	lines, err := layout.ExtractLines(data, s.opts.Layout)
	extractSpan.SetAttributes(attribute.Int("pdf.lines", len(lines)))
	if err != nil {
		extractSpan.RecordError(err)
		extractSpan.SetStatus(codes.Error, err.Error())
	}
	extractSpan.End()

	if err != nil {
		s.logger.Warn("failed to decode PDF", slog.Any("error", err))
		return failed(err)
	}
	if len(lines) == 0 {
		return failed(ErrNoTextLayer)
	}
	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	_, segSpan := s.tracer.Start(ctx, "import.segment")
	seg := (&segmenter.Segmenter{
		Strategies:      segmenter.DefaultStrategies(),
		DiagnosticLines: s.opts.DiagnosticLines,
	}).Segment(lines)
	segSpan.SetAttributes(attribute.String("pdf.strategy", seg.Strategy))
	segSpan.End()

	if seg.Strategy == "" {
		s.logger.Warn("no segmentation strategy matched",
			slog.Int("lines", len(lines)),
		)
		return newResult(nil, seg.Errors)
	}
	s.metrics.ObserveStrategy(seg.Strategy)

	txs := dedupe.Dedupe(seg.Transactions)
	if dropped := len(seg.Transactions) - len(txs); dropped > 0 {
		s.logger.Debug("dropped duplicate rows",
			slog.String("strategy", seg.Strategy),
			slog.Int("duplicates", dropped),
		)
	}

	return newResult(txs, seg.Errors)
}

func newResult(txs []transaction.Transaction, errs []string) ParseResult {
	if txs == nil {
		txs = []transaction.Transaction{}
	}
	if errs == nil {
		errs = []string{}
	}
	return ParseResult{Transactions: txs, Errors: errs}
}

func failed(err error) ParseResult {
	return newResult(nil, []string{err.Error()})
}

func displayName(filename string) string {
	if filename == "" {
		return "statement"
	}
	return filename
}
