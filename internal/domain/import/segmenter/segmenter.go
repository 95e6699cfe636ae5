// Package segmenter turns reconstructed PDF text lines into transactions.
//
// Statement PDFs carry no table structure, so rows are found with a chain of
// heuristics tried in order. The first strategy that yields at least one
// transaction wins and the rest are never run.
package segmenter

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/layout"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/normalizer"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/transaction"
)

const (
	StrategyTableHeader  = "table-header"
	StrategyNearbyWindow = "nearby-window"
	StrategyGeneric      = "generic"
)

// DefaultDiagnosticLines is how many lines are dumped when nothing matches.
const DefaultDiagnosticLines = 10

// Row is a candidate transaction as cut out of the text, before normalization.
type Row struct {
	Page        int
	Line        int    // Index of the anchoring date line
	Date        string // Raw date token
	Description string
	Kind        string // Lower-case type keyword, empty when none was found
	Amount      string // Raw amount token, empty when none was found
}

// Strategy is one way of cutting rows out of a statement.
type Strategy struct {
	Name    string
	Extract func(lines []layout.TextLine) []Row
}

// RowError explains why a candidate row was dropped.
type RowError struct {
	Strategy string
	Page     int
	Line     int
	Message  string
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s: page %d, line %d: %s", e.Strategy, e.Page, e.Line+1, e.Message)
}

// Result is the outcome of segmenting one statement.
type Result struct {
	Transactions []transaction.Transaction
	Errors       []string
	// Strategy names the strategy that produced the transactions, empty when none did.
	Strategy string
}

// Segmenter runs Strategies in order.
type Segmenter struct {
	Strategies      []Strategy
	DiagnosticLines int
}

// New returns a segmenter with the default strategy chain.
func New() *Segmenter {
	return &Segmenter{
		Strategies:      DefaultStrategies(),
		DiagnosticLines: DefaultDiagnosticLines,
	}
}

// Segment extracts transactions from lines. Page numbers and balance summary
// lines are dropped before any strategy sees the text. When no strategy
// yields a transaction, Errors holds every row warning followed by a dump of
// the first DiagnosticLines lines.
func (s *Segmenter) Segment(lines []layout.TextLine) Result {
	content := make([]layout.TextLine, 0, len(lines))
	for _, l := range lines {
		if !isBoilerplate(l.Text) {
			content = append(content, l)
		}
	}

	var failed []string
	for _, strategy := range s.Strategies {
		rows := strategy.Extract(content)
		txs, errs := normalizeRows(strategy.Name, rows)
		if len(txs) > 0 {
			return Result{Transactions: txs, Errors: errorStrings(errs), Strategy: strategy.Name}
		}
		failed = append(failed, errorStrings(errs)...)
	}

	return Result{Errors: append(failed, s.diagnostic(lines)...)}
}

func (s *Segmenter) diagnostic(lines []layout.TextLine) []string {
	n := s.DiagnosticLines
	if n <= 0 {
		n = DefaultDiagnosticLines
	}
	n = min(n, len(lines))

	out := make([]string, 0, n+1)
	out = append(out, fmt.Sprintf("no transactions found in %d lines; first %d lines:", len(lines), n))
	for _, l := range lines[:n] {
		out = append(out, fmt.Sprintf("  p%d: %s", l.Page, l.Text))
	}
	return out
}

func normalizeRows(strategy string, rows []Row) ([]transaction.Transaction, []RowError) {
	var txs []transaction.Transaction
	var errs []RowError

	for _, r := range rows {
		rowErr := func(format string, args ...any) RowError {
			return RowError{Strategy: strategy, Page: r.Page, Line: r.Line, Message: fmt.Sprintf(format, args...)}
		}

		date, err := normalizer.ParseDate(r.Date)
		if err != nil {
			errs = append(errs, rowErr("invalid date %q", r.Date))
			continue
		}

		desc := strings.TrimSpace(r.Description)
		if desc == "" {
			errs = append(errs, rowErr("missing description"))
			continue
		}

		if r.Amount == "" {
			errs = append(errs, rowErr("no amount found for %q", desc))
			continue
		}
		value, err := normalizer.ParseAmount(r.Amount)
		if err != nil {
			errs = append(errs, rowErr("invalid amount %q", r.Amount))
			continue
		}

		amount := normalizer.SignedAmount{Amount: value}
		if debitKinds[r.Kind] && isUnsigned(r.Amount) {
			amount.Convention = normalizer.SignDebit
		}

		txs = append(txs, transaction.New(date, desc, amount.Canonical(), ""))
	}

	return txs, errs
}

func errorStrings(errs []RowError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}
