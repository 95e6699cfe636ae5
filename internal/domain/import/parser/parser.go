// Package parser extracts transactions from delimited and Excel statement exports.
// Column roles come from the header row; card issuers with a known fixed layout
// (Discover) are recognized and their sign convention is corrected at parse time.
package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/charmap"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/normalizer"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/sniffer"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/transaction"
)

// ErrMissingColumn is returned when a required column role has no header.
var ErrMissingColumn = errors.New("missing required column")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Layout names the column mapping used for a file.
type Layout string

const (
	LayoutDiscover Layout = "discover"
	LayoutGeneric  Layout = "generic"
)

// ParseError represents a parsing error for a specific row
type ParseError struct {
	Row     int
	Column  string
	Message string
	RawData string
}

func (e ParseError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("column %s: %s", e.Column, e.Message)
	}
	return fmt.Sprintf("row %d, column %s: %s", e.Row, e.Column, e.Message)
}

// ParseResult contains the results of parsing a statement
type ParseResult struct {
	Transactions []transaction.Transaction
	Errors       []ParseError
	Layout       Layout
	Fingerprint  string // Header fingerprint, see sniffer.FileConfig
	TotalRows    int
	ParsedRows   int
	SkippedRows  int
}

// ErrorStrings renders every row error as a warning line.
func (r *ParseResult) ErrorStrings() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Error())
	}
	return out
}

// ParserConfig configures the parser. Column overrides of -1 mean auto-detect.
type ParserConfig struct {
	DateColumn     int
	DescColumn     int
	AmountColumn   int
	DebitColumn    int
	CreditColumn   int
	CategoryColumn int
	// Convention applies to the single amount column in generic mode.
	Convention normalizer.SignConvention
}

// DefaultConfig returns a parser config with every column auto-detected
func DefaultConfig() ParserConfig {
	return ParserConfig{
		DateColumn:     -1,
		DescColumn:     -1,
		AmountColumn:   -1,
		DebitColumn:    -1,
		CreditColumn:   -1,
		CategoryColumn: -1,
		Convention:     normalizer.SignAsIs,
	}
}

// Parser turns delimited statement text into transactions
type Parser struct {
	config ParserConfig
}

// NewParser creates a new parser with the given configuration
func NewParser(config ParserConfig) *Parser {
	return &Parser{config: config}
}

// ParseBytes decodes raw file bytes and parses them.
func (p *Parser) ParseBytes(data []byte) *ParseResult {
	return p.Parse(DecodeText(data))
}

// Parse reads every transaction it can from content. It never fails: layouts
// it cannot map yield zero transactions and an error naming what is missing.
func (p *Parser) Parse(content string) *ParseResult {
	result := &ParseResult{}

	cfg, err := sniffer.DetectConfig([]byte(content))
	if err != nil {
		result.Errors = append(result.Errors, ParseError{Column: "header", Message: err.Error()})
		return result
	}
	result.Fingerprint = cfg.Fingerprint

	cols, err := p.resolveColumns(cfg.Headers)
	if err != nil {
		result.Errors = append(result.Errors, ParseError{Column: "header", Message: err.Error(), RawData: strings.Join(cfg.Headers, string(cfg.Delimiter))})
		return result
	}
	result.Layout = cols.layout

	reader := csv.NewReader(skipLines(strings.NewReader(content), cfg.SkipLines+1))
	reader.Comma = cfg.Delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var records [][]string
	var rowNums []int
	rowNum := cfg.SkipLines + 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.Errors = append(result.Errors, ParseError{Row: rowNum, Column: "row", Message: err.Error()})
			continue
		}
		records = append(records, record)
		rowNums = append(rowNums, rowNum)
	}

	p.addRecords(result, cfg.Headers, records, rowNums, cols, nil)
	return result
}

// addRecords converts the data records found under header. rowNums holds the
// source row of each record; fixDate, when set, rewrites raw date cells first.
func (p *Parser) addRecords(result *ParseResult, header []string, records [][]string, rowNums []int, cols columnMap, fixDate func(string) string) {
	if cols.layout != LayoutDiscover {
		for i, record := range records {
			if fixDate != nil && cols.dateCol < len(record) {
				record[cols.dateCol] = fixDate(record[cols.dateCol])
			}
			p.addRecord(result, record, rowNums[i], cols)
		}
		return
	}

	var kept [][]string
	var keptRows []int
	for i, record := range records {
		if !isBlankRecord(record) {
			kept = append(kept, record)
			keptRows = append(keptRows, rowNums[i])
		}
	}

	rows, err := bindDiscoverRows(header, kept)
	if err != nil {
		result.Errors = append(result.Errors, ParseError{Column: "header", Message: err.Error(), RawData: strings.Join(header, ",")})
		return
	}
	for i, row := range rows {
		if fixDate != nil {
			row.TransDate = fixDate(row.TransDate)
		}
		p.addRecord(result, row.record(), keptRows[i], discoverColumns)
	}
}

// addRecord converts one data row and records its outcome on result.
func (p *Parser) addRecord(result *ParseResult, record []string, rowNum int, cols columnMap) {
	if isBlankRecord(record) {
		return
	}
	result.TotalRows++

	tx, errs := processRecord(record, rowNum, cols)
	result.Errors = append(result.Errors, errs...)
	if tx == nil {
		result.SkippedRows++
		return
	}
	result.Transactions = append(result.Transactions, *tx)
	result.ParsedRows++
}

type columnMap struct {
	layout      Layout
	dateCol     int
	descCol     int
	amountCol   int
	debitCol    int
	creditCol   int
	categoryCol int
	convention  normalizer.SignConvention
}

// discoverRow is one row of a Discover card export. Columns are matched to
// the header by name; any other columns are ignored.
type discoverRow struct {
	TransDate   string `csv:"trans. date"`
	PostDate    string `csv:"post date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Category    string `csv:"category"`
}

func (r discoverRow) record() []string {
	return []string{r.TransDate, r.PostDate, r.Description, r.Amount, r.Category}
}

// Positions within discoverRow.record. Purchases are positive in the file.
var discoverColumns = columnMap{
	layout:      LayoutDiscover,
	dateCol:     0,
	descCol:     2,
	amountCol:   3,
	debitCol:    -1,
	creditCol:   -1,
	categoryCol: 4,
	convention:  normalizer.SignInverted,
}

// Header spellings folded onto the discoverRow tags.
var discoverHeaderAliases = map[string]string{
	"transaction date": "trans. date",
	"trans date":       "trans. date",
	"posted date":      "post date",
}

// bindDiscoverRows unmarshals records into discoverRow through gocsv, one row
// per record in order.
func bindDiscoverRows(header []string, records [][]string) ([]discoverRow, error) {
	if len(records) == 0 {
		return nil, nil
	}

	canonical := make([]string, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if alias, ok := discoverHeaderAliases[h]; ok {
			h = alias
		}
		canonical[i] = h
	}

	table := make([][]string, 0, len(records)+1)
	table = append(table, canonical)
	for _, record := range records {
		if len(record) < len(canonical) {
			padded := make([]string, len(canonical))
			copy(padded, record)
			record = padded
		}
		table = append(table, record)
	}

	var rows []discoverRow
	if err := gocsv.UnmarshalCSV(&tableReader{rows: table}, &rows); err != nil {
		return nil, fmt.Errorf("failed to bind Discover columns: %w", err)
	}
	if len(rows) != len(records) {
		return nil, fmt.Errorf("failed to bind Discover columns: got %d rows for %d records", len(rows), len(records))
	}
	return rows, nil
}

// tableReader serves already split records as a gocsv.CSVReader.
type tableReader struct {
	rows [][]string
	next int
}

func (t *tableReader) Read() ([]string, error) {
	if t.next >= len(t.rows) {
		return nil, io.EOF
	}
	row := t.rows[t.next]
	t.next++
	return row, nil
}

func (t *tableReader) ReadAll() ([][]string, error) {
	rest := t.rows[t.next:]
	t.next = len(t.rows)
	return rest, nil
}

func (p *Parser) resolveColumns(headers []string) (columnMap, error) {
	if sniffer.IsDiscoverLayout(headers) {
		return discoverColumns, nil
	}

	s := sniffer.SuggestColumns(headers)
	cm := columnMap{
		layout:      LayoutGeneric,
		dateCol:     override(p.config.DateColumn, s.DateCol),
		descCol:     override(p.config.DescColumn, s.DescCol),
		amountCol:   override(p.config.AmountColumn, s.AmountCol),
		debitCol:    override(p.config.DebitColumn, s.DebitCol),
		creditCol:   override(p.config.CreditColumn, s.CreditCol),
		categoryCol: override(p.config.CategoryColumn, s.CategoryCol),
		convention:  p.config.Convention,
	}

	switch {
	case cm.dateCol < 0:
		return cm, fmt.Errorf("%w: no date column in header", ErrMissingColumn)
	case cm.descCol < 0:
		return cm, fmt.Errorf("%w: no description column in header", ErrMissingColumn)
	case cm.amountCol < 0 && cm.debitCol < 0 && cm.creditCol < 0:
		return cm, fmt.Errorf("%w: no amount or debit/credit column in header", ErrMissingColumn)
	}
	return cm, nil
}

func override(configured, detected int) int {
	if configured >= 0 {
		return configured
	}
	return detected
}

// processRecord converts a raw record into a transaction. A nil transaction
// means the row was dropped; the errors say why. Non-fatal problems come
// back alongside a transaction.
func processRecord(record []string, rowNum int, cols columnMap) (*transaction.Transaction, []ParseError) {
	getValue := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	rowError := func(column, message, raw string) ParseError {
		return ParseError{Row: rowNum, Column: column, Message: message, RawData: raw}
	}

	dateStr := getValue(cols.dateCol)
	date, err := normalizer.ParseDate(dateStr)
	if err != nil {
		return nil, []ParseError{rowError("date", fmt.Sprintf("invalid date %q", dateStr), dateStr)}
	}

	desc := getValue(cols.descCol)
	if desc == "" {
		return nil, []ParseError{rowError("description", "missing description", "")}
	}

	var warnings []ParseError
	amount := normalizer.SignedAmount{Convention: cols.convention}

	if cols.amountCol >= 0 {
		raw := getValue(cols.amountCol)
		amount.Amount, err = normalizer.ParseAmount(raw)
		if err != nil {
			return nil, []ParseError{rowError("amount", fmt.Sprintf("invalid amount %q", raw), raw)}
		}
	} else {
		debitStr, creditStr := getValue(cols.debitCol), getValue(cols.creditCol)
		if debitStr == "" && creditStr == "" {
			return nil, []ParseError{rowError("amount", "missing debit and credit", "")}
		}
		debit, ok := normalizer.ParseAmountOrZero(debitStr)
		if !ok {
			warnings = append(warnings, rowError("debit", fmt.Sprintf("invalid amount %q, using 0", debitStr), debitStr))
		}
		credit, ok := normalizer.ParseAmountOrZero(creditStr)
		if !ok {
			warnings = append(warnings, rowError("credit", fmt.Sprintf("invalid amount %q, using 0", creditStr), creditStr))
		}
		amount = normalizer.SignedAmount{Amount: normalizer.CombineDebitCredit(debit, credit)}
	}

	tx := transaction.New(date, desc, amount.Canonical(), getValue(cols.categoryCol))
	return &tx, warnings
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// DecodeText strips a UTF-8 BOM and decodes input that is not valid UTF-8
// as Windows-1252, the Latin-1 superset most bank exports use.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// skipLines returns a reader that skips the first n lines
func skipLines(r io.Reader, n int) io.Reader {
	return &lineSkipper{reader: r, skip: n}
}

type lineSkipper struct {
	reader  io.Reader
	skip    int
	skipped bool
}

func (ls *lineSkipper) Read(p []byte) (int, error) {
	if !ls.skipped {
		buf := make([]byte, 1)
		lines := 0
		for lines < ls.skip {
			n, err := ls.reader.Read(buf)
			if err != nil {
				return 0, err
			}
			if n > 0 && buf[0] == '\n' {
				lines++
			}
		}
		ls.skipped = true
	}
	return ls.reader.Read(p)
}
