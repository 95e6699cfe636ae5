// Package export writes ingested transactions as CSV or JSON documents.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/transaction"
)

// Output is a document format.
type Output string

const (
	OutputJSON Output = "json"
	OutputCSV  Output = "csv"
)

// ErrUnknownOutput is returned for output names other than json and csv.
var ErrUnknownOutput = errors.New("unknown output format")

// ParseOutput maps a flag value to an Output. Empty means JSON.
func ParseOutput(name string) (Output, error) {
	switch Output(strings.ToLower(strings.TrimSpace(name))) {
	case "", OutputJSON:
		return OutputJSON, nil
	case OutputCSV:
		return OutputCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOutput, name)
}

// Options controls optional columns.
type Options struct {
	// Classify adds the essential/flex label to expense rows.
	Classify bool
}

// Row is the flat representation shared by both outputs.
type Row struct {
	Date           string      `csv:"date" json:"date"`
	Name           string      `csv:"name" json:"name"`
	MerchantName   string      `csv:"merchant_name" json:"merchant_name,omitempty"`
	Amount         json.Number `csv:"amount" json:"amount"`
	Category       string      `csv:"category" json:"category,omitempty"`
	Classification string      `csv:"classification" json:"classification,omitempty"`
}

// Rows flattens txs. Amounts keep their exact decimal text.
func Rows(txs []transaction.Transaction, opts Options) []Row {
	rows := make([]Row, 0, len(txs))
	for _, tx := range txs {
		row := Row{
			Date:         tx.Date.String(),
			Name:         tx.Name,
			MerchantName: tx.MerchantName,
			Amount:       json.Number(tx.Amount.String()),
			Category:     tx.Category,
		}
		if opts.Classify && tx.IsExpense() {
			row.Classification = string(tx.Classification())
		}
		rows = append(rows, row)
	}
	return rows
}

// Document is the JSON shape of one ingested statement.
type Document struct {
	Source       string   `json:"source,omitempty"`
	Transactions []Row    `json:"transactions"`
	Errors       []string `json:"errors"`
}

// NewDocument builds a Document with non-nil lists.
func NewDocument(source string, txs []transaction.Transaction, errs []string, opts Options) Document {
	if errs == nil {
		errs = []string{}
	}
	return Document{
		Source:       source,
		Transactions: Rows(txs, opts),
		Errors:       errs,
	}
}

// WriteJSON writes docs as an indented JSON array.
func WriteJSON(w io.Writer, docs ...Document) error {
	if docs == nil {
		docs = []Document{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteCSV writes txs with a header row. Warnings are not part of the CSV.
func WriteCSV(w io.Writer, txs []transaction.Transaction, opts Options) error {
	rows := Rows(txs, opts)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
