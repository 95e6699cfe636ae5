// Package transaction defines the normalized record every statement parser emits.
package transaction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-ingest/internal/domain/categorization"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/normalizer"
)

// Date is a timezone-less calendar date, stored as midnight UTC.
type Date struct {
	time.Time
}

// NewDate drops the clock and zone of t, keeping its calendar date.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return normalizer.FormatISO(d.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.UnmarshalCSV(s)
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (d Date) MarshalCSV() (string, error) {
	return d.String(), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (d *Date) UnmarshalCSV(s string) error {
	t, err := normalizer.ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Transaction is one normalized statement row.
// Amount is negative for money out and positive for money in.
// MerchantName and Category are empty when unknown.
type Transaction struct {
	Date         Date            `json:"date"`
	Name         string          `json:"name"`
	MerchantName string          `json:"merchant_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Category     string          `json:"category,omitempty"`
}

// New builds a transaction from parsed values. The merchant name is cleaned
// from name, and when category is empty the auto-tagger assigns one.
func New(date time.Time, name string, amount decimal.Decimal, category string) Transaction {
	tx := Transaction{
		Date:         NewDate(date),
		Name:         strings.TrimSpace(name),
		MerchantName: normalizer.CleanMerchant(name),
		Amount:       amount,
		Category:     strings.TrimSpace(category),
	}
	if tx.Category == "" {
		tx.Category = categorization.Tag(tx.ClassifierInput())
	}
	return tx
}

// ClassifierInput is the view of the transaction both classifiers read.
func (t Transaction) ClassifierInput() categorization.Input {
	return categorization.Input{
		Category:     t.Category,
		MerchantName: t.MerchantName,
		Name:         t.Name,
		Amount:       t.Amount,
	}
}

// Classification computes the essential/flex label. It is derived on demand
// and never stored.
func (t Transaction) Classification() categorization.Classification {
	return categorization.Classify(t.ClassifierInput())
}

// Key identifies a transaction for duplicate detection.
func (t Transaction) Key() string {
	return fmt.Sprintf("%s|%s|%s", t.Date, t.Amount.String(), t.MerchantName)
}

// IsExpense reports whether money left the account.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}
