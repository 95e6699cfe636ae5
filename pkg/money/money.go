// Package money provides currency-safe totals over statement amounts using
// integer minor units and ISO-4217 currency codes.
package money

import (
	"encoding/json"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Common currency codes (ISO-4217)
const (
	USD = "USD" // US Dollar
	EUR = "EUR" // Euro
	GBP = "GBP" // British Pound
	BRL = "BRL" // Brazilian Real
	JPY = "JPY" // Japanese Yen (no decimal places)
	CAD = "CAD" // Canadian Dollar
)

// Money represents a monetary value with currency.
// It wraps go-money for arithmetic and shopspring/decimal for conversion.
type Money struct {
	m *money.Money
}

// New creates a new Money value from minor units and a currency code.
func New(amountCents int64, currencyCode string) *Money {
	return &Money{
		m: money.New(amountCents, currencyCode),
	}
}

// NewFromDecimal creates Money from a decimal amount, rounding half away
// from zero to the currency's minor unit. Unknown codes fall back to USD.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currencyCode = USD
		currency = money.GetCurrency(USD)
	}

	multiplier := decimal.New(1, int32(currency.Fraction))
	cents := amount.Mul(multiplier).Round(0).IntPart()

	return New(cents, currencyCode)
}

// Zero returns a zero Money value for the given currency
func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

// Sum adds decimal amounts in one currency.
func Sum(currencyCode string, amounts ...decimal.Decimal) *Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return NewFromDecimal(total, currencyCode)
}

// Amount returns the amount in minor units (cents)
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// Currency returns the ISO-4217 currency code
func (m *Money) Currency() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Currency().Code
}

func (m *Money) IsZero() bool {
	return m == nil || m.m == nil || m.m.IsZero()
}

func (m *Money) IsNegative() bool {
	return m != nil && m.m != nil && m.m.IsNegative()
}

// Abs returns the absolute value
func (m *Money) Abs() *Money {
	if m == nil || m.m == nil {
		return Zero(USD)
	}
	return &Money{m: m.m.Absolute()}
}

// Display returns a formatted string for display (e.g., "$1,234.56")
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return "$0.00"
	}
	return m.m.Display()
}

// String returns the amount as a decimal string (e.g., "1234.56")
func (m *Money) String() string {
	if m == nil || m.m == nil {
		return "0.00"
	}
	return m.ToDecimal().StringFixed(int32(m.m.Currency().Fraction))
}

// ToDecimal converts to decimal.Decimal for precise calculations
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	currency := m.m.Currency()
	d := decimal.NewFromInt(m.m.Amount())
	divisor := decimal.New(1, int32(currency.Fraction))
	return d.Div(divisor)
}

// PercentageOf returns what percentage m is of total (25.5 for 25.5%).
// A zero total yields zero.
func (m *Money) PercentageOf(total *Money) decimal.Decimal {
	if m == nil || m.m == nil || total == nil || total.m == nil || total.IsZero() {
		return decimal.Zero
	}

	part := m.ToDecimal()
	whole := total.ToDecimal()

	return part.Div(whole).Mul(decimal.NewFromInt(100))
}

func (m *Money) MarshalJSON() ([]byte, error) {
	if m == nil || m.m == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(map[string]interface{}{
		"amount":   m.String(),
		"currency": m.Currency(),
		"display":  m.Display(),
	})
}
