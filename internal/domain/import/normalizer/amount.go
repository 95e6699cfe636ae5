// Package normalizer converts locale-formatted statement values into canonical forms:
// signed decimal amounts, calendar dates and cleaned merchant names.
package normalizer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// currencyTokens are stripped before numeric parsing. Multi-character symbols
// come first so "R$" is not left as a stray "R".
var currencyTokens = []string{
	"US$", "R$", "A$", "C$",
	"USD", "EUR", "GBP", "CAD", "AUD", "BRL",
	"$", "€", "£", "¥", "₹",
}

// plainNumber is what remains of an amount once signs, currency and separators
// are stripped. Exponents and hex are rejected.
var plainNumber = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

// ParseAmount parses a statement amount into a signed decimal.
//
// Recognized sign markers: leading "-", parentheses "(123.45)", trailing "-"
// ("12.00-") and a trailing "CR" credit marker. CR always yields a positive
// value, whatever other sign markers are present. A trailing "DR" marks a debit.
// Currency symbols, ISO codes, thousands separators and inner spaces are ignored.
// ErrInvalidAmount is returned only when no numeric content remains.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "−", "-"))
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	credit, debit := false, false
	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "CR"):
		credit = true
		s = strings.TrimSpace(s[:len(s)-2])
	case strings.HasSuffix(upper, "DR"):
		debit = true
		s = strings.TrimSpace(s[:len(s)-2])
	}

	for _, tok := range currencyTokens {
		s = strings.ReplaceAll(s, tok, "")
	}
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "-"))
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}
	s = strings.TrimPrefix(s, "+")

	s = strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	if !strings.ContainsFunc(s, unicode.IsDigit) {
		return decimal.Zero, fmt.Errorf("%w: no numeric content in %q", ErrInvalidAmount, raw)
	}

	if !plainNumber.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q is not a plain number", ErrInvalidAmount, raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, raw, err)
	}

	switch {
	case credit:
		return d.Abs(), nil
	case negative, debit:
		return d.Abs().Neg(), nil
	default:
		return d, nil
	}
}

// ParseAmountOrZero is ParseAmount for optional cells. Invalid input maps to
// zero and ok=false so the caller can record a warning.
func ParseAmountOrZero(raw string) (amount decimal.Decimal, ok bool) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, true
	}
	d, err := ParseAmount(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
