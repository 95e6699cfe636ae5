package segmenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"-$54.32", "-$54.32", true},
		{"Purchase $1,234.50", "$1,234.50", true},
		{"Payment 45.00 CR", "45.00 CR", true},
		{"Payment 45.00CR", "45.00CR", true},
		{"Interest (12.00)", "(12.00)", true},
		{"Fee waived 0.00", "0.00", true},
		{"$0.00 then 5.00", "5.00", true},
		{"-0.00 adjustment", "", false},
		{"4.50 995.50", "4.50", true},
		{"Ref 12345", "", false},
		{"01/02/2024", "", false},
		{"rate 3.5", "", false},
		{"rate 1.2345", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := firstAmount(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindKind(t *testing.T) {
	tests := []struct {
		input  string
		kind   string
		before string
		ok     bool
	}{
		{"Savings ROUND UP TRANSFER 0.50", "round up transfer", "Savings ", true},
		{"Target Debit Card Purchase 12.00", "debit card purchase", "Target ", true},
		{"Amazon.com Purchase", "purchase", "Amazon.com ", true},
		{"ACME Direct  Deposit 2,000.00", "direct deposit", "ACME ", true},
		{"Coffeehouse 4.50", "", "", false},
		{"Coffee fee 1.00", "fee", "Coffee ", true},
		{"Transfer Insurance", "transfer", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, before, _, ok := findKind(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.before, before)
		})
	}
}

func TestSplitDate(t *testing.T) {
	date, rest, ok := splitDate("01/02/2024 01/03/2024 Starbucks")
	assert.True(t, ok)
	assert.Equal(t, "01/02/2024", date)
	assert.Equal(t, " 01/03/2024 Starbucks", rest)

	date, _, ok = splitDate("Posted 2024-01-05")
	assert.True(t, ok)
	assert.Equal(t, "2024-01-05", date)

	_, _, ok = splitDate("Amount 4.50")
	assert.False(t, ok)
}

func TestIsBoilerplate(t *testing.T) {
	for _, line := range []string{
		"Page 2 of 3",
		"page 4",
		"Opening Balance 1,000.00",
		"Closing balance 950.00",
		"Balance brought forward 12.00",
		"Total fees for this period 3.00",
		"Transactions continued on next page",
		"(continued)",
		"01/31/2024 New balance 1,204.16",
		"Previous Balance as of 12/31/2023 $950.00",
	} {
		assert.True(t, isBoilerplate(line), line)
	}

	for _, line := range []string{
		"01/02/2024 Starbucks Purchase 4.50",
		"Page Industries 01/02/2024 12.00",
		"Totally Wine 22.00",
		"01/02/2024 NEW BALANCE ATHLETICS Purchase 89.99",
		"NEW BALANCE #123 BOSTON",
		"01/05/2024 Continued Education Fund Payment 40.00",
	} {
		assert.False(t, isBoilerplate(line), line)
	}
}

func TestStripTokens(t *testing.T) {
	assert.Equal(t, "Starbucks Store", stripTokens("01/02/2024 Starbucks Store -4.50 995.50"))
	assert.Equal(t, "Refund", stripTokens("Refund (12.00)"))
	assert.Equal(t, "", stripTokens("01/02/2024 | -4.50"))
}
