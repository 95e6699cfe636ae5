package normalizer

import "github.com/shopspring/decimal"

// SignConvention describes how a source format maps money in/out to signs.
type SignConvention int

const (
	// SignAsIs means the source already uses negative = money out.
	SignAsIs SignConvention = iota
	// SignInverted is used by card issuers whose exports show purchases as positive.
	SignInverted
	// SignDebit marks an unsigned value from a debit (money out) column.
	SignDebit
	// SignCredit marks an unsigned value from a credit (money in) column.
	SignCredit
)

func (c SignConvention) String() string {
	switch c {
	case SignInverted:
		return "inverted"
	case SignDebit:
		return "debit"
	case SignCredit:
		return "credit"
	default:
		return "as-is"
	}
}

// SignedAmount is a source amount tagged with the convention it was read under.
type SignedAmount struct {
	Amount     decimal.Decimal
	Convention SignConvention
}

// Canonical returns the amount with negative = expense.
func (a SignedAmount) Canonical() decimal.Decimal {
	switch a.Convention {
	case SignInverted:
		return a.Amount.Neg()
	case SignDebit:
		return a.Amount.Abs().Neg()
	case SignCredit:
		return a.Amount.Abs()
	default:
		return a.Amount
	}
}

// Canonicalize sums the canonical values of all parts.
func Canonicalize(parts ...SignedAmount) decimal.Decimal {
	total := decimal.Zero
	for _, p := range parts {
		total = total.Add(p.Canonical())
	}
	return total
}

// CombineDebitCredit returns credit - debit for a double-entry row.
func CombineDebitCredit(debit, credit decimal.Decimal) decimal.Decimal {
	return Canonicalize(
		SignedAmount{Amount: debit, Convention: SignDebit},
		SignedAmount{Amount: credit, Convention: SignCredit},
	)
}
