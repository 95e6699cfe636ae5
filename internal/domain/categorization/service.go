package categorization

import (
	"github.com/shopspring/decimal"
)

// Classification is the analytics-only essential/flex label.
type Classification string

const (
	Essential Classification = "essential"
	Flex      Classification = "flex"
)

// Scoring weights.
const (
	essentialCategoryWeight      = 2
	essentialMerchantTextWeight  = 1
	essentialMerchantTableWeight = 3
	flexCategoryWeight           = 2
	flexMerchantWeight           = 2

	essentialThreshold = 3
	flexThreshold      = 2
)

// Input is the view of a transaction both classifiers work on. Empty strings
// stand for missing values.
type Input struct {
	Category     string
	MerchantName string
	Name         string
	Amount       decimal.Decimal
}

func (in Input) text() string {
	return in.MerchantName + " " + in.Name
}

// Tag assigns a category label. It is total: every input gets exactly one of
// Categories.
func Tag(in Input) string {
	text := in.text()

	if in.Amount.IsPositive() {
		if incomeEngine.Matches(text) {
			return CategoryIncome
		}
		if peerTransferEngine.Matches(text) {
			return CategoryTransfer
		}
		return CategoryIncome
	}

	if m := expenseEngine.Match(text); m != nil {
		return m.Label
	}
	return CategoryOther
}

// Scores holds the two weighted scores behind a classification.
type Scores struct {
	Essential int
	Flex      int
}

// Score computes the essential and flex keyword scores of an expense.
func Score(in Input) Scores {
	var s Scores
	text := in.text()

	if essentialCategoryEngine.Matches(in.Category) {
		s.Essential += essentialCategoryWeight
	}
	if essentialMerchantTextEngine.Matches(text) {
		s.Essential += essentialMerchantTextWeight
	}
	if matchesEssentialMerchant(text) {
		s.Essential += essentialMerchantTableWeight
	}
	if flexCategoryEngine.Matches(in.Category) {
		s.Flex += flexCategoryWeight
	}
	if flexMerchantEngine.Matches(text) {
		s.Flex += flexMerchantWeight
	}
	return s
}

// Classify labels spend as essential or flex. Money in is always flex and
// anything the tables cannot decide defaults to flex.
func Classify(in Input) Classification {
	if !in.Amount.IsNegative() {
		return Flex
	}

	if m := overrideEngine.Match(in.text()); m != nil {
		return Classification(m.Label)
	}

	s := Score(in)
	switch {
	case s.Essential >= essentialThreshold && s.Essential >= s.Flex:
		return Essential
	case s.Flex >= flexThreshold && s.Flex > s.Essential:
		return Flex
	case essentialCategoryEngine.Matches(in.Category):
		return Essential
	default:
		return Flex
	}
}

func matchesEssentialMerchant(text string) bool {
	if essentialMerchantEngine.Matches(text) {
		return true
	}
	_, ok := essentialMerchantFuzzyMatcher.Match(text)
	return ok
}
