package sniffer

import "strings"

// ColumnSuggestions provides auto-detected column indices
type ColumnSuggestions struct {
	DateCol       int  // Suggested date column index (-1 if not found)
	DescCol       int  // Suggested description column index (-1 if not found)
	AmountCol     int  // Single signed amount column (-1 if not found)
	DebitCol      int  // Debit (money out) column (-1 if not found)
	CreditCol     int  // Credit (money in) column (-1 if not found)
	CategoryCol   int  // Category column (-1 if not found)
	IsDoubleEntry bool // True when debit/credit columns replace a single amount
}

// Header synonyms, lower-case, most specific first.
var (
	dateSynonyms = []string{
		"transaction date", "trans. date", "trans date", "date", "posted date", "posting date",
		"post date", "value date",
	}
	descriptionSynonyms = []string{
		"description", "transaction description", "details", "transaction details", "memo",
		"narrative", "payee", "merchant", "merchant name", "name",
	}
	amountSynonyms = []string{
		"amount", "transaction amount", "amt", "value",
	}
	debitSynonyms = []string{
		"debit", "debits", "debit amount", "withdrawal", "withdrawals", "money out", "paid out",
	}
	creditSynonyms = []string{
		"credit", "credits", "credit amount", "deposit", "deposits", "money in", "paid in",
	}
	categorySynonyms = []string{
		"category", "categories", "transaction category",
	}
)

// Fragments for the looser second pass.
var (
	dateFragments        = []string{"date"}
	descriptionFragments = []string{"descri", "memo", "payee", "merchant", "detail"}
	amountFragments      = []string{"amount"}
	debitFragments       = []string{"debit", "withdraw", "paid out"}
	creditFragments      = []string{"credit", "deposit", "paid in"}
	categoryFragments    = []string{"categ"}
)

// SuggestColumns matches header names to column roles. Every role first
// tries exact synonym matches, then substring matches; a column is never
// given two roles.
func SuggestColumns(headers []string) *ColumnSuggestions {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	used := make(map[int]bool)
	pick := func(synonyms, fragments []string, exclude ...string) int {
		for _, syn := range synonyms {
			for i, h := range normalized {
				if !used[i] && h == syn {
					used[i] = true
					return i
				}
			}
		}
		for i, h := range normalized {
			if used[i] || containsAny(h, exclude) {
				continue
			}
			if containsAny(h, fragments) {
				used[i] = true
				return i
			}
		}
		return -1
	}

	s := &ColumnSuggestions{}
	s.DateCol = pick(dateSynonyms, dateFragments)
	s.DescCol = pick(descriptionSynonyms, descriptionFragments)
	s.DebitCol = pick(debitSynonyms, debitFragments)
	s.CreditCol = pick(creditSynonyms, creditFragments)
	s.AmountCol = pick(amountSynonyms, amountFragments, "debit", "credit", "balance")
	s.CategoryCol = pick(categorySynonyms, categoryFragments)

	s.IsDoubleEntry = s.AmountCol == -1 && (s.DebitCol != -1 || s.CreditCol != -1)
	return s
}

// IsDiscoverLayout reports whether headers carry both a transaction date and
// a post date column, the shape of Discover card exports.
func IsDiscoverLayout(headers []string) bool {
	hasTransDate, hasPostDate := false, false
	for _, h := range headers {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "trans. date", "transaction date", "trans date":
			hasTransDate = true
		case "post date", "posted date":
			hasPostDate = true
		}
	}
	return hasTransDate && hasPostDate
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
