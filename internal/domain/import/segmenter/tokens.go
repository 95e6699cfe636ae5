package segmenter

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/normalizer"
)

var datePattern = regexp.MustCompile(`\b(?:\d{1,2}/\d{1,2}/(?:\d{4}|\d{2})|\d{4}-\d{2}-\d{2})\b`)

// amountPattern: optional "-", optional "$", digit groups with optional
// thousands separators and a mandatory 2-digit fraction; or the same in
// parentheses; optionally followed by CR. Group 1 is the token.
var amountPattern = regexp.MustCompile(
	`(?:^|[^\w.,/])(` +
		`\(\s*\$?(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2}\s*\)` +
		`|-?\$?-?(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2}(?:\s*(?:CR|cr)\b|\b)` +
		`)`)

// typeKeywords are transaction-type anchors printed in statement tables.
var typeKeywords = []string{
	"purchase", "debit card purchase", "card purchase", "pos purchase", "recurring purchase",
	"deposit", "direct deposit", "mobile deposit", "atm deposit",
	"transfer", "round up transfer", "online transfer", "wire transfer", "transfer in", "transfer out",
	"withdrawal", "atm withdrawal",
	"payment", "bill payment", "card payment", "online payment",
	"fee", "service fee", "monthly fee", "overdraft fee", "atm fee",
	"direct debit", "standing order", "refund", "reversal", "adjustment",
	"interest", "interest paid", "interest charge", "dividend", "check", "cheque",
}

// debitKinds are type keywords that always mean money out. Unsigned amounts
// next to them are expenses.
var debitKinds = map[string]bool{
	"purchase": true, "debit card purchase": true, "card purchase": true, "pos purchase": true,
	"recurring purchase": true, "withdrawal": true, "atm withdrawal": true,
	"fee": true, "service fee": true, "monthly fee": true, "overdraft fee": true, "atm fee": true,
	"direct debit": true, "standing order": true, "transfer out": true, "interest charge": true,
}

var typeKeywordPattern = compileKeywords(typeKeywords)

// compileKeywords builds one alternation with longer keywords first, so at a
// given position "round up transfer" wins over "transfer".
func compileKeywords(keywords []string) *regexp.Regexp {
	sorted := append([]string(nil), keywords...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	quoted := make([]string, len(sorted))
	for i, kw := range sorted {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(kw), " ", `\s+`)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

var summaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(?:sub)?totals?\b`),
	regexp.MustCompile(`(?i)\bpage\s+\d+\s*(?:of|/)\s*\d+\b`),
	regexp.MustCompile(`(?i)^\s*page\s+\d+\s*$`),
}

// summaryLinePatterns must match the whole line once its date and amount
// tokens are stripped, so merchants such as "New Balance" survive.
var summaryLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:opening|closing|beginning|ending|previous|new|statement)\s+balance(?:\s+(?:as\s+of|on))?$`),
	regexp.MustCompile(`(?i)^(?:balance\s+)?(?:brought|carried)\s+forward$`),
	regexp.MustCompile(`(?i)^\(?(?:transactions\s+)?continued(?:\s+(?:on|from)\s+(?:the\s+)?(?:next|previous|reverse)\s+(?:page|side))?\)?$`),
}

// isBoilerplate reports page-number and balance/total summary lines.
func isBoilerplate(line string) bool {
	for _, p := range summaryPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	rest := stripTokens(line)
	for _, p := range summaryLinePatterns {
		if p.MatchString(rest) {
			return true
		}
	}
	return false
}

func isTableHeader(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "transaction date") && strings.Contains(lower, "description")
}

func hasDate(s string) bool {
	return datePattern.MatchString(s)
}

// splitDate returns the first date token and the text after it.
func splitDate(s string) (date, rest string, ok bool) {
	loc := datePattern.FindStringIndex(s)
	if loc == nil {
		return "", "", false
	}
	return s[loc[0]:loc[1]], s[loc[1]:], true
}

// findKind locates the earliest transaction-type keyword in s.
func findKind(s string) (kind, before, after string, ok bool) {
	loc := typeKeywordPattern.FindStringIndex(s)
	if loc == nil {
		return "", "", "", false
	}
	kind = strings.ToLower(strings.Join(strings.Fields(s[loc[0]:loc[1]]), " "))
	return kind, s[:loc[0]], s[loc[1]:], true
}

// firstAmount returns the first well-formed amount token in s. A token that
// parses to zero is accepted only when it reads exactly "0.00".
func firstAmount(s string) (string, bool) {
	for _, m := range amountPattern.FindAllStringSubmatch(s, -1) {
		token := strings.TrimSpace(m[1])
		value, err := normalizer.ParseAmount(token)
		if err != nil {
			continue
		}
		if value.Equal(decimal.Zero) && token != "0.00" {
			continue
		}
		return token, true
	}
	return "", false
}

// isUnsigned reports whether a token carries no sign or credit marker.
func isUnsigned(token string) bool {
	return !strings.ContainsAny(token, "-()") && !strings.HasSuffix(strings.ToUpper(token), "CR")
}

// stripTokens removes date and amount tokens and collapses whitespace.
func stripTokens(s string) string {
	s = datePattern.ReplaceAllString(s, " ")
	s = amountPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := amountPattern.FindStringSubmatch(m)
		return strings.Replace(m, sub[1], " ", 1)
	})
	return cleanText(s)
}

func cleanText(s string) string {
	return strings.Trim(strings.Join(strings.Fields(s), " "), " -|:;,")
}
