package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownMerchant is returned when nothing usable survives cleaning.
const UnknownMerchant = "Unknown"

// truncateMarker finds where card-network noise starts: a run of two or more
// spaces, '#', '*', or a masked card number.
var truncateMarker = regexp.MustCompile(`\s{2,}|[#*]|(?i)x{4,}|(?i)\bcard\s+ending\b`)

// leadingMarker is card-network noise in front of the merchant, such as a
// store number or masked card. It is stripped rather than truncated on.
var leadingMarker = regexp.MustCompile(`^(?i)(?:[#*]+\s*\d*|x{4,}\d*|card\s+ending\s*\d*)\s*`)

var whitespace = regexp.MustCompile(`\s+`)

// networkPrefixes are point-of-sale, debit and ACH markers banks put in front
// of the merchant. Longer prefixes first.
var networkPrefixes = []string{
	"DEBIT CARD PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"RECURRING PAYMENT ",
	"CHECK CARD PURCHASE ",
	"DEBIT PURCHASE ",
	"POS PURCHASE ",
	"CARD PURCHASE ",
	"ACH WITHDRAWAL ",
	"ACH PAYMENT ",
	"ACH DEBIT ",
	"ACH CREDIT ",
	"POS DEBIT ",
	"DEBIT CARD ",
	"CHECKCARD ",
	"CHECK CARD ",
	"PURCHASE ",
	"DEBIT ",
	"POS ",
	"ACH ",
	"VISA ",
}

// processorPrefixes are payment processor tags glued to the merchant by an
// asterisk. They are removed before truncating on '*'.
var processorPrefixes = regexp.MustCompile(`^(?i)(?:SQ|TST|SP|PP|PAYPAL|GOOGLE|DD|IC|EB)\s*\*\s*`)

var authorizedOnDate = regexp.MustCompile(`^\d{1,2}/\d{1,2}\s+`)

// CleanMerchant turns a raw statement description into a display merchant name.
// It never returns an empty string.
func CleanMerchant(raw string) string {
	s := strings.TrimSpace(raw)
	s = stripNetworkPrefixes(s)
	s = processorPrefixes.ReplaceAllString(s, "")

	s = leadingMarker.ReplaceAllString(strings.TrimSpace(s), "")
	if loc := truncateMarker.FindStringIndex(s); loc != nil && loc[0] > 0 {
		s = s[:loc[0]]
	}

	s = stripNetworkPrefixes(strings.TrimSpace(s))
	s = strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	s = strings.Trim(s, " -,.;:")

	if s == "" || !strings.ContainsFunc(s, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) {
		return UnknownMerchant
	}

	if isUniformCase(s) {
		s = titleCase(s)
	}
	return s
}

func stripNetworkPrefixes(s string) string {
	for {
		upper := strings.ToUpper(s)
		stripped := false
		for _, prefix := range networkPrefixes {
			if upper == strings.TrimSpace(prefix) {
				return ""
			}
			if strings.HasPrefix(upper, prefix) {
				s = strings.TrimSpace(s[len(prefix):])
				s = authorizedOnDate.ReplaceAllString(s, "")
				stripped = true
				break
			}
		}
		if !stripped {
			return s
		}
	}
}

// isUniformCase reports whether every letter has the same case.
func isUniformCase(s string) bool {
	hasUpper, hasLower := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}
	return hasUpper != hasLower
}

// titleCase title-cases each word but keeps short acronyms such as "CVS" or
// "7E1" verbatim.
func titleCase(s string) string {
	caser := cases.Title(language.English)
	words := strings.Fields(s)
	for i, w := range words {
		if isShortAcronym(w) {
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

func isShortAcronym(w string) bool {
	if len([]rune(w)) > 3 {
		return false
	}
	hasDigit, hasLower := false, false
	for _, r := range w {
		if unicode.IsDigit(r) {
			hasDigit = true
		}
		if unicode.IsLower(r) {
			hasLower = true
		}
	}
	return hasDigit || !hasLower
}
