// Package categorization assigns category labels and essential/flex
// classifications to transactions using static keyword tables.
package categorization

import (
	"strings"
	"unicode"

	"github.com/cloudflare/ahocorasick"
)

// KeywordTable is a group of keywords sharing one label. A keyword written
// with surrounding spaces (" RENT ") only matches whole words.
type KeywordTable struct {
	Label    string
	Keywords []string
}

// MatchResult represents a single keyword hit with its table metadata
type MatchResult struct {
	Label    string // Label of the table the keyword belongs to
	Keyword  string // The keyword as written in the table
	Priority int    // Table position; lower wins
}

// Engine matches many keywords in one pass using the Aho-Corasick algorithm.
// Tables passed to NewEngine are in priority order: when several tables
// match, the earliest table wins regardless of where the hit is in the text.
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	matcher  *ahocorasick.Matcher
	patterns []string        // Unique normalized patterns in matcher order
	metadata [][]MatchResult // All table entries sharing each pattern
}

// NewEngine compiles the keyword tables into a single matcher.
func NewEngine(tables ...KeywordTable) *Engine {
	e := &Engine{}

	patternToIndex := make(map[string]int)
	addPattern := func(pattern string, result MatchResult) {
		if idx, exists := patternToIndex[pattern]; exists {
			e.metadata[idx] = append(e.metadata[idx], result)
			return
		}
		patternToIndex[pattern] = len(e.patterns)
		e.patterns = append(e.patterns, pattern)
		e.metadata = append(e.metadata, []MatchResult{result})
	}

	for priority, table := range tables {
		for _, kw := range table.Keywords {
			pattern := normalizeText(kw)
			if strings.TrimSpace(pattern) == "" {
				continue
			}
			addPattern(pattern, MatchResult{
				Label:    table.Label,
				Keyword:  kw,
				Priority: priority,
			})
		}
	}

	if len(e.patterns) > 0 {
		e.matcher = ahocorasick.NewStringMatcher(e.patterns)
	}
	return e
}

// Match returns the hit from the highest-priority table, or nil.
func (e *Engine) Match(text string) *MatchResult {
	if e.IsEmpty() {
		return nil
	}

	var best *MatchResult
	for _, idx := range e.matcher.MatchThreadSafe([]byte(paddedText(text))) {
		if idx < 0 || idx >= len(e.metadata) {
			continue
		}
		for i := range e.metadata[idx] {
			m := e.metadata[idx][i]
			if best == nil || m.Priority < best.Priority {
				best = &m
			}
		}
	}
	return best
}

// Matches reports whether any keyword occurs in text.
func (e *Engine) Matches(text string) bool {
	if e.IsEmpty() {
		return false
	}
	return len(e.matcher.MatchThreadSafe([]byte(paddedText(text)))) > 0
}

// PatternCount returns the number of unique patterns loaded in the engine.
func (e *Engine) PatternCount() int {
	return len(e.patterns)
}

// IsEmpty returns true if the engine has no patterns loaded.
func (e *Engine) IsEmpty() bool {
	return e == nil || e.matcher == nil
}

// normalizeText upper-cases s and turns punctuation into single spaces, so
// "Amazon.com" and "AMAZON COM" compare equal. '&' is kept for "AT&T".
// Leading and trailing spaces survive so keywords can demand word boundaries.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range strings.ToUpper(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '&' {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return b.String()
}

func paddedText(s string) string {
	return " " + normalizeText(s) + " "
}
