package categorization

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// minFuzzyLength keeps short names exact-only; "SHELL" vs "SMELL" is too close.
const minFuzzyLength = 6

// FuzzyMatchResult represents a fuzzy match with its edit distance
type FuzzyMatchResult struct {
	Pattern  string // The table entry that matched
	Window   string // The words of the input it was compared against
	Distance int    // Levenshtein distance (lower = closer match)
}

// FuzzyMatcher catches small spelling variations of known merchant names,
// such as "WHOLE FOOD" or "WALGREEN", by comparing word windows of the input
// against each entry with Levenshtein distance.
type FuzzyMatcher struct {
	patterns    []fuzzyPattern
	maxDistance int
}

type fuzzyPattern struct {
	original   string
	normalized string
	words      int
}

// NewFuzzyMatcher builds a matcher over entries, accepting up to maxDistance edits.
func NewFuzzyMatcher(entries []string, maxDistance int) *FuzzyMatcher {
	fm := &FuzzyMatcher{maxDistance: maxDistance}
	for _, e := range entries {
		normalized := strings.TrimSpace(normalizeText(e))
		if len(normalized) < minFuzzyLength {
			continue
		}
		fm.patterns = append(fm.patterns, fuzzyPattern{
			original:   e,
			normalized: normalized,
			words:      len(strings.Fields(normalized)),
		})
	}
	return fm
}

// Match returns the closest entry within the distance budget.
func (fm *FuzzyMatcher) Match(text string) (FuzzyMatchResult, bool) {
	tokens := strings.Fields(normalizeText(text))
	if len(tokens) == 0 || len(fm.patterns) == 0 {
		return FuzzyMatchResult{}, false
	}

	best := FuzzyMatchResult{Distance: fm.maxDistance + 1}
	for _, p := range fm.patterns {
		for start := 0; start+p.words <= len(tokens); start++ {
			window := strings.Join(tokens[start:start+p.words], " ")
			// Cheap length check before computing the distance.
			if abs(len(window)-len(p.normalized)) > fm.maxDistance {
				continue
			}
			d := fuzzy.LevenshteinDistance(window, p.normalized)
			if d < best.Distance {
				best = FuzzyMatchResult{Pattern: p.original, Window: window, Distance: d}
			}
		}
	}

	if best.Distance > fm.maxDistance {
		return FuzzyMatchResult{}, false
	}
	return best, true
}

// PatternCount returns the number of entries eligible for fuzzy matching.
func (fm *FuzzyMatcher) PatternCount() int {
	return len(fm.patterns)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
