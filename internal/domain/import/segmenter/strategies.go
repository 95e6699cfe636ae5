package segmenter

import (
	"strings"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/layout"
)

const (
	// nearbyWindow is how many lines after a date line are searched for the
	// type keyword and, separately, for the amount.
	nearbyWindow = 5
	// nearbyDescLines is how many lines form the description when no type keyword is found.
	nearbyDescLines = 3
	// genericWindow is how many lines after a date line may hold its amount.
	genericWindow = 2

	unknownDescription = "Unknown Transaction"
)

// DefaultStrategies returns the strategy chain in the order it is tried.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: StrategyTableHeader, Extract: tableHeaderRows},
		{Name: StrategyNearbyWindow, Extract: nearbyWindowRows},
		{Name: StrategyGeneric, Extract: genericRows},
	}
}

// tableHeaderRows reads statements with a "Transaction Date ... Description"
// header. Every date line starts a row and the lines up to the next date
// line are folded into it.
func tableHeaderRows(lines []layout.TextLine) []Row {
	start := -1
	for i, l := range lines {
		if isTableHeader(l.Text) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	var rows []Row
	var block []string
	anchor := -1

	flush := func() {
		if anchor < 0 {
			return
		}
		rows = append(rows, tableRow(lines[anchor], anchor, strings.Join(block, " ")))
		block = block[:0]
	}

	for i := start; i < len(lines); i++ {
		text := lines[i].Text
		if isTableHeader(text) {
			continue
		}
		if hasDate(text) {
			flush()
			anchor = i
			block = append(block, text)
			continue
		}
		if anchor >= 0 {
			block = append(block, text)
		}
	}
	flush()

	return rows
}

func tableRow(line layout.TextLine, idx int, folded string) Row {
	date, rest, _ := splitDate(folded)
	row := Row{Page: line.Page, Line: idx, Date: date}

	if kind, before, after, ok := findKind(rest); ok {
		row.Kind = kind
		row.Description = stripTokens(before)
		row.Amount, _ = firstAmount(after)
		return row
	}

	row.Description = stripTokens(rest)
	row.Amount, _ = firstAmount(rest)
	return row
}

// nearbyWindowRows handles layouts where date, description, type and amount
// sit on separate lines near each other.
func nearbyWindowRows(lines []layout.TextLine) []Row {
	var rows []Row

	for i := 0; i < len(lines); {
		date, rest, ok := splitDate(lines[i].Text)
		if !ok {
			i++
			continue
		}

		window := windowTexts(lines, i, rest, nearbyWindow)

		amount := ""
		for _, text := range window {
			if a, found := firstAmount(text); found {
				amount = a
				break
			}
		}

		row := Row{Page: lines[i].Page, Line: i, Date: date, Amount: amount}
		next := i + 1

		kindAt := -1
		var parts []string
		for k, text := range window {
			kind, before, _, found := findKind(text)
			if found {
				kindAt = k
				row.Kind = kind
				parts = append(parts, before)
				break
			}
			parts = append(parts, text)
		}

		if kindAt >= 0 {
			row.Description = stripTokens(strings.Join(parts, " "))
			next = max(next, i+kindAt+1)
		} else {
			row.Description = stripTokens(strings.Join(window[:min(len(window), nearbyDescLines+1)], " "))
		}

		if row.Amount != "" {
			rows = append(rows, row)
		}
		i = next
	}

	return rows
}

// windowTexts returns the remainder of the anchor line followed by up to n
// following lines.
func windowTexts(lines []layout.TextLine, anchor int, rest string, n int) []string {
	out := []string{rest}
	for j := anchor + 1; j < len(lines) && j <= anchor+n; j++ {
		out = append(out, lines[j].Text)
	}
	return out
}

// genericRows is the last resort: any date line with an amount on it or on
// one of the next two lines.
func genericRows(lines []layout.TextLine) []Row {
	var rows []Row

	for i, l := range lines {
		date, rest, ok := splitDate(l.Text)
		if !ok {
			continue
		}

		amount := ""
		for _, text := range windowTexts(lines, i, rest, genericWindow) {
			if a, found := firstAmount(text); found {
				amount = a
				break
			}
		}
		if amount == "" {
			continue
		}

		desc := stripTokens(l.Text)
		if desc == "" && i+1 < len(lines) {
			desc = stripTokens(lines[i+1].Text)
		}
		if desc == "" {
			desc = unknownDescription
		}

		rows = append(rows, Row{Page: l.Page, Line: i, Date: date, Description: desc, Amount: amount})
	}

	return rows
}
