// Package layout rebuilds reading-order text lines from the positioned text
// fragments of a text-layer PDF.
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ErrCorruptPDF is returned when the byte stream cannot be decoded as a PDF.
var ErrCorruptPDF = errors.New("corrupt or unreadable PDF")

const (
	DefaultLineTolerance = 2.5
	DefaultSpaceGapRatio = 0.2

	// minSpaceGap keeps tiny fonts from splitting words on rounding noise.
	minSpaceGap = 1.0
	// avgGlyphRatio estimates glyph width from font size when the font has no widths.
	avgGlyphRatio = 0.5
)

// TextLine is one reconstructed line of a page.
type TextLine struct {
	Page int     // 1-based page number
	Y    float64 // Baseline in PDF user space (larger is higher on the page)
	Text string
}

func (l TextLine) String() string {
	return l.Text
}

// Fragment is a positioned piece of text as decoded from a content stream.
type Fragment struct {
	X, Y     float64
	W        float64 // Advance width; 0 when the font carries no metrics
	FontSize float64
	Text     string
}

// Options tunes line reconstruction. Zero values select the defaults.
type Options struct {
	// LineTolerance is the largest Y distance, in points, between fragments of one line.
	LineTolerance float64
	// SpaceGapRatio times the font size is the horizontal gap that becomes a space.
	SpaceGapRatio float64
}

// DefaultOptions returns the tolerances used when none are configured.
func DefaultOptions() Options {
	return Options{LineTolerance: DefaultLineTolerance, SpaceGapRatio: DefaultSpaceGapRatio}
}

func (o Options) withDefaults() Options {
	if o.LineTolerance <= 0 {
		o.LineTolerance = DefaultLineTolerance
	}
	if o.SpaceGapRatio <= 0 {
		o.SpaceGapRatio = DefaultSpaceGapRatio
	}
	return o
}

// ExtractLines decodes every page of a PDF and returns its lines top to
// bottom, pages in document order. Only an undecodable file is an error;
// a PDF without a text layer yields no lines.
func ExtractLines(data []byte, opts Options) (lines []TextLine, err error) {
	// The decoder panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = fmt.Errorf("%w: decoder crashed: %v", ErrCorruptPDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPDF, err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("%w: no pages", ErrCorruptPDF)
	}

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content := page.Content()
		fragments := make([]Fragment, 0, len(content.Text))
		for _, t := range content.Text {
			fragments = append(fragments, Fragment{
				X:        t.X,
				Y:        t.Y,
				W:        t.W,
				FontSize: t.FontSize,
				Text:     t.S,
			})
		}
		lines = append(lines, BuildLines(i, fragments, opts)...)
	}

	return lines, nil
}

// BuildLines clusters fragments into lines by Y, orders each line by X and
// inserts a space wherever the gap between fragments is wider than the
// configured share of the font size.
func BuildLines(page int, fragments []Fragment, opts Options) []TextLine {
	opts = opts.withDefaults()

	frags := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if f.Text != "" {
			frags = append(frags, f)
		}
	}

	// Stable sorts keep content-stream order for glyphs that share a position.
	sort.SliceStable(frags, func(i, j int) bool {
		return frags[i].Y > frags[j].Y
	})

	var lines []TextLine
	for start := 0; start < len(frags); {
		anchor := frags[start].Y
		end := start + 1
		for end < len(frags) && anchor-frags[end].Y <= opts.LineTolerance {
			end++
		}

		cluster := frags[start:end]
		sort.SliceStable(cluster, func(i, j int) bool {
			return cluster[i].X < cluster[j].X
		})

		if text := joinFragments(cluster, opts); text != "" {
			lines = append(lines, TextLine{Page: page, Y: anchor, Text: text})
		}
		start = end
	}

	return lines
}

func joinFragments(cluster []Fragment, opts Options) string {
	var b strings.Builder
	for i, f := range cluster {
		if i > 0 {
			prev := cluster[i-1]
			gap := f.X - (prev.X + fragmentWidth(prev))
			if gap > spaceThreshold(prev, f, opts) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(f.Text)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func fragmentWidth(f Fragment) float64 {
	if f.W > 0 {
		return f.W
	}
	return avgGlyphRatio * f.FontSize * float64(utf8.RuneCountInString(f.Text))
}

func spaceThreshold(a, b Fragment, opts Options) float64 {
	size := max(a.FontSize, b.FontSize)
	return max(opts.SpaceGapRatio*size, minSpaceGap)
}
