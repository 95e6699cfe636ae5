// Package layouttest writes minimal text-layer PDFs for tests.
package layouttest

import (
	"bytes"
	"fmt"
	"strings"
)

// Text is a string drawn at (X, Y) in points with the given font size.
type Text struct {
	X, Y float64
	Size float64
	S    string
}

// Line places s at the left margin at height y in 10pt type.
func Line(y float64, s string) Text {
	return Text{X: 50, Y: y, Size: 10, S: s}
}

// Lines stacks strings top-down with 14pt leading, starting at y=740.
func Lines(ss ...string) []Text {
	out := make([]Text, 0, len(ss))
	for i, s := range ss {
		out = append(out, Line(740-float64(i)*14, s))
	}
	return out
}

// glyphWidth is the advance of every glyph in the embedded font, in 1/1000 em.
const glyphWidth = 500

// PDF renders one page per argument using Helvetica with fixed glyph widths
// and an uncompressed content stream.
func PDF(pages ...[]Text) []byte {
	var objects []string

	// 1 catalog, 2 page tree, 3 font; then page/content pairs.
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		fontObject(),
	)

	for i, page := range pages {
		content := contentStream(page)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func fontObject() string {
	widths := make([]string, 0, 95)
	for c := 32; c <= 126; c++ {
		widths = append(widths, fmt.Sprint(glyphWidth))
	}
	return fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>",
		strings.Join(widths, " "))
}

func contentStream(texts []Text) string {
	var b strings.Builder
	for _, t := range texts {
		size := t.Size
		if size == 0 {
			size = 10
		}
		fmt.Fprintf(&b, "BT /F1 %g Tf %g %g Td (%s) Tj ET\n", size, t.X, t.Y, escape(t.S))
	}
	return b.String()
}

var escaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

func escape(s string) string {
	return escaper.Replace(s)
}
