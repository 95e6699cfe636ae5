package sniffer

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the container type of a statement file.
type Format string

const (
	FormatUnknown   Format = ""
	FormatDelimited Format = "csv"
	FormatPDF       Format = "pdf"
	FormatExcel     Format = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported statement format")

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "":
		return FormatUnknown, nil
	case "csv", "tsv", "txt", "delimited":
		return FormatDelimited, nil
	case "pdf":
		return FormatPDF, nil
	case "xlsx", "excel":
		return FormatExcel, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// DetectFormat decides the format from the filename extension, falling back
// to magic bytes. Text without NUL bytes is treated as delimited.
func DetectFormat(filename string, data []byte) Format {
	if ext := filepath.Ext(filename); ext != "" {
		if f, err := ParseFormat(ext); err == nil && f != FormatUnknown {
			return f
		}
	}

	head := bytes.TrimLeft(data, " \t\r\n")
	switch {
	case bytes.HasPrefix(head, pdfMagic):
		return FormatPDF
	case bytes.HasPrefix(data, zipMagic):
		return FormatExcel
	case len(head) > 0 && bytes.IndexByte(head[:min(len(head), 4096)], 0) < 0:
		return FormatDelimited
	}
	return FormatUnknown
}
