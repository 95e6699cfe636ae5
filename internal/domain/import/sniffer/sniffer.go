// Package sniffer detects statement file formats and the layout of delimited
// exports: delimiter, header row, column roles and a header fingerprint.
package sniffer

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode"
)

// Words that show up in statement header rows but rarely in preamble lines.
var headerKeywords = []string{
	"date", "description", "amount", "debit", "credit", "balance", "category", "merchant",
	"memo", "payee", "details", "withdrawal", "deposit", "reference",
}

var (
	ErrEmptyFile      = errors.New("file is empty")
	ErrNoHeadersFound = errors.New("could not find data headers")
)

// maxHeaderSearch bounds how far into the file the header row may appear.
const maxHeaderSearch = 20

// FileConfig holds the detected configuration for a delimited file
type FileConfig struct {
	Delimiter   rune       // The field delimiter (',', ';', '\t', '|')
	SkipLines   int        // Number of metadata lines before headers
	Headers     []string   // Detected header names
	Fingerprint string     // SHA256 hash of normalized headers
	SampleRows  [][]string // First few data rows for preview
}

// DetectConfig analyzes a delimited file and returns its configuration
func DetectConfig(data []byte) (*FileConfig, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	lines := strings.Split(string(data), "\n")

	delimiter, skipLines, err := findHeaderRow(lines)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(cleanLine(lines[skipLines], skipLines == 0)))
	reader.Comma = delimiter
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	return &FileConfig{
		Delimiter:   delimiter,
		SkipLines:   skipLines,
		Headers:     headers,
		Fingerprint: generateFingerprint(headers),
		SampleRows:  getSampleRows(data, delimiter, skipLines+1, 5),
	}, nil
}

// Tokens that only appear in data rows: slash or dash dates, and amounts with cents.
var (
	dataDatePattern   = regexp.MustCompile(`\b\d{1,4}[/.-]\d{1,2}[/.-]\d{1,4}\b`)
	dataAmountPattern = regexp.MustCompile(`\d\.\d{2}\b`)
)

// findHeaderRow locates the header row and its delimiter. The earliest line
// with at least two header keywords and no date or amount token wins. A line
// carrying data tokens is never taken as the header while a cleaner line exists.
func findHeaderRow(lines []string) (rune, int, error) {
	weakIndex, weakDelimiter := -1, rune(0)
	fallbackIndex, fallbackDelimiter, fallbackCount := -1, rune(0), 0

	for i, line := range lines {
		if i >= maxHeaderSearch {
			break
		}

		line = cleanLine(line, i == 0)
		if line == "" {
			continue
		}

		delimiter, count := detectDelimiter(line)
		if count < 2 || looksLikeData(line) {
			continue
		}

		switch matches := keywordMatches(line); {
		case matches >= 2:
			return delimiter, i, nil
		case matches == 1 && weakIndex == -1:
			weakIndex, weakDelimiter = i, delimiter
		case matches == 0 && count > fallbackCount:
			fallbackIndex, fallbackDelimiter, fallbackCount = i, delimiter, count
		}
	}

	if weakIndex >= 0 {
		return weakDelimiter, weakIndex, nil
	}
	if fallbackIndex >= 0 {
		return fallbackDelimiter, fallbackIndex, nil
	}
	return 0, 0, ErrNoHeadersFound
}

func keywordMatches(line string) int {
	lineLower := strings.ToLower(line)
	matches := 0
	for _, kw := range headerKeywords {
		if strings.Contains(lineLower, kw) {
			matches++
		}
	}
	return matches
}

func looksLikeData(line string) bool {
	return dataDatePattern.MatchString(line) || dataAmountPattern.MatchString(line)
}

func cleanLine(line string, firstLine bool) string {
	line = strings.TrimRight(line, "\r")
	if firstLine {
		line = strings.TrimPrefix(line, "\uFEFF")
	}
	return strings.TrimSpace(line)
}

// detectDelimiter picks the candidate that occurs most often in line.
func detectDelimiter(line string) (rune, int) {
	delimiters := []rune{',', ';', '\t', '|'}
	bestDelimiter := rune(0)
	bestCount := 0
	for _, d := range delimiters {
		count := strings.Count(line, string(d))
		if count > bestCount {
			bestCount = count
			bestDelimiter = d
		}
	}
	return bestDelimiter, bestCount
}

// generateFingerprint creates a stable hash from header names, so two exports
// from the same bank hash the same regardless of spacing or case.
func generateFingerprint(headers []string) string {
	var normalized []string
	for _, h := range headers {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, h)
		if clean != "" {
			normalized = append(normalized, clean)
		}
	}

	hash := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(hash[:])
}

// getSampleRows returns the first N data rows after the header
func getSampleRows(data []byte, delimiter rune, startLine, maxRows int) [][]string {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	lineNum := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		if lineNum >= startLine {
			rows = append(rows, record)
			if len(rows) >= maxRows {
				break
			}
		}
		lineNum++
	}

	return rows
}

// ContentHash returns the hex SHA-256 of a raw statement, used by callers to
// refuse importing the same file twice.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
