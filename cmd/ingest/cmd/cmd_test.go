package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/export"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/layout/layouttest"
	"github.com/FACorreiaa/statement-ingest/pkg/config"
)

const checkingCSV = "Date,Description,Amount\n" +
	"01/02/2024,Starbucks,-4.50\n" +
	"01/03/2024,ACME Payroll,2000.00\n" +
	"01/04/2024,Sunrise Property Management Rent,-1500.00\n"

// run executes the CLI in an empty working directory and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestParseCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "checking.csv", []byte(checkingCSV))
	pdfPath := writeFile(t, dir, "card.pdf", layouttest.PDF(layouttest.Lines("1/02/2024", "Amazon.com", "Purchase", "-$54.32")))

	stdout, stderr, err := run(t, "parse", csvPath, pdfPath)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var docs []export.Document
	require.NoError(t, json.Unmarshal([]byte(stdout), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "checking.csv", docs[0].Source)
	assert.Len(t, docs[0].Transactions, 3)
	assert.Equal(t, "card.pdf", docs[1].Source)
	require.Len(t, docs[1].Transactions, 1)
	assert.Equal(t, json.Number("-54.32"), docs[1].Transactions[0].Amount)
}

func TestParseCommand_CSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "checking.csv", []byte(checkingCSV))

	stdout, _, err := run(t, "parse", "--output", "csv", "--classify", csvPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,name,merchant_name,amount,category,classification", lines[0])
	assert.True(t, strings.HasSuffix(lines[3], ",essential"))
}

func TestParseCommand_WarningsGoToStderr(t *testing.T) {
	dir := t.TempDir()
	pdfPath := writeFile(t, dir, "broken.pdf", []byte("%PDF-1.4\nnothing here"))

	stdout, stderr, err := run(t, "parse", pdfPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, "broken.pdf: ")
	assert.Contains(t, stdout, `"transactions": []`)
}

func TestParseCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "checking.csv", []byte(checkingCSV))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no files", []string{"parse"}, "requires at least 1 arg"},
		{"unknown output", []string{"parse", "--output", "xml", csvPath}, "unknown output format"},
		{"unknown input format", []string{"parse", "--format", "ofx", csvPath}, "unsupported statement format"},
		{"missing file", []string{"parse", filepath.Join(dir, "nope.csv")}, "cannot access"},
		{"directory", []string{"parse", dir}, "is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSearchCommand(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "checking.csv", []byte(checkingCSV))

	t.Run("typo tolerant text match", func(t *testing.T) {
		stdout, _, err := run(t, "search", "starbuks", csvPath)
		require.NoError(t, err)
		assert.Contains(t, stdout, "DATE")
		assert.Contains(t, stdout, "Starbucks")
		assert.Contains(t, stdout, "-4.50")
		assert.NotContains(t, stdout, "Payroll")
	})

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name:    "category",
			args:    []string{"search", "--mode", "category", "Income", csvPath},
			want:    []string{"2000.00", "1 of 3 transactions matched"},
			notWant: []string{"Starbucks"},
		},
		{
			name:    "prefix",
			args:    []string{"search", "--mode", "prefix", "STAR", csvPath},
			want:    []string{"Starbucks"},
			notWant: []string{"Payroll", "Sunrise"},
		},
		{
			name:    "advanced query string",
			args:    []string{"search", "-m", "advanced", "payroll -starbucks", csvPath},
			want:    []string{"2000.00"},
			notWant: []string{"Starbucks"},
		},
		{
			name:    "amount range",
			args:    []string{"search", "--mode", "amount", "--", "-100..0", csvPath},
			want:    []string{"-4.50", "1 of 3 transactions matched"},
			notWant: []string{"2000.00", "-1500.00"},
		},
		{
			name:    "open ended amount range",
			args:    []string{"search", "--mode", "amount", "1000..", csvPath},
			want:    []string{"2000.00"},
			notWant: []string{"-4.50"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := run(t, tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, stdout, w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, stdout, nw)
			}
		})
	}
}

func TestSearchCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "checking.csv", []byte(checkingCSV))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown mode", []string{"search", "--mode", "regex", "x", csvPath}, "unknown search mode"},
		{"range without separator", []string{"search", "--mode", "amount", "100", csvPath}, "want MIN..MAX"},
		{"range bound not a number", []string{"search", "--mode", "amount", "abc..10", csvPath}, "invalid amount range"},
		{"range reversed", []string{"search", "--mode", "amount", "50..10", csvPath}, "min is above max"},
		{"missing file", []string{"search", "starbucks"}, "requires at least 2 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSummaryCommand(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "checking.csv", []byte(checkingCSV))

	t.Run("text", func(t *testing.T) {
		stdout, _, err := run(t, "summary", csvPath)
		require.NoError(t, err)
		assert.Contains(t, stdout, "$2,000.00")
		assert.Contains(t, stdout, "$1,504.50")
		assert.Contains(t, stdout, "2024-01-02 to 2024-01-04")
		assert.Contains(t, stdout, "Bills & Utilities")
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := run(t, "summary", "--json", "--currency", "eur", csvPath)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
		assert.Equal(t, 3.0, decoded["transactions"])
		spend := decoded["spend"].(map[string]any)
		assert.Equal(t, "1504.50", spend["amount"])
		assert.Equal(t, "EUR", spend["currency"])
	})
}

func TestWatchCommand_Once(t *testing.T) {
	root := t.TempDir()
	inboxDir := filepath.Join(root, "inbox")
	require.NoError(t, os.MkdirAll(inboxDir, 0o755))
	writeFile(t, inboxDir, "checking.csv", []byte(checkingCSV))
	archiveDir := filepath.Join(root, "archive")

	_, _, err := run(t, "watch", "--once", "--archive", archiveDir, inboxDir)
	require.NoError(t, err)

	results, err := filepath.Glob(filepath.Join(inboxDir, "results", "checking.*.json"))
	require.NoError(t, err)
	assert.Len(t, results, 1)

	meta, err := filepath.Glob(filepath.Join(archiveDir, ".meta", "*.json"))
	require.NoError(t, err)
	assert.Len(t, meta, 1)

	t.Run("invalid schedule", func(t *testing.T) {
		_, _, err := run(t, "watch", "--archive", archiveDir, "--schedule", "whenever", inboxDir)
		assert.ErrorContains(t, err, "invalid schedule")
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	logger.Debug("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	logger = NewLogger(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}
