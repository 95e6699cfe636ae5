package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	importservice "github.com/FACorreiaa/statement-ingest/internal/domain/import/service"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/sniffer"
)

// readStatements loads every path. A non-empty format overrides detection.
func readStatements(paths []string, format string) ([]importservice.RawStatement, error) {
	declared, err := sniffer.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	stmts := make([]importservice.RawStatement, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		stmts = append(stmts, importservice.RawStatement{
			Data:     data,
			Format:   declared,
			Filename: filepath.Base(path),
		})
	}
	return stmts, nil
}

// printWarnings writes one line per warning, prefixed with the file name.
func printWarnings(w io.Writer, items []importservice.BatchItem) {
	for _, item := range items {
		for _, msg := range item.Result.Errors {
			fmt.Fprintf(w, "%s: %s\n", item.Filename, msg)
		}
	}
}
