// Package cmd implements the ingest command line.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/statement-ingest/pkg/config"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// app carries state shared by every subcommand once the root has run.
type app struct {
	verbose bool
	deps    *Dependencies
}

// NewRootCommand builds the ingest command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ingest",
		Short: "Bank and credit card statement ingestion",
		Long: `Ingest turns CSV, Excel and text-layer PDF statements into normalized,
categorized transactions.

Examples:
  ingest parse checking.csv card.pdf
  ingest parse statement.pdf --output csv --classify
  ingest search starbucks jan.csv feb.csv
  ingest summary jan.csv --currency EUR
  ingest watch ./inbox --schedule "@every 5m"`,
		Version:           getVersionString(),
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newParseCommand(a),
		newSearchCommand(a),
		newSummaryCommand(a),
		newWatchCommand(a),
	)
	return root
}

// Execute runs the root command. It is called by main.main().
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}

	deps, err := InitDependencies(cfg, NewLogger(cfg.Log, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	a.deps = deps
	return nil
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	}
	return version
}
