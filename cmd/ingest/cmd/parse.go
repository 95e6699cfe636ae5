package cmd

import (
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/export"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/transaction"
)

type parseOptions struct {
	format   string
	output   string
	classify bool
}

func newParseCommand(a *app) *cobra.Command {
	opts := &parseOptions{}

	c := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Parse statements and print their transactions",
		Long: `Parse reads each statement, prints the normalized transactions to stdout
and every warning to stderr.

JSON output holds one document per file with its warnings. CSV output
concatenates the transactions of all files under a single header.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd, args, opts)
		},
	}

	c.Flags().StringVarP(&opts.format, "format", "f", "", "input format: csv, pdf or xlsx (default: detect)")
	c.Flags().StringVarP(&opts.output, "output", "o", "json", "output format: json or csv")
	c.Flags().BoolVar(&opts.classify, "classify", false, "add the essential/flex label to expenses")
	return c
}

func (a *app) runParse(cmd *cobra.Command, paths []string, opts *parseOptions) error {
	output, err := export.ParseOutput(opts.output)
	if err != nil {
		return err
	}
	stmts, err := readStatements(paths, opts.format)
	if err != nil {
		return err
	}

	items := a.deps.ImportService.IngestBatch(cmd.Context(), stmts)
	printWarnings(cmd.ErrOrStderr(), items)

	exportOpts := export.Options{Classify: opts.classify}
	if output == export.OutputCSV {
		var all []transaction.Transaction
		for _, item := range items {
			all = append(all, item.Result.Transactions...)
		}
		return export.WriteCSV(cmd.OutOrStdout(), all, exportOpts)
	}

	docs := make([]export.Document, 0, len(items))
	for _, item := range items {
		docs = append(docs, export.NewDocument(item.Filename, item.Result.Transactions, item.Result.Errors, exportOpts))
	}
	return export.WriteJSON(cmd.OutOrStdout(), docs...)
}
