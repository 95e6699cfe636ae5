package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	importservice "github.com/FACorreiaa/statement-ingest/internal/domain/import/service"
)

type summaryOptions struct {
	format   string
	currency string
	json     bool
}

func newSummaryCommand(a *app) *cobra.Command {
	opts := &summaryOptions{}

	c := &cobra.Command{
		Use:   "summary FILE...",
		Short: "Print income, spend and essential/flex totals",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSummary(cmd, args, opts)
		},
	}

	c.Flags().StringVarP(&opts.format, "format", "f", "", "input format: csv, pdf or xlsx (default: detect)")
	c.Flags().StringVar(&opts.currency, "currency", "", "ISO currency of the statements (default: DEFAULT_CURRENCY)")
	c.Flags().BoolVar(&opts.json, "json", false, "print the summary as JSON")
	return c
}

func (a *app) runSummary(cmd *cobra.Command, paths []string, opts *summaryOptions) error {
	stmts, err := readStatements(paths, opts.format)
	if err != nil {
		return err
	}

	items := a.deps.ImportService.IngestBatch(cmd.Context(), stmts)
	printWarnings(cmd.ErrOrStderr(), items)

	var merged importservice.ParseResult
	for _, item := range items {
		merged.Transactions = append(merged.Transactions, item.Result.Transactions...)
		merged.Errors = append(merged.Errors, item.Result.Errors...)
	}

	currency := strings.ToUpper(opts.currency)
	if currency == "" {
		currency = a.deps.Config.Ingest.DefaultCurrency
	}
	summary := importservice.Summarize(merged, currency)

	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Transactions\t%d\n", summary.Transactions)
	if summary.Transactions > 0 {
		fmt.Fprintf(w, "Period\t%s to %s\n", summary.From, summary.To)
	}
	fmt.Fprintf(w, "Income\t%s\n", summary.Income.Display())
	fmt.Fprintf(w, "Spend\t%s\n", summary.Spend.Display())
	fmt.Fprintf(w, "Net\t%s\n", summary.Net.Display())
	fmt.Fprintf(w, "Essential\t%s (%s%%)\n", summary.Essential.Display(), summary.EssentialShare().StringFixed(1))
	fmt.Fprintf(w, "Flex\t%s\n", summary.Flex.Display())
	if len(summary.Categories) > 0 {
		fmt.Fprintln(w, "\nCATEGORY\tSPEND\tCOUNT")
		for _, c := range summary.Categories {
			fmt.Fprintf(w, "%s\t%s\t%d\n", c.Category, c.Spend.Display(), c.Count)
		}
	}
	return w.Flush()
}
