package cmd

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/statement-ingest/internal/domain/categorization"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/normalizer"
	importservice "github.com/FACorreiaa/statement-ingest/internal/domain/import/service"
)

// Search modes, selecting how QUERY is read.
const (
	searchMatch    = "match"
	searchPrefix   = "prefix"
	searchAdvanced = "advanced"
	searchCategory = "category"
	searchAmount   = "amount"
)

type searchOptions struct {
	format string
	mode   string
	limit  int
}

func newSearchCommand(a *app) *cobra.Command {
	opts := &searchOptions{}

	c := &cobra.Command{
		Use:   "search QUERY FILE...",
		Short: "Search transactions across statements",
		Long: `Search ingests the statements into an in-memory index and prints the
transactions matching QUERY. How QUERY is read depends on --mode:

  match     words in the name or merchant, one typo per term tolerated
  prefix    merchant or name prefix, e.g. "netf"
  advanced  query string with +required and -excluded terms
  category  exact category label, e.g. "Food & Drink"
  amount    amount range MIN..MAX, MIN inclusive; either side may be empty`,
		Example: `  ingest search starbuks jan.csv
  ingest search --mode amount -- -100..0 jan.csv
  ingest search --mode advanced "coffee -airport" jan.csv`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd, args[0], args[1:], opts)
		},
	}

	c.Flags().StringVarP(&opts.format, "format", "f", "", "input format: csv, pdf or xlsx (default: detect)")
	c.Flags().StringVarP(&opts.mode, "mode", "m", searchMatch, "query mode: match, prefix, advanced, category or amount")
	c.Flags().IntVarP(&opts.limit, "limit", "n", 20, "maximum number of results")
	return c
}

func (a *app) runSearch(cmd *cobra.Command, query string, paths []string, opts *searchOptions) error {
	search, err := searchFunc(opts.mode, query)
	if err != nil {
		return err
	}
	stmts, err := readStatements(paths, opts.format)
	if err != nil {
		return err
	}

	items := a.deps.ImportService.IngestBatch(cmd.Context(), stmts)
	printWarnings(cmd.ErrOrStderr(), items)

	index, err := categorization.NewSearchIndex("")
	if err != nil {
		return err
	}
	defer index.Close()

	if err := index.IndexTransactions(searchDocuments(items)); err != nil {
		return err
	}
	indexed, err := index.DocumentCount()
	if err != nil {
		return err
	}

	results, err := search(index, opts.limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tAMOUNT\tMERCHANT\tCATEGORY\tSOURCE")
	for _, r := range results {
		d := r.Document
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\t%s\n", d.Date, d.Amount, d.MerchantName, d.Category, d.Source)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d transactions matched\n", len(results), indexed)
	return nil
}

type searchQuery func(index *categorization.SearchIndex, limit int) ([]categorization.SearchResult, error)

// searchFunc validates query for mode and returns the index call to run.
func searchFunc(mode, query string) (searchQuery, error) {
	switch strings.ToLower(mode) {
	case searchMatch:
		return func(idx *categorization.SearchIndex, limit int) ([]categorization.SearchResult, error) {
			return idx.Search(query, limit)
		}, nil
	case searchPrefix:
		prefix := strings.ToLower(query)
		return func(idx *categorization.SearchIndex, limit int) ([]categorization.SearchResult, error) {
			return idx.SearchWithPrefix(prefix, limit)
		}, nil
	case searchAdvanced:
		return func(idx *categorization.SearchIndex, limit int) ([]categorization.SearchResult, error) {
			return idx.SearchAdvanced(query, limit)
		}, nil
	case searchCategory:
		return func(idx *categorization.SearchIndex, limit int) ([]categorization.SearchResult, error) {
			return idx.SearchByCategory(query, limit)
		}, nil
	case searchAmount:
		minAmount, maxAmount, err := parseAmountRange(query)
		if err != nil {
			return nil, err
		}
		return func(idx *categorization.SearchIndex, limit int) ([]categorization.SearchResult, error) {
			return idx.SearchAmountRange(minAmount, maxAmount, limit)
		}, nil
	default:
		return nil, fmt.Errorf("unknown search mode %q (want match, prefix, advanced, category or amount)", mode)
	}
}

// parseAmountRange reads "MIN..MAX". A missing bound is open.
func parseAmountRange(s string) (float64, float64, error) {
	lo, hi, ok := strings.Cut(s, "..")
	if !ok {
		return 0, 0, fmt.Errorf("invalid amount range %q (want MIN..MAX)", s)
	}

	bound := func(v string, open float64) (float64, error) {
		v = strings.TrimSpace(v)
		if v == "" {
			return open, nil
		}
		d, err := normalizer.ParseAmount(v)
		if err != nil {
			return 0, fmt.Errorf("invalid amount range %q: %w", s, err)
		}
		f, _ := d.Float64()
		return f, nil
	}

	minAmount, err := bound(lo, -math.MaxFloat64)
	if err != nil {
		return 0, 0, err
	}
	maxAmount, err := bound(hi, math.MaxFloat64)
	if err != nil {
		return 0, 0, err
	}
	if minAmount > maxAmount {
		return 0, 0, fmt.Errorf("invalid amount range %q: min is above max", s)
	}
	return minAmount, maxAmount, nil
}

func searchDocuments(items []importservice.BatchItem) []categorization.SearchDocument {
	var docs []categorization.SearchDocument
	for _, item := range items {
		for i, tx := range item.Result.Transactions {
			amount, _ := tx.Amount.Float64()
			docs = append(docs, categorization.SearchDocument{
				ID:           fmt.Sprintf("%s#%d", item.Filename, i),
				Date:         tx.Date.String(),
				Name:         tx.Name,
				MerchantName: tx.MerchantName,
				Category:     tx.Category,
				Amount:       amount,
				Source:       item.Filename,
			})
		}
	}
	return docs
}
