// Package dedupe collapses rows that segmentation emitted more than once.
package dedupe

import (
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/transaction"
)

// Dedupe keeps the first transaction for each (date, amount, merchant) key
// and preserves the order of the survivors. Amounts compare by value, so
// "4.5" and "4.50" collide.
func Dedupe(txs []transaction.Transaction) []transaction.Transaction {
	if len(txs) == 0 {
		return txs
	}

	seen := make(map[string]struct{}, len(txs))
	out := make([]transaction.Transaction, 0, len(txs))
	for _, tx := range txs {
		key := tx.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tx)
	}
	return out
}

