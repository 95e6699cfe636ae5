package categorization

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocuments() []SearchDocument {
	return []SearchDocument{
		{ID: "t1", Date: "2024-01-03", Name: "STARBUCKS STORE 1234", MerchantName: "Starbucks", Category: CategoryFoodAndDrink, Amount: -5.75, Source: "jan.csv"},
		{ID: "t2", Date: "2024-01-04", Name: "AMAZON MKTPLACE PMTS", MerchantName: "Amazon Mktplace Pmts", Category: CategoryShopping, Amount: -42.10, Source: "jan.csv"},
		{ID: "t3", Date: "2024-01-05", Name: "NETFLIX.COM", MerchantName: "Netflix.com", Category: CategoryEntertainment, Amount: -15.49, Source: "jan.csv"},
		{ID: "t4", Date: "2024-01-06", Name: "AIRPORT COFFEE STAND", MerchantName: "Airport Coffee Stand", Category: CategoryFoodAndDrink, Amount: -4.00, Source: "jan.pdf"},
		{ID: "t5", Date: "2024-01-15", Name: "ACME CORP PAYROLL", MerchantName: "Acme Corp Payroll", Category: CategoryIncome, Amount: 2500.00, Source: "jan.pdf"},
	}
}

func TestSearchIndex_InMemory(t *testing.T) {
	index, err := NewSearchIndex("")
	require.NoError(t, err)
	defer index.Close()

	require.NoError(t, index.IndexTransactions(sampleDocuments()))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), count)

	t.Run("basic search", func(t *testing.T) {
		results, err := index.Search("starbucks", 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "t1", results[0].Document.ID)
		assert.Equal(t, "Starbucks", results[0].Document.MerchantName)
		assert.Equal(t, -5.75, results[0].Document.Amount)
	})

	t.Run("search tolerates a typo", func(t *testing.T) {
		results, err := index.Search("amazn", 10)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(results), 1)
		assert.Equal(t, "t2", results[0].Document.ID)
	})

	t.Run("prefix search", func(t *testing.T) {
		results, err := index.SearchWithPrefix("netf", 10)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(results), 1)
		assert.Equal(t, "t3", results[0].Document.ID)
	})

	t.Run("search by category", func(t *testing.T) {
		results, err := index.SearchByCategory(CategoryFoodAndDrink, 10)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("amount range", func(t *testing.T) {
		results, err := index.SearchAmountRange(0, 10000, 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "t5", results[0].Document.ID)
	})

	t.Run("advanced boolean search", func(t *testing.T) {
		results, err := index.SearchAdvanced("coffee -airport", 10)
		require.NoError(t, err)
		for _, r := range results {
			assert.NotContains(t, r.Document.Name, "AIRPORT")
		}
	})
}

func TestSearchIndex_Reindex(t *testing.T) {
	index, err := NewSearchIndex("")
	require.NoError(t, err)
	defer index.Close()

	doc := SearchDocument{ID: "dup", Name: "TEST", MerchantName: "Test"}
	require.NoError(t, index.IndexTransactions([]SearchDocument{doc}))
	require.NoError(t, index.IndexTransactions([]SearchDocument{doc}))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchIndex_Persistent(t *testing.T) {
	path := t.TempDir() + "/idx/transactions.bleve"

	index, err := NewSearchIndex(path)
	require.NoError(t, err)
	require.NoError(t, index.IndexTransactions(sampleDocuments()[:2]))
	require.NoError(t, index.Close())

	reopened, err := NewSearchIndex(path)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func BenchmarkSearch(b *testing.B) {
	index, _ := NewSearchIndex("")
	defer index.Close()

	docs := make([]SearchDocument, 1000)
	for i := range docs {
		docs[i] = SearchDocument{
			ID:           fmt.Sprintf("t%d", i),
			Name:         fmt.Sprintf("MERCHANT_%d", i),
			MerchantName: fmt.Sprintf("Merchant %d", i),
		}
	}
	docs[500] = SearchDocument{ID: "t500", Name: "STARBUCKS", MerchantName: "Starbucks"}
	_ = index.IndexTransactions(docs)

	b.ResetTimer()

	b.Run("BasicSearch", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = index.Search("starbucks", 10)
		}
	})

	b.Run("PrefixSearch", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = index.SearchWithPrefix("star", 10)
		}
	})
}
