package categorization

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchDocument is one ingested transaction as stored in the index.
type SearchDocument struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"` // YYYY-MM-DD
	Name         string  `json:"name"`
	MerchantName string  `json:"merchant_name"`
	Category     string  `json:"category"`
	Amount       float64 `json:"amount"`
	Source       string  `json:"source"` // Statement the row came from
}

// SearchResult represents a search hit with relevance score
type SearchResult struct {
	Document SearchDocument
	Score    float64
}

// SearchIndex provides full-text search over ingested transactions using
// Bleve. Queries tolerate typos in merchant names.
type SearchIndex struct {
	index   bleve.Index
	indexMu sync.RWMutex
	path    string // Path to index storage (empty for in-memory)
}

// NewSearchIndex creates a new search index.
// If path is empty, creates an in-memory index.
// If path is provided, creates/opens a persistent index.
func NewSearchIndex(path string) (*SearchIndex, error) {
	si := &SearchIndex{path: path}

	var index bleve.Index
	var err error

	indexMapping := buildIndexMapping()

	if path == "" {
		index, err = bleve.NewMemOnly(indexMapping)
	} else {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			if mkdirErr := os.MkdirAll(filepath.Dir(path), 0o755); mkdirErr != nil {
				return nil, fmt.Errorf("failed to create index directory: %w", mkdirErr)
			}
			index, err = bleve.New(path, indexMapping)
		} else {
			index, err = bleve.Open(path)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create/open index: %w", err)
	}

	si.index = index
	return si, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = simple.Name

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = keyword.Name

	numericFieldMapping := bleve.NewNumericFieldMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("name", textFieldMapping)
	docMapping.AddFieldMappingsAt("merchant_name", textFieldMapping)
	docMapping.AddFieldMappingsAt("category", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("date", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("source", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("amount", numericFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = simple.Name

	return indexMapping
}

// IndexTransactions adds or replaces documents in a single batch.
func (si *SearchIndex) IndexTransactions(docs []SearchDocument) error {
	si.indexMu.Lock()
	defer si.indexMu.Unlock()

	batch := si.index.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("failed to index transaction %s: %w", doc.ID, err)
		}
	}

	if err := si.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to execute batch index: %w", err)
	}
	return nil
}

// Search matches text against name and merchant with one edit of typo tolerance.
func (si *SearchIndex) Search(text string, limit int) ([]SearchResult, error) {
	matchQuery := bleve.NewMatchQuery(text)
	matchQuery.SetFuzziness(1)
	return si.run(matchQuery, limit, "search")
}

// SearchWithPrefix performs a prefix search (autocomplete style)
func (si *SearchIndex) SearchWithPrefix(prefix string, limit int) ([]SearchResult, error) {
	return si.run(bleve.NewPrefixQuery(prefix), limit, "prefix search")
}

// SearchAdvanced runs a query string such as "+starbucks -airport".
func (si *SearchIndex) SearchAdvanced(queryString string, limit int) ([]SearchResult, error) {
	return si.run(bleve.NewQueryStringQuery(queryString), limit, "advanced search")
}

// SearchByCategory finds every transaction tagged with category.
func (si *SearchIndex) SearchByCategory(category string, limit int) ([]SearchResult, error) {
	termQuery := bleve.NewTermQuery(category)
	termQuery.SetField("category")
	return si.run(termQuery, limit, "category search")
}

// SearchAmountRange finds transactions with min <= amount < max.
func (si *SearchIndex) SearchAmountRange(minAmount, maxAmount float64, limit int) ([]SearchResult, error) {
	inclusive := true
	exclusive := false
	rangeQuery := bleve.NewNumericRangeInclusiveQuery(&minAmount, &maxAmount, &inclusive, &exclusive)
	rangeQuery.SetField("amount")
	return si.run(rangeQuery, limit, "amount search")
}

func (si *SearchIndex) run(q query.Query, limit int, what string) ([]SearchResult, error) {
	si.indexMu.RLock()
	defer si.indexMu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	searchRequest := bleve.NewSearchRequest(q)
	searchRequest.Size = limit
	searchRequest.Fields = []string{"*"}

	searchResults, err := si.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", what, err)
	}
	return convertResults(searchResults), nil
}

func convertResults(searchResults *bleve.SearchResult) []SearchResult {
	results := make([]SearchResult, 0, len(searchResults.Hits))

	for _, hit := range searchResults.Hits {
		doc := SearchDocument{ID: hit.ID}

		if v, ok := hit.Fields["date"].(string); ok {
			doc.Date = v
		}
		if v, ok := hit.Fields["name"].(string); ok {
			doc.Name = v
		}
		if v, ok := hit.Fields["merchant_name"].(string); ok {
			doc.MerchantName = v
		}
		if v, ok := hit.Fields["category"].(string); ok {
			doc.Category = v
		}
		if v, ok := hit.Fields["amount"].(float64); ok {
			doc.Amount = v
		}
		if v, ok := hit.Fields["source"].(string); ok {
			doc.Source = v
		}

		results = append(results, SearchResult{Document: doc, Score: hit.Score})
	}

	return results
}

// Close closes the index
func (si *SearchIndex) Close() error {
	si.indexMu.Lock()
	defer si.indexMu.Unlock()

	if si.index != nil {
		return si.index.Close()
	}
	return nil
}

// DocumentCount returns the number of documents in the index
func (si *SearchIndex) DocumentCount() (uint64, error) {
	si.indexMu.RLock()
	defer si.indexMu.RUnlock()

	return si.index.DocCount()
}
