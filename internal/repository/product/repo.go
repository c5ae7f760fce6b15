// Package product implements the retrieval adapters over the FT product
// index: vector similarity and keyword search, FilterSet translation, and
// store-row to Candidate mapping. No fallback logic lives here; a failure
// surfaces as an error and the orchestrator decides what to do.
package product

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/db"
	"github.com/kailas-cloud/shopsearch/internal/domain"
	domprod "github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
)

// placeholderSimilarity is assigned when the store omits the vector score
// for a row. Per-row only; the normal path reports genuine similarity.
const placeholderSimilarity = 0.5

// store is the consumer interface for retrieval (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo implements the VectorRetriever and KeywordRetriever contracts.
type Repo struct {
	store store
}

// New creates a product retrieval repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

func indexName(shopID string) string {
	return fmt.Sprintf("%sproducts:%s:idx", domain.KeyPrefix, shopID)
}

// VectorSearch runs KNN retrieval. Entries below matchThreshold are dropped.
// SimilarityScore is the store-reported similarity in [0,1].
func (r *Repo) VectorSearch(
	ctx context.Context, shopID string,
	vector []float32, filters filter.Set,
	matchThreshold float64, k int,
) ([]domprod.Candidate, error) {
	q := &db.KNNQuery{
		IndexName:    indexName(shopID),
		Predicate:    buildPredicate(filters),
		Vector:       vector,
		K:            k,
		ReturnFields: candidateFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("vector search %s: %w", shopID, err)
	}

	candidates := make([]domprod.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		c, err := entryToCandidate(entry)
		if err != nil {
			continue
		}
		if entry.Score < 0 {
			c.SimilarityScore = placeholderSimilarity
		} else {
			c.SimilarityScore = entry.Score
		}
		if c.SimilarityScore < matchThreshold {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// KeywordSearch runs full-text retrieval and scores each hit with the
// deterministic keyword heuristic, descending.
func (r *Repo) KeywordSearch(
	ctx context.Context, shopID, query string,
	filters filter.Set, k int,
) ([]domprod.Candidate, error) {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	q := &db.TextQuery{
		IndexName:    indexName(shopID),
		Predicate:    buildTextPredicate(filters, terms),
		Limit:        k,
		ReturnFields: candidateFields,
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("keyword search %s: %w", shopID, err)
	}

	candidates := make([]domprod.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		c, err := entryToCandidate(entry)
		if err != nil {
			continue
		}
		c.SimilarityScore = keywordScore(query, &c)
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].SimilarityScore > candidates[j].SimilarityScore
	})
	return candidates, nil
}

// queryTerms splits a query into lowercase terms.
func queryTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}
