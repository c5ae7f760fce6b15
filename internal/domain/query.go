package domain

import (
	"context"

	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
)

// Query intents produced by query understanding.
const (
	IntentProductSearch  = "product_search"
	IntentRecommendation = "recommendation"
)

// ParsedQuery is the output of natural-language query understanding.
type ParsedQuery struct {
	ExpandedQuery string
	Filters       filter.Set
	Intent        string
	Confidence    float64
}

// FallbackParse degrades a failed parse to the raw query with no filters.
func FallbackParse(raw string) ParsedQuery {
	return ParsedQuery{
		ExpandedQuery: raw,
		Intent:        IntentProductSearch,
		Confidence:    0.3,
	}
}

// QueryParser turns free-form shopper text into a structured query.
type QueryParser interface {
	Parse(ctx context.Context, text string) (ParsedQuery, error)
}
