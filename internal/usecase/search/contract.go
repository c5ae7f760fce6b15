package search

import (
	"context"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/shopsearch/internal/domain/shop"
	"github.com/kailas-cloud/shopsearch/internal/repository/analytics"
	"github.com/kailas-cloud/shopsearch/internal/repository/searchcache"
	"github.com/kailas-cloud/shopsearch/internal/usecase/ranking"
)

// Retriever defines the storage contract for both retrieval sources.
type Retriever interface {
	VectorSearch(
		ctx context.Context, shopID string,
		vector []float32, filters filter.Set,
		matchThreshold float64, k int,
	) ([]product.Candidate, error)

	KeywordSearch(
		ctx context.Context, shopID, query string,
		filters filter.Set, k int,
	) ([]product.Candidate, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Ranker orders a candidate list. Total: never fails.
type Ranker interface {
	Rank(
		ctx context.Context, query, intent string,
		filters filter.Set, candidates []product.Candidate,
	) ranking.Outcome
}

// ResultCache wraps the hybrid pipeline's first page. Every method is
// fail-open; a broken cache looks like a miss.
type ResultCache interface {
	Get(ctx context.Context, query, shopID string, filters filter.Set) (*searchcache.CachedResult, bool)
	Set(ctx context.Context, query, shopID string, filters filter.Set, result searchcache.CachedResult)
	TrackQuery(ctx context.Context, query, shopID string)
}

// SettingsReader resolves per-shop search settings. Never fails; absent
// settings come back as defaults.
type SettingsReader interface {
	Settings(ctx context.Context, shopID string) shop.Settings
}

// AnalyticsSink records completed searches best-effort.
type AnalyticsSink interface {
	LogSearch(ev analytics.Event)
}
