package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/strategy"
	"github.com/kailas-cloud/shopsearch/internal/domain/shop"
	"github.com/kailas-cloud/shopsearch/internal/repository/analytics"
	"github.com/kailas-cloud/shopsearch/internal/repository/searchcache"
	"github.com/kailas-cloud/shopsearch/internal/usecase/ranking"
)

// --- Mocks ---

type mockRetriever struct {
	mu          sync.Mutex
	vecResults  []product.Candidate
	vecErr      error
	kwResults   []product.Candidate
	kwErr       error
	vecCalls    int
	kwCalls     int
	lastK       int
	lastFilters filter.Set
	lastQuery   string
}

func (m *mockRetriever) VectorSearch(
	_ context.Context, _ string, _ []float32, filters filter.Set, _ float64, k int,
) ([]product.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vecCalls++
	m.lastK = k
	m.lastFilters = filters
	return m.vecResults, m.vecErr
}

func (m *mockRetriever) KeywordSearch(
	_ context.Context, _ string, query string, filters filter.Set, k int,
) ([]product.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kwCalls++
	m.lastK = k
	m.lastQuery = query
	m.lastFilters = filters
	return m.kwResults, m.kwErr
}

type mockEmbedder struct {
	mu    sync.Mutex
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

// passRanker keeps the incoming order and reports a fixed model.
type passRanker struct {
	mu    sync.Mutex
	model string
	calls int
}

func (r *passRanker) Rank(
	_ context.Context, _, _ string, _ filter.Set, candidates []product.Candidate,
) ranking.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	model := r.model
	if model == "" {
		model = ranking.ModelHeuristic
	}
	if len(candidates) == 0 {
		return ranking.Outcome{Products: []product.Candidate{}, ModelUsed: ranking.ModelNone}
	}
	return ranking.Outcome{Products: candidates, ModelUsed: model}
}

type mockCache struct {
	mu       sync.Mutex
	entries  map[string]searchcache.CachedResult
	getCalls int
	setCalls int
	tracked  []string
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string]searchcache.CachedResult{}}
}

func cacheKey(query, shopID string, filters filter.Set) string {
	return shopID + "|" + query + "|" + filters.CanonicalJSON()
}

func (m *mockCache) Get(_ context.Context, query, shopID string, filters filter.Set) (*searchcache.CachedResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if cached, ok := m.entries[cacheKey(query, shopID, filters)]; ok {
		return &cached, true
	}
	return nil, false
}

func (m *mockCache) Set(_ context.Context, query, shopID string, filters filter.Set, res searchcache.CachedResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	m.entries[cacheKey(query, shopID, filters)] = res
}

func (m *mockCache) TrackQuery(_ context.Context, query, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracked = append(m.tracked, query)
}

func (m *mockCache) sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCalls
}

type mockSettings struct {
	settings shop.Settings
}

func (m *mockSettings) Settings(_ context.Context, _ string) shop.Settings {
	return m.settings
}

func hybridSettings() *mockSettings {
	return &mockSettings{settings: shop.Settings{
		DefaultStrategy:  strategy.Hybrid,
		FallbackStrategy: strategy.Keyword,
		CacheEnabled:     true,
		MatchThreshold:   0.35,
	}}
}

type mockParser struct {
	parsed domain.ParsedQuery
	err    error
	calls  int
}

func (m *mockParser) Parse(_ context.Context, _ string) (domain.ParsedQuery, error) {
	m.calls++
	if m.err != nil {
		return domain.ParsedQuery{}, m.err
	}
	return m.parsed, nil
}

type mockSink struct {
	mu     sync.Mutex
	events []analytics.Event
}

func (m *mockSink) LogSearch(ev analytics.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

func (m *mockSink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// --- Fixtures ---

func makeCandidates(n int) []product.Candidate {
	out := make([]product.Candidate, n)
	for i := range out {
		out[i] = product.Candidate{
			ID:               fmt.Sprintf("p%d", i+1),
			ShopifyProductID: fmt.Sprintf("s%d", i+1),
			Title:            fmt.Sprintf("Product %d", i+1),
			Available:        true,
			SimilarityScore:  0.9 - float64(i)*0.1,
		}
	}
	return out
}

func cachedResultOf(cands []product.Candidate) searchcache.CachedResult {
	return searchcache.CachedResult{Products: cands, TotalCount: len(cands)}
}

func ids(cands []product.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.ID
	}
	return out
}
