// Package search is the orchestration entry point: strategy selection,
// retrieval fan-out, RRF fusion, ranking, caching, sorting, pagination and
// the cross-strategy fallback chain. Search is total: whatever fails
// upstream, the caller always gets a result value.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/facet"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/request"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/result"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/strategy"
	"github.com/kailas-cloud/shopsearch/internal/domain/shop"
	"github.com/kailas-cloud/shopsearch/internal/logger"
	"github.com/kailas-cloud/shopsearch/internal/metrics"
	"github.com/kailas-cloud/shopsearch/internal/repository/analytics"
	"github.com/kailas-cloud/shopsearch/internal/repository/searchcache"
)

const (
	defaultOverFetchFactor = 3
	defaultAITimeout       = 5 * time.Second
	cacheWriteTimeout      = 2 * time.Second

	// maxFetchCount bounds the per-source retrieval size. KNN cost grows
	// with K, and pages this deep carry no ranking signal anyway.
	maxFetchCount = 1000
)

// Options tunes fusion and the AI pipeline. Zero values take defaults.
type Options struct {
	VectorWeight    float64
	KeywordWeight   float64
	RRFConstant     int
	OverFetchFactor int
	AITimeout       time.Duration
}

func (o Options) withDefaults() Options {
	if o.VectorWeight <= 0 {
		o.VectorWeight = defaultVectorWeight
	}
	if o.KeywordWeight <= 0 {
		o.KeywordWeight = defaultKeywordWeight
	}
	if o.RRFConstant <= 0 {
		o.RRFConstant = defaultRRFConstant
	}
	if o.OverFetchFactor <= 0 {
		o.OverFetchFactor = defaultOverFetchFactor
	}
	if o.AITimeout <= 0 {
		o.AITimeout = defaultAITimeout
	}
	return o
}

// Service orchestrates one search run per request.
type Service struct {
	retriever Retriever
	embedder  Embedder
	ranker    Ranker
	cache     ResultCache
	shops     SettingsReader
	parser    domain.QueryParser
	sink      AnalyticsSink
	opts      Options
}

// New creates the search orchestrator. parser and sink can be nil; the AI
// pipeline then degrades to hybrid and analytics are skipped.
func New(
	retriever Retriever, embedder Embedder, ranker Ranker,
	cache ResultCache, shops SettingsReader, parser domain.QueryParser,
	sink AnalyticsSink, opts Options,
) *Service {
	return &Service{
		retriever: retriever,
		embedder:  embedder,
		ranker:    ranker,
		cache:     cache,
		shops:     shops,
		parser:    parser,
		sink:      sink,
		opts:      opts.withDefaults(),
	}
}

// pipelineResult is a full ranked candidate list before sorting/pagination.
type pipelineResult struct {
	candidates []product.Candidate
	ranking    *result.RankingInfo
	fromCache  bool
	timings    map[string]int64
}

func (pr *pipelineResult) timed(stage string, start time.Time) {
	if pr.timings == nil {
		pr.timings = make(map[string]int64)
	}
	pr.timings[stage] = time.Since(start).Milliseconds()
}

// Search runs one orchestration. It never returns an error: strategy
// failures go through the one-shot fallback chain, and a double failure
// yields an empty result with an "error-" search id.
func (s *Service) Search(ctx context.Context, req *request.Request) result.Result {
	start := time.Now()
	log := logger.FromContext(ctx)

	settings := s.shops.Settings(ctx, req.ShopID())

	strat := req.Strategy()
	if strat == "" {
		strat = settings.DefaultStrategy
	}
	tried := []string{strat.String()}

	pr, err := s.runStrategy(ctx, req, settings, strat)

	if err != nil && strat != settings.FallbackStrategy {
		log.Warn("Strategy failed, falling back",
			zap.String("shop", req.ShopID()),
			zap.String("from", strat.String()),
			zap.String("to", settings.FallbackStrategy.String()),
			zap.Error(err))
		metrics.SearchFallbacksTotal.
			WithLabelValues(strat.String(), settings.FallbackStrategy.String()).Inc()

		strat = settings.FallbackStrategy
		tried = append(tried, strat.String())
		fbReq := req.WithStrategy(strat).WithoutCache()
		pr, err = s.runStrategy(ctx, &fbReq, settings, strat)
	}

	elapsed := time.Since(start)
	metrics.SearchDuration.WithLabelValues(strat.String()).Observe(elapsed.Seconds())

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(strat.String(), "error").Inc()
		log.Error("Search failed after fallback",
			zap.String("shop", req.ShopID()),
			zap.Strings("strategies", tried),
			zap.Error(err))
		return s.errorResult(req, strat, tried, elapsed, err)
	}

	metrics.SearchRequestsTotal.WithLabelValues(strat.String(), "success").Inc()
	if pr.fromCache {
		log.Debug("Serving cached result", zap.String("shop", req.ShopID()))
	}

	res := s.assemble(req, strat, pr, elapsed)
	if req.Debug() {
		res.Debug = &result.DebugInfo{StrategiesTried: tried, StageTimingsMs: pr.timings}
	}

	if s.sink != nil {
		s.sink.LogSearch(analytics.Event{
			Query:        req.Query(),
			ShopID:       req.ShopID(),
			ResultsCount: res.TotalCount,
			Method:       strat.String(),
			LatencyMs:    elapsed.Milliseconds(),
		})
	}

	return res
}

// assemble turns a full ranked list into the caller-facing page. Facets are
// computed over the whole candidate list, not the returned page, so counts
// reflect the full query match space.
func (s *Service) assemble(
	req *request.Request, strat strategy.Strategy, pr pipelineResult, elapsed time.Duration,
) result.Result {
	facets := facet.Generate(pr.candidates)

	applySort(pr.candidates, req.SortBy())

	total := len(pr.candidates)
	page := paginate(pr.candidates, req.Offset(), req.Limit())

	return result.Result{
		Products:         page,
		TotalCount:       total,
		HasMore:          req.Offset()+req.Limit() < total,
		SearchMethod:     strat.String(),
		ProcessingTimeMs: elapsed.Milliseconds(),
		Ranking:          pr.ranking,
		Facets:           &facets,
		SearchID:         uuid.NewString(),
	}
}

func (s *Service) errorResult(
	req *request.Request, strat strategy.Strategy, tried []string,
	elapsed time.Duration, err error,
) result.Result {
	res := result.Result{
		Products:         []product.Candidate{},
		SearchMethod:     strat.String(),
		ProcessingTimeMs: elapsed.Milliseconds(),
		SearchID:         fmt.Sprintf("error-%d", time.Now().UnixMilli()),
	}
	if req.Debug() {
		res.Debug = &result.DebugInfo{StrategiesTried: tried, Error: err.Error()}
	}
	return res
}

func (s *Service) runStrategy(
	ctx context.Context, req *request.Request, settings shop.Settings, strat strategy.Strategy,
) (pipelineResult, error) {
	switch strat {
	case strategy.Vector:
		return s.runVector(ctx, req, settings)
	case strategy.Keyword:
		return s.runKeyword(ctx, req)
	case strategy.Hybrid:
		return s.runHybrid(ctx, req, settings, req.Query(), req.Filters(), domain.IntentProductSearch)
	case strategy.AI:
		return s.runAI(ctx, req, settings)
	}
	return pipelineResult{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedStrategy, strat)
}

func (s *Service) runVector(
	ctx context.Context, req *request.Request, settings shop.Settings,
) (pipelineResult, error) {
	var pr pipelineResult

	start := time.Now()
	emb, err := s.embedder.Embed(ctx, req.Query())
	if err != nil {
		return pipelineResult{}, fmt.Errorf("vectorize query: %w", err)
	}
	pr.timed("embedding", start)

	start = time.Now()
	candidates, err := s.retriever.VectorSearch(
		ctx, req.ShopID(), emb.Embedding, req.Filters(),
		settings.MatchThreshold, s.fetchCount(req),
	)
	if err != nil {
		return pipelineResult{}, err
	}
	pr.timed("retrieval", start)

	s.rank(ctx, &pr, req.Query(), domain.IntentProductSearch, req.Filters(), candidates)
	return pr, nil
}

func (s *Service) runKeyword(ctx context.Context, req *request.Request) (pipelineResult, error) {
	var pr pipelineResult

	start := time.Now()
	candidates, err := s.retriever.KeywordSearch(
		ctx, req.ShopID(), req.Query(), req.Filters(), s.fetchCount(req),
	)
	if err != nil {
		return pipelineResult{}, err
	}
	pr.timed("retrieval", start)

	s.rank(ctx, &pr, req.Query(), domain.IntentProductSearch, req.Filters(), candidates)
	return pr, nil
}

// runAI expands the query through query understanding, then drives the
// hybrid pipeline with the combined filters. The whole path races a fixed
// timeout; losing the race counts as a pipeline error and triggers fallback.
func (s *Service) runAI(
	ctx context.Context, req *request.Request, settings shop.Settings,
) (pipelineResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.AITimeout)
	defer cancel()

	parseStart := time.Now()
	parsed := s.parseQuery(ctx, req.Query())
	parseMs := time.Since(parseStart).Milliseconds()
	merged := req.Filters().Merge(parsed.Filters)

	pr, err := s.runHybrid(ctx, req, settings, parsed.ExpandedQuery, merged, parsed.Intent)
	if err != nil {
		return pipelineResult{}, err
	}
	if ctx.Err() != nil {
		return pipelineResult{}, fmt.Errorf("ai pipeline: %w", ctx.Err())
	}
	if pr.timings == nil {
		pr.timings = make(map[string]int64)
	}
	pr.timings["query_understanding"] = parseMs
	return pr, nil
}

// parseQuery runs query understanding; any failure degrades to the raw
// query with no filters.
func (s *Service) parseQuery(ctx context.Context, query string) domain.ParsedQuery {
	if s.parser == nil {
		return domain.FallbackParse(query)
	}

	parsed, err := s.parser.Parse(ctx, query)
	if err != nil {
		logger.FromContext(ctx).Warn("Query understanding failed, using raw query",
			zap.Error(err))
		return domain.FallbackParse(query)
	}
	return parsed
}

// runHybrid fans out to both retrieval sources concurrently, joins, fuses
// and ranks. A single source failing degrades to empty; both failing is a
// strategy error. query is the retrieval query (expanded on the AI path);
// the cache is keyed by the shopper's raw query so popularity tracking and
// repeat lookups see what was actually typed.
func (s *Service) runHybrid(
	ctx context.Context, req *request.Request, settings shop.Settings,
	query string, filters filter.Set, intent string,
) (pipelineResult, error) {
	log := logger.FromContext(ctx)

	cacheable := req.Offset() == 0 && req.UseCache() && settings.CacheEnabled && s.cache != nil
	if cacheable {
		if cached, ok := s.cache.Get(ctx, req.Query(), req.ShopID(), filters); ok {
			return pipelineResult{candidates: cached.Products, fromCache: true}, nil
		}
	}

	k := s.fetchCount(req)

	var (
		pr            pipelineResult
		vec, kw       []product.Candidate
		vecErr, kwErr error
	)

	retrStart := time.Now()
	g := new(errgroup.Group)
	g.Go(func() error {
		emb, err := s.embedder.Embed(ctx, query)
		if err != nil {
			vecErr = fmt.Errorf("vectorize query: %w", err)
			return nil
		}
		vec, vecErr = s.retriever.VectorSearch(
			ctx, req.ShopID(), emb.Embedding, filters, settings.MatchThreshold, k)
		return nil
	})
	g.Go(func() error {
		kw, kwErr = s.retriever.KeywordSearch(ctx, req.ShopID(), query, filters, k)
		return nil
	})
	_ = g.Wait()
	pr.timed("retrieval", retrStart)

	if vecErr != nil && kwErr != nil {
		return pipelineResult{}, fmt.Errorf("both retrieval sources failed: %v; %w", vecErr, kwErr)
	}
	if vecErr != nil {
		log.Warn("Vector retrieval degraded to empty", zap.Error(vecErr))
	}
	if kwErr != nil {
		log.Warn("Keyword retrieval degraded to empty", zap.Error(kwErr))
	}

	fused := fuseRRF(vec, kw, s.opts.VectorWeight, s.opts.KeywordWeight, s.opts.RRFConstant)
	s.rank(ctx, &pr, query, intent, filters, fused)

	if cacheable && len(pr.candidates) > 0 {
		s.writeCacheAsync(req.Query(), req.ShopID(), filters, pr.candidates)
	}

	return pr, nil
}

func (s *Service) rank(
	ctx context.Context, pr *pipelineResult,
	query, intent string, filters filter.Set, candidates []product.Candidate,
) {
	start := time.Now()
	outcome := s.ranker.Rank(ctx, query, intent, filters, candidates)
	pr.timed("ranking", start)

	pr.candidates = outcome.Products
	pr.ranking = &result.RankingInfo{
		ModelUsed: outcome.ModelUsed,
		Reasoning: outcome.Reasoning,
	}
}

// writeCacheAsync stores the full ranked list off the critical path. The
// write also counts toward query popularity, so first-time queries surface
// in popular searches, not only repeats.
func (s *Service) writeCacheAsync(query, shopID string, filters filter.Set, candidates []product.Candidate) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()
		s.cache.Set(ctx, query, shopID, filters, searchcache.CachedResult{
			Products:   candidates,
			TotalCount: len(candidates),
		})
		s.cache.TrackQuery(ctx, query, shopID)
	}()
}

// fetchCount over-fetches beyond the page size so fusion and ranking have
// enough material, and deep pages stay addressable. Capped so an arbitrary
// offset cannot turn into an unbounded retrieval K.
func (s *Service) fetchCount(req *request.Request) int {
	return min((req.Offset()+req.Limit())*s.opts.OverFetchFactor, maxFetchCount)
}
