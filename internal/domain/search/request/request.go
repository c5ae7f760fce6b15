// Package request holds the validated, immutable search request.
package request

import (
	"fmt"

	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/strategy"
)

// Search parameter limits.
const (
	MaxQueryLength = 2048
	DefaultLimit   = 20
	MaxLimit       = 100
)

// Sort is the result ordering mode.
type Sort string

// Supported sort modes. Relevance keeps the ranked order.
const (
	SortRelevance Sort = "relevance"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
	SortTitle     Sort = "title"
	SortNewest    Sort = "newest"
)

// IsValid reports whether s is a known sort mode.
func (s Sort) IsValid() bool {
	switch s {
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortTitle, SortNewest:
		return true
	}
	return false
}

// Request is a validated search request. Immutable once constructed; one
// request drives exactly one orchestration run.
type Request struct {
	query     string
	shopID    string
	limit     int
	offset    int
	sortBy    Sort
	filters   filter.Set
	strategy  strategy.Strategy // empty = resolve from shop settings
	sessionID string
	useCache  bool
	debug     bool
}

// New validates and normalizes search parameters.
// Defaults: limit=20 (max 100), offset=0, sort=relevance, cache on.
func New(
	query, shopID string,
	limit, offset int,
	sortBy Sort,
	filters filter.Set,
	strat strategy.Strategy,
	sessionID string,
	useCache, debug bool,
) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if shopID == "" {
		return Request{}, fmt.Errorf("shop id is required")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		return Request{}, fmt.Errorf("offset must be >= 0, got %d", offset)
	}
	if sortBy == "" {
		sortBy = SortRelevance
	}
	if !sortBy.IsValid() {
		return Request{}, fmt.Errorf("invalid sort mode: %q", sortBy)
	}
	if strat != "" && !strat.IsValid() {
		return Request{}, fmt.Errorf("invalid search strategy: %q", strat)
	}

	return Request{
		query:     query,
		shopID:    shopID,
		limit:     limit,
		offset:    offset,
		sortBy:    sortBy,
		filters:   filters,
		strategy:  strat,
		sessionID: sessionID,
		useCache:  useCache,
		debug:     debug,
	}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// ShopID returns the tenant identifier.
func (r *Request) ShopID() string { return r.shopID }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the pagination offset.
func (r *Request) Offset() int { return r.offset }

// SortBy returns the result ordering mode.
func (r *Request) SortBy() Sort { return r.sortBy }

// Filters returns the typed filter set.
func (r *Request) Filters() filter.Set { return r.filters }

// Strategy returns the requested strategy, empty when unset.
func (r *Request) Strategy() strategy.Strategy { return r.strategy }

// SessionID returns the optional session identifier for analytics.
func (r *Request) SessionID() string { return r.sessionID }

// UseCache reports whether the result cache may serve this request.
func (r *Request) UseCache() bool { return r.useCache }

// Debug reports whether debug info should be attached to the response.
func (r *Request) Debug() bool { return r.debug }

// WithStrategy returns a copy pinned to the given strategy.
func (r Request) WithStrategy(s strategy.Strategy) Request {
	r.strategy = s
	return r
}

// WithoutCache returns a copy with caching disabled. Used by the fallback
// re-invocation so a degraded result is never cached.
func (r Request) WithoutCache() Request {
	r.useCache = false
	return r
}
