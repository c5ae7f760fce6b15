// Package searchcache is the content-addressed result cache for the hybrid
// pipeline, plus the per-shop query popularity counter. Every failure
// degrades to a pass-through: a broken cache must never break a search.
package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/db"
	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
)

// DefaultTTL bounds staleness; there is no entry versioning.
const DefaultTTL = 3600 * time.Second

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	ZIncrBy(ctx context.Context, key, member string, delta float64) error
	ZTop(ctx context.Context, key string, n int) ([]db.ScoredMember, error)
}

// CachedResult is the serialized cache value.
type CachedResult struct {
	Products   []product.Candidate `json:"products"`
	TotalCount int                 `json:"total_count"`
}

// PopularQuery is one entry of a shop's popular-searches surface.
type PopularQuery struct {
	Query string  `json:"query"`
	Count float64 `json:"count"`
}

// Cache wraps the hybrid search path with a content-addressed cache.
type Cache struct {
	store      store
	ttl        time.Duration
	enabled    bool
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a result cache. cacheTotal is a counter vec with label
// "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, enabled bool, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: s, ttl: ttl, enabled: enabled, cacheTotal: cacheTotal, logger: logger}
}

// Get returns the cached result for (query, shop, filters), or miss. A hit
// also bumps the shop's popularity counter for the raw query.
func (c *Cache) Get(ctx context.Context, query, shopID string, filters filter.Set) (*CachedResult, bool) {
	if !c.enabled {
		return nil, false
	}

	key := c.key(query, shopID, filters)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		c.incCache("miss")
		return nil, false
	}

	var cached CachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Warn("Cache entry unreadable", zap.String("key", key), zap.Error(err))
		c.incCache("miss")
		return nil, false
	}

	c.incCache("hit")
	c.TrackQuery(ctx, query, shopID)
	return &cached, true
}

// Set stores a result. Empty results are never cached, so a transient
// upstream failure cannot masquerade as a permanent "no results".
func (c *Cache) Set(ctx context.Context, query, shopID string, filters filter.Set, result CachedResult) {
	if !c.enabled || len(result.Products) == 0 {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("Cache entry marshal failed", zap.Error(err))
		return
	}

	key := c.key(query, shopID, filters)
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// TrackQuery bumps the shop's popularity counter for the raw query.
// Counters tolerate lost updates; they need not be exact.
func (c *Cache) TrackQuery(ctx context.Context, query, shopID string) {
	if !c.enabled {
		return
	}
	if err := c.store.ZIncrBy(ctx, popularKey(shopID), query, 1); err != nil {
		c.logger.Warn("Popularity increment failed", zap.String("shop", shopID), zap.Error(err))
	}
}

// Popular returns the shop's top-n queries, most popular first.
func (c *Cache) Popular(ctx context.Context, shopID string, n int) ([]PopularQuery, error) {
	members, err := c.store.ZTop(ctx, popularKey(shopID), n)
	if err != nil {
		return nil, err
	}
	queries := make([]PopularQuery, len(members))
	for i, m := range members {
		queries[i] = PopularQuery{Query: m.Member, Count: m.Score}
	}
	return queries, nil
}

// ClearShop drops every cached result for a shop.
func (c *Cache) ClearShop(ctx context.Context, shopID string) error {
	keys, err := c.store.Scan(ctx, cachePrefix(shopID)+"*")
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := c.store.Del(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// key is a stable hash over the normalized query and the canonical filter
// JSON, namespaced by shop. Equal (query, filters) pairs always map to the
// same entry.
func (c *Cache) key(query, shopID string, filters filter.Set) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	h := sha256.Sum256([]byte(normalized + "|" + filters.CanonicalJSON()))
	return cachePrefix(shopID) + hex.EncodeToString(h[:])
}

func cachePrefix(shopID string) string {
	return domain.KeyPrefix + shopID + ":cache:"
}

func popularKey(shopID string) string {
	return domain.KeyPrefix + shopID + ":popular"
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
