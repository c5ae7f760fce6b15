// Package shopconfig reads per-shop search settings from the store, with a
// short-lived in-process LRU in front so every search does not pay a
// round-trip for read-mostly configuration.
package shopconfig

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/db"
	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/shop"
)

const (
	lruSize = 1024
	lruTTL  = 60 * time.Second
)

// store is the consumer interface for shop settings (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Repo loads shop settings. Absent or unreadable settings fall back to
// defaults; settings lookup never fails a search.
type Repo struct {
	store  store
	cache  *expirable.LRU[string, shop.Settings]
	logger *zap.Logger
}

// New creates a shop settings repository.
func New(s store, logger *zap.Logger) *Repo {
	return &Repo{
		store:  s,
		cache:  expirable.NewLRU[string, shop.Settings](lruSize, nil, lruTTL),
		logger: logger,
	}
}

// Settings returns the shop's normalized settings.
func (r *Repo) Settings(ctx context.Context, shopID string) shop.Settings {
	if s, ok := r.cache.Get(shopID); ok {
		return s
	}

	s := r.load(ctx, shopID)
	r.cache.Add(shopID, s)
	return s
}

// Invalidate drops a shop's cached settings.
func (r *Repo) Invalidate(shopID string) {
	r.cache.Remove(shopID)
}

func (r *Repo) load(ctx context.Context, shopID string) shop.Settings {
	data, err := r.store.Get(ctx, settingsKey(shopID))
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			r.logger.Warn("Shop settings read failed, using defaults",
				zap.String("shop", shopID), zap.Error(err))
		}
		return shop.DefaultSettings()
	}

	var s shop.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.Warn("Shop settings unreadable, using defaults",
			zap.String("shop", shopID), zap.Error(err))
		return shop.DefaultSettings()
	}
	return s.Normalize()
}

func settingsKey(shopID string) string {
	return domain.KeyPrefix + "shop:" + shopID + ":config"
}
