// Package shop holds per-tenant search settings.
package shop

import "github.com/kailas-cloud/shopsearch/internal/domain/search/strategy"

// Settings configures search behavior for a single shop.
type Settings struct {
	DefaultStrategy  strategy.Strategy `json:"default_strategy"`
	FallbackStrategy strategy.Strategy `json:"fallback_strategy"`
	CacheEnabled     bool              `json:"cache_enabled"`
	MatchThreshold   float64           `json:"match_threshold"`
}

// DefaultSettings applies when a shop has no stored configuration.
func DefaultSettings() Settings {
	return Settings{
		DefaultStrategy:  strategy.AI,
		FallbackStrategy: strategy.Keyword,
		CacheEnabled:     true,
		MatchThreshold:   0.35,
	}
}

// Normalize fills invalid or missing fields with defaults.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if !s.DefaultStrategy.IsValid() {
		s.DefaultStrategy = def.DefaultStrategy
	}
	if !s.FallbackStrategy.IsValid() {
		s.FallbackStrategy = def.FallbackStrategy
	}
	if s.MatchThreshold <= 0 || s.MatchThreshold >= 1 {
		s.MatchThreshold = def.MatchThreshold
	}
	return s
}
