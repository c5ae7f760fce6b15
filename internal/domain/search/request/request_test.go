package request

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/strategy"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New("winter boots", "shop-1", 0, 0, "", filter.Set{}, "", "", true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != DefaultLimit {
		t.Errorf("limit = %d, want %d", r.Limit(), DefaultLimit)
	}
	if r.SortBy() != SortRelevance {
		t.Errorf("sortBy = %q, want relevance", r.SortBy())
	}
	if r.Strategy() != "" {
		t.Errorf("strategy should stay unset, got %q", r.Strategy())
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		shopID  string
		limit   int
		offset  int
		sortBy  Sort
		strat   strategy.Strategy
		wantErr bool
	}{
		{"ok", "q", "s", 10, 0, SortTitle, strategy.Hybrid, false},
		{"empty query", "", "s", 10, 0, "", "", true},
		{"empty shop", "q", "", 10, 0, "", "", true},
		{"negative offset", "q", "s", 10, -1, "", "", true},
		{"bad sort", "q", "s", 10, 0, "random", "", true},
		{"bad strategy", "q", "s", 10, 0, "", "semantic", true},
		{"query too long", strings.Repeat("x", MaxQueryLength+1), "s", 10, 0, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.query, tt.shopID, tt.limit, tt.offset, tt.sortBy, filter.Set{}, tt.strat, "", true, false)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_ClampsLimit(t *testing.T) {
	r, err := New("q", "s", MaxLimit+50, 0, "", filter.Set{}, "", "", true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != MaxLimit {
		t.Errorf("limit = %d, want %d", r.Limit(), MaxLimit)
	}
}

func TestWithStrategyAndWithoutCache(t *testing.T) {
	r, _ := New("q", "s", 10, 0, "", filter.Set{}, strategy.Hybrid, "", true, false)
	fb := r.WithStrategy(strategy.Keyword).WithoutCache()
	if fb.Strategy() != strategy.Keyword {
		t.Errorf("fallback strategy = %q", fb.Strategy())
	}
	if fb.UseCache() {
		t.Error("fallback copy must have caching disabled")
	}
	// Original untouched.
	if r.Strategy() != strategy.Hybrid || !r.UseCache() {
		t.Error("original request mutated")
	}
}
