// Package result holds the caller-facing search result value.
package result

import (
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/facet"
)

// RankingInfo describes how the result list was ordered.
type RankingInfo struct {
	ModelUsed string `json:"model_used"`
	Reasoning string `json:"reasoning,omitempty"`
}

// DebugInfo is attached only when the request asked for it.
type DebugInfo struct {
	StrategiesTried []string         `json:"strategies_tried,omitempty"`
	StageTimingsMs  map[string]int64 `json:"stage_timings_ms,omitempty"`
	Error           string           `json:"error,omitempty"`
}

// Result is the total outcome of one search orchestration run. The
// orchestrator always produces one, even when every upstream failed.
type Result struct {
	Products         []product.Candidate `json:"products"`
	TotalCount       int                 `json:"total_count"`
	HasMore          bool                `json:"has_more"`
	SearchMethod     string              `json:"search_method"`
	ProcessingTimeMs int64               `json:"processing_time_ms"`
	Ranking          *RankingInfo        `json:"ranking_info,omitempty"`
	Facets           *facet.Set          `json:"facets,omitempty"`
	SearchID         string              `json:"search_id"`
	Debug            *DebugInfo          `json:"debug_info,omitempty"`
}
