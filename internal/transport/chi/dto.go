package chi

import (
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/request"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/strategy"
	"github.com/kailas-cloud/shopsearch/internal/repository/searchcache"
)

// searchRequestDTO is the POST /search body. Unknown keys are rejected at
// decode time so untyped fields never leak past the boundary.
type searchRequestDTO struct {
	Query     string      `json:"query"`
	Limit     int         `json:"limit,omitempty"`
	Offset    int         `json:"offset,omitempty"`
	SortBy    string      `json:"sort_by,omitempty"`
	Filters   *filter.Set `json:"filters,omitempty"`
	Strategy  string      `json:"strategy,omitempty"`
	SessionID string      `json:"session_id,omitempty"`
	UseCache  *bool       `json:"use_cache,omitempty"`
	Debug     bool        `json:"debug,omitempty"`
}

// toRequest validates the DTO into the immutable domain request.
// use_cache defaults to true when omitted.
func (d *searchRequestDTO) toRequest(shopID string) (request.Request, error) {
	var filters filter.Set
	if d.Filters != nil {
		filters = *d.Filters
	}

	useCache := true
	if d.UseCache != nil {
		useCache = *d.UseCache
	}

	return request.New(
		d.Query, shopID,
		d.Limit, d.Offset,
		request.Sort(d.SortBy), filters,
		strategy.Strategy(d.Strategy),
		d.SessionID, useCache, d.Debug,
	)
}

// popularSearchesResponse is the GET /popular-searches body.
type popularSearchesResponse struct {
	Queries []searchcache.PopularQuery `json:"queries"`
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}
