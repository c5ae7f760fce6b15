// Package chi is the HTTP transport: routing, request binding, error
// mapping and auth. Handlers translate between wire DTOs and domain types;
// no search logic lives here.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/request"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/result"
	"github.com/kailas-cloud/shopsearch/internal/repository/searchcache"
	healthuc "github.com/kailas-cloud/shopsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/shopsearch/internal/usecase/search"
)

const (
	defaultPopularLimit = 10
	maxPopularLimit     = 50
)

// errorCode is the machine-readable error discriminator on the wire.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeShopNotFound     errorCode = "shop_not_found"
	codeProviderError    errorCode = "provider_error"
	codeInternalError    errorCode = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Searcher runs one search orchestration. Total: never fails.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) result.Result
}

var _ Searcher = (*searchuc.Service)(nil)

// CacheAdmin is the cache surface the transport exposes directly:
// popular searches and per-shop invalidation.
type CacheAdmin interface {
	Popular(ctx context.Context, shopID string, n int) ([]searchcache.PopularQuery, error)
	ClearShop(ctx context.Context, shopID string) error
}

// Server holds the HTTP handlers.
type Server struct {
	search        Searcher
	cache         CacheAdmin
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	cache CacheAdmin,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search: search,
		cache:  cache,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrUnsupportedStrategy, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrShopNotFound, http.StatusNotFound, codeShopNotFound),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeProviderError),
		sentinelHandler(domain.ErrRankingProviderError, http.StatusBadGateway, codeProviderError),
	}
	return s
}

// Routes registers all API routes.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1/shops/{shop}", func(r chi.Router) {
		r.Post("/search", s.SearchProducts)
		r.Get("/popular-searches", s.PopularSearches)
		r.Delete("/cache", s.ClearCache)
	})
	r.Get("/health/live", s.HealthLive)
	r.Get("/health/ready", s.HealthReady)
	r.Get("/metrics", s.Metrics)
}

// SearchProducts handles POST /shops/{shop}/search.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	shopID := chi.URLParam(r, "shop")

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var dto searchRequestDTO
	if err := dec.Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := dto.toRequest(shopID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	// Search is total; failures come back as an empty result.
	res := s.search.Search(r.Context(), &req)
	writeJSON(w, http.StatusOK, res)
}

// PopularSearches handles GET /shops/{shop}/popular-searches.
func (s *Server) PopularSearches(w http.ResponseWriter, r *http.Request) {
	shopID := chi.URLParam(r, "shop")

	limit := defaultPopularLimit
	if err := runtime.BindQueryParameter(
		"form", true, false, "limit", r.URL.Query(), &limit,
	); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid limit: "+err.Error())
		return
	}
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	if limit > maxPopularLimit {
		limit = maxPopularLimit
	}

	queries, err := s.cache.Popular(r.Context(), shopID, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if queries == nil {
		queries = []searchcache.PopularQuery{}
	}

	writeJSON(w, http.StatusOK, popularSearchesResponse{Queries: queries})
}

// ClearCache handles DELETE /shops/{shop}/cache.
func (s *Server) ClearCache(w http.ResponseWriter, r *http.Request) {
	shopID := chi.URLParam(r, "shop")

	if err := s.cache.ClearShop(r.Context(), shopID); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthLive handles GET /health/live: the process is up.
func (s *Server) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HealthReady handles GET /health/ready.
func (s *Server) HealthReady(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrUnsupportedStrategy,
		domain.ErrShopNotFound,
		domain.ErrEmbeddingProviderError,
		domain.ErrRankingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
