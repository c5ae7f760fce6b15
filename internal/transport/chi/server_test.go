package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain/search/request"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/result"
	"github.com/kailas-cloud/shopsearch/internal/repository/searchcache"
	healthuc "github.com/kailas-cloud/shopsearch/internal/usecase/health"
)

// --- Mocks ---

type mockSearcher struct {
	lastReq *request.Request
	result  result.Result
}

func (m *mockSearcher) Search(_ context.Context, req *request.Request) result.Result {
	m.lastReq = req
	return m.result
}

type mockCacheAdmin struct {
	popular    []searchcache.PopularQuery
	popularErr error
	lastLimit  int
	cleared    []string
	clearErr   error
}

func (m *mockCacheAdmin) Popular(_ context.Context, _ string, n int) ([]searchcache.PopularQuery, error) {
	m.lastLimit = n
	return m.popular, m.popularErr
}

func (m *mockCacheAdmin) ClearShop(_ context.Context, shopID string) error {
	m.cleared = append(m.cleared, shopID)
	return m.clearErr
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestRouter(searcher *mockSearcher, cache *mockCacheAdmin, pingErr error) http.Handler {
	srv := NewServer(searcher, cache, healthuc.New(&mockPinger{err: pingErr}, nil), zap.NewNop())
	r := chi.NewRouter()
	srv.Routes(r)
	return r
}

// --- Tests ---

func TestSearchProducts_OK(t *testing.T) {
	searcher := &mockSearcher{result: result.Result{SearchMethod: "hybrid", SearchID: "abc"}}
	router := newTestRouter(searcher, &mockCacheAdmin{}, nil)

	body := `{"query": "wool socks", "limit": 5}`
	req := httptest.NewRequest("POST", "/api/v1/shops/shop-1/search", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if searcher.lastReq == nil {
		t.Fatal("search service not invoked")
	}
	if searcher.lastReq.ShopID() != "shop-1" {
		t.Errorf("shop id: got %q", searcher.lastReq.ShopID())
	}
	if searcher.lastReq.Limit() != 5 {
		t.Errorf("limit: got %d", searcher.lastReq.Limit())
	}
	if !searcher.lastReq.UseCache() {
		t.Error("use_cache must default to true")
	}

	var resp result.Result
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SearchMethod != "hybrid" {
		t.Errorf("search method: got %q", resp.SearchMethod)
	}
}

func TestSearchProducts_InvalidBody_400(t *testing.T) {
	router := newTestRouter(&mockSearcher{}, &mockCacheAdmin{}, nil)

	req := httptest.NewRequest("POST", "/api/v1/shops/shop-1/search", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSearchProducts_UnknownFieldRejected(t *testing.T) {
	router := newTestRouter(&mockSearcher{}, &mockCacheAdmin{}, nil)

	body := `{"query": "socks", "bogus_field": 1}`
	req := httptest.NewRequest("POST", "/api/v1/shops/shop-1/search", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSearchProducts_EmptyQuery_400(t *testing.T) {
	router := newTestRouter(&mockSearcher{}, &mockCacheAdmin{}, nil)

	req := httptest.NewRequest("POST", "/api/v1/shops/shop-1/search", strings.NewReader(`{"query": ""}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeValidationFailed {
		t.Errorf("error code: got %s, want %s", errResp.Code, codeValidationFailed)
	}
}

func TestSearchProducts_UnknownStrategy_400(t *testing.T) {
	router := newTestRouter(&mockSearcher{}, &mockCacheAdmin{}, nil)

	body := `{"query": "socks", "strategy": "psychic"}`
	req := httptest.NewRequest("POST", "/api/v1/shops/shop-1/search", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestPopularSearches_OK(t *testing.T) {
	cache := &mockCacheAdmin{popular: []searchcache.PopularQuery{
		{Query: "socks", Count: 12},
		{Query: "mugs", Count: 3},
	}}
	router := newTestRouter(&mockSearcher{}, cache, nil)

	req := httptest.NewRequest("GET", "/api/v1/shops/shop-1/popular-searches?limit=2", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if cache.lastLimit != 2 {
		t.Errorf("limit: got %d, want 2", cache.lastLimit)
	}

	var resp popularSearchesResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Queries) != 2 || resp.Queries[0].Query != "socks" {
		t.Errorf("unexpected queries: %+v", resp.Queries)
	}
}

func TestPopularSearches_LimitDefaultAndClamp(t *testing.T) {
	cache := &mockCacheAdmin{}
	router := newTestRouter(&mockSearcher{}, cache, nil)

	req := httptest.NewRequest("GET", "/api/v1/shops/shop-1/popular-searches", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if cache.lastLimit != defaultPopularLimit {
		t.Errorf("default limit: got %d, want %d", cache.lastLimit, defaultPopularLimit)
	}

	req = httptest.NewRequest("GET", "/api/v1/shops/shop-1/popular-searches?limit=999", http.NoBody)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if cache.lastLimit != maxPopularLimit {
		t.Errorf("clamped limit: got %d, want %d", cache.lastLimit, maxPopularLimit)
	}
}

func TestPopularSearches_StoreError_500(t *testing.T) {
	cache := &mockCacheAdmin{popularErr: errors.New("store down")}
	router := newTestRouter(&mockSearcher{}, cache, nil)

	req := httptest.NewRequest("GET", "/api/v1/shops/shop-1/popular-searches", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestClearCache_NoContent(t *testing.T) {
	cache := &mockCacheAdmin{}
	router := newTestRouter(&mockSearcher{}, cache, nil)

	req := httptest.NewRequest("DELETE", "/api/v1/shops/shop-1/cache", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if len(cache.cleared) != 1 || cache.cleared[0] != "shop-1" {
		t.Errorf("unexpected cleared shops: %v", cache.cleared)
	}
}

func TestHealthReady_Degraded_503(t *testing.T) {
	router := newTestRouter(&mockSearcher{}, &mockCacheAdmin{}, errors.New("db down"))

	req := httptest.NewRequest("GET", "/health/ready", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestHealthLive_AlwaysOK(t *testing.T) {
	router := newTestRouter(&mockSearcher{}, &mockCacheAdmin{}, errors.New("db down"))

	req := httptest.NewRequest("GET", "/health/live", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("got %d, want %d", rr.Code, http.StatusOK)
	}
}
