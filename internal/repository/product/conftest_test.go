package product

import (
	"context"

	"github.com/kailas-cloud/shopsearch/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKNNFn  func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchTextFn func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func entry(key, id, title string, score float64, extra map[string]string) db.SearchEntry {
	fields := map[string]string{
		"id":    id,
		"title": title,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return db.SearchEntry{Key: key, Score: score, Fields: fields}
}
