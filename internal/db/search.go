package db

// KNNQuery is a vector-similarity search against an FT index. Predicate is
// an already-translated FT pre-filter expression ("" = match all).
type KNNQuery struct {
	IndexName    string
	Predicate    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// TextQuery is a full-text search. Predicate is the complete FT query
// including any filter clauses and the text OR-group.
type TextQuery struct {
	IndexName    string
	Predicate    string
	Limit        int
	ReturnFields []string
}

// SearchEntry is one FT.SEARCH hit: the document key, the score reported by
// the store (similarity for KNN, BM25 for text), and the returned fields.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// SearchResult holds the total match count and returned entries.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}
