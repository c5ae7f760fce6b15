package domain

import "context"

// EmbeddingResult is a query vector plus provider-reported token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is implemented by providers that can verify upstream availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
