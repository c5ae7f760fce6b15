package ranking

import "context"

// Provider is one LLM completion provider. The service holds a primary and
// an optional secondary provider and tries them in order.
type Provider interface {
	// Model returns the provider's model name, surfaced as modelUsed.
	Model() string
	// Complete sends a prompt and returns the raw completion text.
	Complete(ctx context.Context, prompt string) (string, error)
}
