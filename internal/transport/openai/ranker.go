package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/metrics"
)

// Ranker is one LLM ranking provider behind an OpenAI-compatible chat API.
// Both the primary (Gemini via its OpenAI-compatible endpoint) and the
// secondary (OpenAI) providers use this client with different base URLs.
type Ranker struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// RankerConfig holds one ranking provider's settings.
type RankerConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewRanker creates a chat-based ranking provider.
func NewRanker(cfg *RankerConfig) *Ranker {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Ranker{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Model returns the configured model name, surfaced as modelUsed.
func (r *Ranker) Model() string { return r.model }

// Complete sends the ranking prompt and returns the raw completion text.
func (r *Ranker) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()

	resp, err := r.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.RankingRequestsTotal.WithLabelValues(r.model, "error").Inc()
		return "", parseAPIError(err, domain.ErrRankingProviderError)
	}

	if len(resp.Choices) == 0 {
		metrics.RankingRequestsTotal.WithLabelValues(r.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrRankingProviderError)
	}

	metrics.RankingRequestsTotal.WithLabelValues(r.model, "success").Inc()
	metrics.RankingDuration.WithLabelValues(r.model).Observe(duration.Seconds())

	return resp.Choices[0].Message.Content, nil
}
