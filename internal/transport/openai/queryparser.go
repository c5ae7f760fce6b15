package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
)

const parserSystemPrompt = `You turn a shopper's search phrase into a structured product query.
Respond with a single JSON object, nothing else:
{"expanded_query": "...", "filters": {"price_min": null, "price_max": null, "vendor": null, "product_type": null, "tags": [], "available": null}, "intent": "product_search" or "recommendation", "confidence": 0.0-1.0}
Omit or null any filter the phrase does not imply. Expand abbreviations and
synonyms in expanded_query but keep the shopper's meaning.`

// QueryParser extracts an expanded query, filters and intent from free-form
// shopper text via an OpenAI-compatible chat API.
type QueryParser struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// ParserConfig holds the query understanding settings.
type ParserConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewQueryParser creates a chat-based query parser.
func NewQueryParser(cfg *ParserConfig) *QueryParser {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &QueryParser{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// parsedPayload mirrors the JSON the model is instructed to return.
type parsedPayload struct {
	ExpandedQuery string     `json:"expanded_query"`
	Filters       filter.Set `json:"filters"`
	Intent        string     `json:"intent"`
	Confidence    float64    `json:"confidence"`
}

// Parse implements domain.QueryParser.
func (p *QueryParser) Parse(ctx context.Context, text string) (domain.ParsedQuery, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: parserSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.ParsedQuery{}, parseAPIError(err, domain.ErrRankingProviderError)
	}
	if len(resp.Choices) == 0 {
		return domain.ParsedQuery{}, fmt.Errorf("empty parse response: %w", domain.ErrRankingProviderError)
	}

	block := extractJSONBlock(resp.Choices[0].Message.Content)
	if block == "" {
		return domain.ParsedQuery{}, fmt.Errorf("no JSON object in parse response")
	}

	var payload parsedPayload
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		return domain.ParsedQuery{}, fmt.Errorf("unmarshal parse response: %w", err)
	}

	parsed := domain.ParsedQuery{
		ExpandedQuery: payload.ExpandedQuery,
		Filters:       payload.Filters,
		Intent:        payload.Intent,
		Confidence:    payload.Confidence,
	}
	if parsed.ExpandedQuery == "" {
		parsed.ExpandedQuery = text
	}
	if parsed.Intent == "" {
		parsed.Intent = domain.IntentProductSearch
	}
	return parsed, nil
}

// extractJSONBlock returns the first brace-delimited block of s, tracking
// nesting so embedded objects survive. Empty when no complete block exists.
func extractJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
