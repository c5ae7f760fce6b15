// Package ranking re-orders a candidate list. Small sets go through an LLM
// provider chain; large sets and every LLM failure go through a deterministic
// heuristic scorer. Rank is total: it never fails and always returns the same
// set of candidates it was given.
package ranking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/filter"
)

const (
	// ModelHeuristic marks results ordered by the heuristic scorer.
	ModelHeuristic = "heuristic"
	// ModelNone marks the empty-input short-circuit.
	ModelNone = "none"

	defaultMaxCandidates = 10
	defaultTimeout       = 5 * time.Second
)

// Outcome is the result of one ranking run.
type Outcome struct {
	Products  []product.Candidate
	Reasoning string
	ModelUsed string
}

// Service ranks candidates via the LLM providers with a heuristic fallback.
type Service struct {
	primary       Provider
	secondary     Provider
	maxCandidates int
	timeout       time.Duration
	logger        *zap.Logger
}

// New creates a ranking service. secondary can be nil.
func New(primary, secondary Provider, maxCandidates int, timeout time.Duration, logger *zap.Logger) *Service {
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{
		primary:       primary,
		secondary:     secondary,
		maxCandidates: maxCandidates,
		timeout:       timeout,
		logger:        logger,
	}
}

// Rank orders candidates by relevance to the query. It never returns an
// error: LLM failures degrade to the heuristic path and are only observable
// through ModelUsed.
func (s *Service) Rank(
	ctx context.Context, query, intent string, filters filter.Set, candidates []product.Candidate,
) Outcome {
	if len(candidates) == 0 {
		return Outcome{Products: []product.Candidate{}, ModelUsed: ModelNone}
	}

	if len(candidates) <= s.maxCandidates {
		if out, ok := s.rankLLM(ctx, query, intent, candidates); ok {
			return out
		}
	}

	return Outcome{
		Products:  rankHeuristic(query, intent, filters, candidates),
		ModelUsed: ModelHeuristic,
	}
}

// rankLLM tries the primary then the secondary provider under one shared
// deadline. A slow ranking is worse than a fast heuristic one, so the
// deadline wins the race and the caller falls back.
func (s *Service) rankLLM(
	ctx context.Context, query, intent string, candidates []product.Candidate,
) (Outcome, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := buildPrompt(query, intent, candidates)

	for _, p := range []Provider{s.primary, s.secondary} {
		if p == nil {
			continue
		}

		raw, err := p.Complete(ctx, prompt)
		if err != nil {
			s.logger.Warn("ranking provider failed",
				zap.String("model", p.Model()),
				zap.Error(err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		ranked, reasoning, ok := parseRanking(raw, candidates)
		if !ok {
			s.logger.Warn("unparseable ranking response",
				zap.String("model", p.Model()))
			continue
		}

		return Outcome{Products: ranked, Reasoning: reasoning, ModelUsed: p.Model()}, true
	}

	return Outcome{}, false
}
