// Package suggest orchestrates the query pipeline: retrieval, prompt
// compilation, completion, normalization, and parameter resolution.
package suggest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pathfinder/internal/domain"
	"github.com/kailas-cloud/pathfinder/internal/logger"
)

// defaultTopK bounds retrieval when the configured value is unset.
const defaultTopK = 5

// Service answers navigation queries with structured link suggestions.
// Stateless per request; safe for concurrent use.
type Service struct {
	retriever Retriever
	completer Completer
	resolver  *Resolver
	topK      int
}

// New creates a suggestion service.
func New(retriever Retriever, completer Completer, resolver *Resolver) *Service {
	return &Service{
		retriever: retriever,
		completer: completer,
		resolver:  resolver,
		topK:      defaultTopK,
	}
}

// WithTopK overrides the retrieval depth.
func (s *Service) WithTopK(k int) *Service {
	if k > 0 {
		s.topK = k
	}
	return s
}

// Suggest runs the full pipeline for one query. Only backend-transport and
// index-readiness failures surface as errors; generation-quality problems
// degrade to a well-formed, low-information response.
func (s *Service) Suggest(ctx context.Context, query string) (domain.SuggestionResponse, error) {
	log := logger.FromContext(ctx)

	matches, err := s.retriever.Retrieve(ctx, query, s.topK)
	if err != nil {
		return domain.SuggestionResponse{}, fmt.Errorf("retrieve candidates: %w", err)
	}

	// Nothing retrieved means nothing to ground the backend on: short-
	// circuit instead of inviting hallucinated suggestions.
	if len(matches) == 0 {
		log.Info("No candidates retrieved", zap.String("query", query))
		return domain.EmptyResponse(domain.NoMatchExplanation), nil
	}

	prompt := Compile(query, matches)

	rawText, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		// An empty envelope means the backend answered but said nothing
		// usable: a generation-quality failure, degraded like any other.
		if errors.Is(err, domain.ErrBackendEmptyResponse) {
			log.Warn("Backend returned no content", zap.String("query", query), zap.Error(err))
			return domain.EmptyResponse(explainNoResponse), nil
		}
		return domain.SuggestionResponse{}, fmt.Errorf("complete prompt: %w", err)
	}

	resp := Normalize(rawText)
	resp.Suggestions = s.resolver.Resolve(ctx, resp.Suggestions)

	log.Info("Query answered",
		zap.String("query", query),
		zap.Int("candidates", len(matches)),
		zap.Int("suggestions", len(resp.Suggestions)),
	)
	return resp, nil
}
