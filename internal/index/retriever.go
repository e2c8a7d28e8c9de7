package index

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/pathfinder/internal/domain"
)

// Retriever answers semantic queries against the manager's current index.
// Safe for concurrent use; reads never block a rebuild.
type Retriever struct {
	manager  *Manager
	embedder domain.Embedder
}

// NewRetriever creates a retriever over the lifecycle manager.
func NewRetriever(manager *Manager, embedder domain.Embedder) *Retriever {
	return &Retriever{manager: manager, embedder: embedder}
}

// Retrieve embeds the query and returns up to k nearest catalog entries,
// ordered by ascending distance. No relevance threshold is applied here;
// an empty result means the index itself is empty or k is zero.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedMatch, error) {
	ix, err := r.manager.Current()
	if err != nil {
		return nil, err
	}

	result, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	matches, err := ix.Search(result.Embedding, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	return matches, nil
}
