package suggest

import (
	"context"

	"github.com/kailas-cloud/pathfinder/internal/domain"
)

// Retriever returns the top-k semantically nearest catalog entries.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedMatch, error)
}

// Completer invokes the generation backend and returns raw text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// IdentifierLookup resolves an extracted parameter into an opaque ID for
// the named capability.
type IdentifierLookup interface {
	Lookup(ctx context.Context, capability, query string) (string, error)
}
