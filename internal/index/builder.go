package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pathfinder/internal/catalog"
	"github.com/kailas-cloud/pathfinder/internal/domain"
)

// Builder constructs a fresh index generation from the catalog file.
// Embedding cost scales linearly with catalog size; builds run rarely
// (catalog changes), not per request.
type Builder struct {
	embedder domain.Embedder
	logger   *zap.Logger
}

// NewBuilder creates a builder using the given embedding provider.
func NewBuilder(embedder domain.Embedder, logger *zap.Logger) *Builder {
	return &Builder{embedder: embedder, logger: logger}
}

// Build parses the catalog, embeds every entry, and assembles a flat index.
// The returned index carries the catalog fingerprint as its provenance.
func (b *Builder) Build(ctx context.Context, catalogPath string) (*Index, error) {
	entries, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog has no entries: %w", domain.ErrCatalogFormat)
	}

	fp, err := catalog.Fingerprint(catalogPath)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.IndexedDocument, len(entries))
	vectors := make([][]float32, len(entries))
	dim := 0

	for i, entry := range entries {
		docs[i] = domain.NewIndexedDocument(entry)

		result, err := b.embedder.Embed(ctx, docs[i].Text)
		if err != nil {
			return nil, fmt.Errorf("embed catalog entry %d (%s): %w", i, entry.Title, err)
		}
		if dim == 0 {
			dim = len(result.Embedding)
		}
		vectors[i] = result.Embedding
	}

	ix, err := New(fp, dim, docs, vectors)
	if err != nil {
		return nil, fmt.Errorf("assemble index: %w", err)
	}

	b.logger.Info("Index built",
		zap.Int("documents", ix.Len()),
		zap.Int("dim", ix.Dim()),
		zap.String("fingerprint", fp),
	)
	return ix, nil
}
