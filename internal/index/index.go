// Package index provides the flat vector index over the route catalog and
// its lifecycle: build, persist, load, and atomically-swapped serving.
package index

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/pathfinder/internal/domain"
)

// Index is one immutable generation of the vector index: an ordered set of
// (vector, document) pairs plus the catalog fingerprint it was built from.
// Search is an exhaustive L2 scan; catalogs stay small enough that no
// approximation structure is needed.
type Index struct {
	fingerprint string
	dim         int
	vectors     [][]float32
	docs        []domain.IndexedDocument
}

// New assembles an index generation. Every vector must have the same
// dimensionality and pair one-to-one with a document.
func New(fingerprint string, dim int, docs []domain.IndexedDocument, vectors [][]float32) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid vector dimension: %d", dim)
	}
	if len(docs) != len(vectors) {
		return nil, fmt.Errorf("document/vector count mismatch: %d vs %d", len(docs), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), dim)
		}
	}
	return &Index{fingerprint: fingerprint, dim: dim, vectors: vectors, docs: docs}, nil
}

// Fingerprint returns the catalog content digest this index was built from.
func (ix *Index) Fingerprint() string { return ix.fingerprint }

// Dim returns the embedding dimensionality.
func (ix *Index) Dim() int { return ix.dim }

// Len returns the number of indexed documents.
func (ix *Index) Len() int { return len(ix.docs) }

// Documents returns the indexed documents in catalog order.
func (ix *Index) Documents() []domain.IndexedDocument { return ix.docs }

// Vectors returns the embedding vectors in catalog order.
func (ix *Index) Vectors() [][]float32 { return ix.vectors }

// Search returns up to k nearest documents to the query vector, ordered by
// ascending Euclidean distance. An empty result is a valid outcome.
func (ix *Index) Search(query []float32, k int) ([]domain.RetrievedMatch, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(query), ix.dim)
	}
	if k <= 0 || len(ix.docs) == 0 {
		return []domain.RetrievedMatch{}, nil
	}

	matches := make([]domain.RetrievedMatch, len(ix.docs))
	for i, vec := range ix.vectors {
		matches[i] = domain.RetrievedMatch{
			Document: ix.docs[i],
			Distance: euclidean(query, vec),
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func euclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
