package health

import (
	"context"

	"github.com/kailas-cloud/pathfinder/internal/index"
)

// IndexSource exposes the currently served vector index.
type IndexSource interface {
	Current() (*index.Index, error)
}

// BackendChecker checks a remote provider's availability.
type BackendChecker interface {
	HealthCheck(ctx context.Context) error
}
