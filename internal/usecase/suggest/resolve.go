package suggest

import (
	"context"
	"errors"
	"regexp"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pathfinder/internal/domain"
	"github.com/kailas-cloud/pathfinder/internal/logger"
)

// placeholderPattern matches a path placeholder token such as ":id".
var placeholderPattern = regexp.MustCompile(`:[A-Za-z_][A-Za-z0-9_]*`)

// Resolver substitutes extracted query parameters into suggestion path
// templates via the identifier lookup service.
type Resolver struct {
	lookup IdentifierLookup
}

// NewResolver creates a parameter resolver.
func NewResolver(lookup IdentifierLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns a new slice of equal length and order. For each suggestion
// carrying both a service name and a param, it looks up the identifier and
// substitutes the first placeholder token in the path. A lookup miss or an
// unrecognized service leaves the path untouched and never fails the
// overall response.
func (r *Resolver) Resolve(ctx context.Context, suggestions []domain.Suggestion) []domain.Suggestion {
	out := make([]domain.Suggestion, len(suggestions))
	copy(out, suggestions)

	for i := range out {
		s := &out[i]
		if s.Service == "" || s.Param == "" {
			continue
		}

		id, err := r.lookup.Lookup(ctx, s.Service, s.Param)
		if err != nil {
			level := logger.FromContext(ctx).Debug
			if !errors.Is(err, domain.ErrLookupMiss) && !errors.Is(err, domain.ErrUnknownCapability) {
				level = logger.FromContext(ctx).Warn
			}
			level("Parameter left unresolved",
				zap.String("service", s.Service),
				zap.String("path", s.Path),
				zap.Error(err),
			)
			continue
		}

		if loc := placeholderPattern.FindStringIndex(s.Path); loc != nil {
			s.Path = s.Path[:loc[0]] + id + s.Path[loc[1]:]
		}
	}

	return out
}
