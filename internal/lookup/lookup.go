// Package lookup resolves human identifiers (names, emails) extracted from
// queries into opaque IDs via a keyed directory of organizations, advisers,
// and clients.
package lookup

import (
	"context"

	"github.com/kailas-cloud/pathfinder/internal/domain"
)

// Capability names one lookup operation the directory supports. The set is
// closed: unrecognized names are rejected, never guessed at.
type Capability string

const (
	// OrganizationByName resolves an organization ID from a name fragment.
	OrganizationByName Capability = "get_organisation_id_by_name"
	// AdviserByName resolves an adviser ID from a name fragment.
	AdviserByName Capability = "get_adviser_id_by_name"
	// AdviserByEmail resolves an adviser ID from an exact email.
	AdviserByEmail Capability = "get_adviser_id_by_email"
	// ClientByName resolves a client ID from a name fragment.
	ClientByName Capability = "get_client_id_by_name"
	// ClientByEmail resolves a client ID from an exact email.
	ClientByEmail Capability = "get_client_id_by_email"
)

// ParseCapability validates a service name from a suggestion.
func ParseCapability(name string) (Capability, error) {
	switch c := Capability(name); c {
	case OrganizationByName, AdviserByName, AdviserByEmail, ClientByName, ClientByEmail:
		return c, nil
	default:
		return "", domain.ErrUnknownCapability
	}
}

// Service resolves an identifier for the named capability. Implementations
// return domain.ErrLookupMiss when nothing matches and
// domain.ErrUnknownCapability for names outside the closed set.
type Service interface {
	Lookup(ctx context.Context, capability, query string) (string, error)
}
