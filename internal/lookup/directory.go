package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kailas-cloud/pathfinder/internal/domain"
	"github.com/kailas-cloud/pathfinder/internal/metrics"
)

// Organization is a keyed directory record.
type Organization struct {
	ID   int    `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Person is an adviser or client record keyed by email.
type Person struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Directory is an in-process identifier directory. Name lookups match
// case-insensitively by containment; email lookups match the key exactly,
// case-insensitively.
type Directory struct {
	organizations []Organization
	advisers      []Person
	clients       []Person
}

var _ Service = (*Directory)(nil)

// directoryFile is the on-disk shape of the directory data.
type directoryFile struct {
	Organizations []Organization `json:"organizations"`
	Advisers      []Person       `json:"advisers"`
	Clients       []Person       `json:"clients"`
}

// NewDirectory creates a directory from explicit records.
func NewDirectory(orgs []Organization, advisers, clients []Person) *Directory {
	return &Directory{organizations: orgs, advisers: advisers, clients: clients}
}

// LoadDirectory reads directory records from a JSON file.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", path, err)
	}
	var f directoryFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse directory %s: %w", path, err)
	}
	return NewDirectory(f.Organizations, f.Advisers, f.Clients), nil
}

// Lookup dispatches the named capability against the directory.
func (d *Directory) Lookup(ctx context.Context, capability, query string) (string, error) {
	c, err := ParseCapability(capability)
	if err != nil {
		return "", err
	}

	var id int
	var found bool
	switch c {
	case OrganizationByName:
		id, found = d.organizationByName(query)
	case AdviserByName:
		id, found = personByName(d.advisers, query)
	case AdviserByEmail:
		id, found = personByEmail(d.advisers, query)
	case ClientByName:
		id, found = personByName(d.clients, query)
	case ClientByEmail:
		id, found = personByEmail(d.clients, query)
	}

	if !found {
		metrics.LookupRequestsTotal.WithLabelValues(string(c), "miss").Inc()
		return "", fmt.Errorf("%s %q: %w", c, query, domain.ErrLookupMiss)
	}
	metrics.LookupRequestsTotal.WithLabelValues(string(c), "hit").Inc()
	return strconv.Itoa(id), nil
}

// organizationByName matches when the record key or full name occurs inside
// the queried text, so "the ACME Corporation portal" still resolves.
func (d *Directory) organizationByName(query string) (int, bool) {
	q := strings.ToLower(query)
	for _, org := range d.organizations {
		if strings.Contains(q, strings.ToLower(org.Key)) ||
			strings.Contains(q, strings.ToLower(org.Name)) {
			return org.ID, true
		}
	}
	return 0, false
}

// personByName matches when the queried fragment occurs inside a record
// name, so "john" resolves John Doe. First match in directory order wins.
func personByName(people []Person, query string) (int, bool) {
	q := strings.ToLower(query)
	if q == "" {
		return 0, false
	}
	for _, p := range people {
		if strings.Contains(strings.ToLower(p.Name), q) {
			return p.ID, true
		}
	}
	return 0, false
}

func personByEmail(people []Person, query string) (int, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, p := range people {
		if strings.ToLower(p.Email) == q {
			return p.ID, true
		}
	}
	return 0, false
}
