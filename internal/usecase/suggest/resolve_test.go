package suggest

import (
	"context"
	"testing"

	"github.com/kailas-cloud/pathfinder/internal/domain"
)

type mockLookup struct {
	ids   map[string]string
	err   error
	calls []string
}

func (m *mockLookup) Lookup(_ context.Context, capability, query string) (string, error) {
	m.calls = append(m.calls, capability+"/"+query)
	if m.err != nil {
		return "", m.err
	}
	id, ok := m.ids[capability+"/"+query]
	if !ok {
		return "", domain.ErrLookupMiss
	}
	return id, nil
}

func TestResolveSubstitutesPlaceholder(t *testing.T) {
	lookup := &mockLookup{ids: map[string]string{
		"get_adviser_id_by_email/john.doe@example.com": "101",
	}}
	r := NewResolver(lookup)

	out := r.Resolve(context.Background(), []domain.Suggestion{{
		Title:   "Adviser Profile",
		Path:    "/advisers/:id",
		Service: "get_adviser_id_by_email",
		Param:   "john.doe@example.com",
	}})

	if out[0].Path != "/advisers/101" {
		t.Fatalf("path = %q, want /advisers/101", out[0].Path)
	}
}

func TestResolveLookupMissLeavesPath(t *testing.T) {
	r := NewResolver(&mockLookup{ids: map[string]string{}})

	out := r.Resolve(context.Background(), []domain.Suggestion{{
		Path:    "/advisers/:id",
		Service: "get_adviser_id_by_email",
		Param:   "nobody@example.com",
	}})

	if out[0].Path != "/advisers/:id" {
		t.Fatalf("path = %q, want template unchanged", out[0].Path)
	}
}

func TestResolveUnknownCapabilityLeavesPath(t *testing.T) {
	r := NewResolver(&mockLookup{err: domain.ErrUnknownCapability})

	out := r.Resolve(context.Background(), []domain.Suggestion{{
		Path:    "/things/:id",
		Service: "get_thing_id_by_vibe",
		Param:   "x",
	}})

	if out[0].Path != "/things/:id" {
		t.Fatalf("path = %q, want template unchanged", out[0].Path)
	}
}

func TestResolveSkipsWithoutServiceOrParam(t *testing.T) {
	lookup := &mockLookup{ids: map[string]string{}}
	r := NewResolver(lookup)

	r.Resolve(context.Background(), []domain.Suggestion{
		{Path: "/calendar"},
		{Path: "/advisers/:id", Service: "get_adviser_id_by_name"},
		{Path: "/clients/:id", Param: "acme"},
	})

	if len(lookup.calls) != 0 {
		t.Fatalf("lookup called %d times for incomplete suggestions", len(lookup.calls))
	}
}

func TestResolvePreservesOrderAndLength(t *testing.T) {
	lookup := &mockLookup{ids: map[string]string{
		"get_client_id_by_name/acme": "201",
	}}
	r := NewResolver(lookup)

	in := []domain.Suggestion{
		{Title: "a", Path: "/calendar"},
		{Title: "b", Path: "/clients/:id", Service: "get_client_id_by_name", Param: "acme"},
		{Title: "c", Path: "/settings"},
	}
	out := r.Resolve(context.Background(), in)

	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i, want := range []string{"a", "b", "c"} {
		if out[i].Title != want {
			t.Errorf("out[%d].Title = %q, want %q", i, out[i].Title, want)
		}
	}
	if out[1].Path != "/clients/201" {
		t.Errorf("out[1].Path = %q, want /clients/201", out[1].Path)
	}
	// Input must not be mutated.
	if in[1].Path != "/clients/:id" {
		t.Errorf("input mutated: %q", in[1].Path)
	}
}

func TestResolveNoPlaceholderInPath(t *testing.T) {
	lookup := &mockLookup{ids: map[string]string{
		"get_client_id_by_name/acme": "201",
	}}
	r := NewResolver(lookup)

	out := r.Resolve(context.Background(), []domain.Suggestion{{
		Path:    "/clients",
		Service: "get_client_id_by_name",
		Param:   "acme",
	}})

	if out[0].Path != "/clients" {
		t.Fatalf("path = %q, want unchanged", out[0].Path)
	}
}

func TestResolveEmptyInput(t *testing.T) {
	r := NewResolver(&mockLookup{})
	out := r.Resolve(context.Background(), nil)
	if out == nil || len(out) != 0 {
		t.Fatalf("out = %v, want empty non-nil", out)
	}
}
