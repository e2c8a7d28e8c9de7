package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kailas-cloud/pathfinder/internal/domain"
)

type mockRetriever struct {
	matches []domain.RetrievedMatch
	err     error
	lastK   int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, k int) ([]domain.RetrievedMatch, error) {
	m.lastK = k
	return m.matches, m.err
}

type mockCompleter struct {
	text   string
	err    error
	called bool
	prompt string
}

func (m *mockCompleter) Complete(_ context.Context, prompt string) (string, error) {
	m.called = true
	m.prompt = prompt
	return m.text, m.err
}

func TestSuggestPipeline(t *testing.T) {
	retriever := &mockRetriever{matches: calendarMatches()}
	completer := &mockCompleter{text: `{
		"suggestions": [
			{"title": "Adviser Profile", "path": "/advisers/:id",
			 "description": "Adviser details",
			 "service": "get_adviser_id_by_email", "param": "john.doe@example.com"}
		],
		"explanation": "Found an adviser page."
	}`}
	lookup := &mockLookup{ids: map[string]string{
		"get_adviser_id_by_email/john.doe@example.com": "101",
	}}

	svc := New(retriever, completer, NewResolver(lookup))
	resp, err := svc.Suggest(context.Background(), "show john doe's adviser page")
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(resp.Suggestions) != 1 {
		t.Fatalf("suggestions = %d, want 1", len(resp.Suggestions))
	}
	if resp.Suggestions[0].Path != "/advisers/101" {
		t.Errorf("path = %q, want /advisers/101", resp.Suggestions[0].Path)
	}
	if !strings.Contains(completer.prompt, "View Calendar") {
		t.Error("prompt missing retrieved candidate metadata")
	}
	if retriever.lastK != defaultTopK {
		t.Errorf("k = %d, want %d", retriever.lastK, defaultTopK)
	}
}

func TestSuggestEmptyRetrievalShortCircuits(t *testing.T) {
	completer := &mockCompleter{text: `{"suggestions": [], "explanation": "x"}`}
	svc := New(&mockRetriever{}, completer, NewResolver(&mockLookup{}))

	resp, err := svc.Suggest(context.Background(), "quantum flux capacitor")
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if completer.called {
		t.Error("backend invoked despite empty retrieval")
	}
	if resp.Explanation != domain.NoMatchExplanation {
		t.Errorf("explanation = %q", resp.Explanation)
	}
	if resp.Suggestions == nil || len(resp.Suggestions) != 0 {
		t.Errorf("suggestions = %v, want empty non-nil", resp.Suggestions)
	}
}

func TestSuggestRetrieverError(t *testing.T) {
	svc := New(
		&mockRetriever{err: domain.ErrIndexNotReady},
		&mockCompleter{},
		NewResolver(&mockLookup{}),
	)

	_, err := svc.Suggest(context.Background(), "q")
	if !errors.Is(err, domain.ErrIndexNotReady) {
		t.Fatalf("err = %v, want ErrIndexNotReady", err)
	}
}

func TestSuggestCompleterError(t *testing.T) {
	svc := New(
		&mockRetriever{matches: calendarMatches()},
		&mockCompleter{err: domain.ErrBackendUnavailable},
		NewResolver(&mockLookup{}),
	)

	_, err := svc.Suggest(context.Background(), "q")
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("err = %v, want ErrBackendUnavailable", err)
	}
}

func TestSuggestEmptyCompletionDegrades(t *testing.T) {
	completer := &mockCompleter{
		err: fmt.Errorf("empty completion content: %w", domain.ErrBackendEmptyResponse),
	}
	svc := New(&mockRetriever{matches: calendarMatches()}, completer, NewResolver(&mockLookup{}))

	resp, err := svc.Suggest(context.Background(), "q")
	if err != nil {
		t.Fatalf("Suggest() error = %v, empty completion must not error", err)
	}
	if resp.Explanation != explainNoResponse {
		t.Errorf("explanation = %q, want %q", resp.Explanation, explainNoResponse)
	}
	if resp.Suggestions == nil || len(resp.Suggestions) != 0 {
		t.Errorf("suggestions = %v, want empty non-nil", resp.Suggestions)
	}
}

func TestSuggestMalformedCompletionDegrades(t *testing.T) {
	svc := New(
		&mockRetriever{matches: calendarMatches()},
		&mockCompleter{text: "sure, here you go!"},
		NewResolver(&mockLookup{}),
	)

	resp, err := svc.Suggest(context.Background(), "q")
	if err != nil {
		t.Fatalf("Suggest() error = %v, malformed output must not error", err)
	}
	if len(resp.Suggestions) != 0 {
		t.Errorf("suggestions = %d, want 0", len(resp.Suggestions))
	}
	if resp.Explanation != explainParseFailure {
		t.Errorf("explanation = %q", resp.Explanation)
	}
}

func TestSuggestWithTopK(t *testing.T) {
	retriever := &mockRetriever{matches: calendarMatches()}
	completer := &mockCompleter{text: `{"suggestions": [], "explanation": "x"}`}
	svc := New(retriever, completer, NewResolver(&mockLookup{})).WithTopK(3)

	if _, err := svc.Suggest(context.Background(), "q"); err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if retriever.lastK != 3 {
		t.Errorf("k = %d, want 3", retriever.lastK)
	}
}
