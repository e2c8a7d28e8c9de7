package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ask" {
			t.Errorf("path = %q, want /ask", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "view calendar" {
			t.Errorf("query = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("auth header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"suggestions": [{"title": "View Calendar", "path": "/calendar", "description": "Shows events"}],
			"explanation": "Found a calendar page."
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithAPIKey("secret"))
	resp, err := c.Ask(context.Background(), "view calendar")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(resp.Suggestions) != 1 || resp.Suggestions[0].Path != "/calendar" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAsk_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"code": "index_not_ready", "message": "vector index is not ready"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Ask(context.Background(), "q")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable || apiErr.Code != "index_not_ready" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestRebuildIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rebuild-index" {
			t.Errorf("%s %s, want POST /rebuild-index", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok", "documents": 6, "fingerprint": "abc"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.RebuildIndex(context.Background())
	if err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	if resp.Documents != 6 || resp.Fingerprint != "abc" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHealth_Degraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status": "degraded", "checks": {"index": "error"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Health(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	// Report shape is still decoded alongside the error.
	if resp.Status != "degraded" || resp.Checks["index"] != "error" {
		t.Errorf("unexpected report: %+v", resp)
	}
}
