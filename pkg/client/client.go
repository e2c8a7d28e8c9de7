// Package client is a Go client for the pathfinder HTTP API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Suggestion is one suggested navigation target.
type Suggestion struct {
	Title       string `json:"title"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Service     string `json:"service,omitempty"`
	Param       string `json:"param,omitempty"`
}

// SuggestionResponse is the answer to a navigation query.
type SuggestionResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
	Explanation string       `json:"explanation"`
}

// RebuildResponse reports the outcome of a forced index rebuild.
type RebuildResponse struct {
	Status      string `json:"status"`
	Documents   int    `json:"documents"`
	Fingerprint string `json:"fingerprint"`
}

// HealthResponse is the service health report.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// APIError is a structured error returned by the server.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pathfinder: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

// Client calls the pathfinder API over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithAPIKey sets the bearer token sent on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Ask answers a natural-language navigation query.
func (c *Client) Ask(ctx context.Context, query string) (SuggestionResponse, error) {
	var resp SuggestionResponse
	target := "/ask?query=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, target, &resp); err != nil {
		return SuggestionResponse{}, err
	}
	return resp, nil
}

// RebuildIndex forces a full index rebuild from the catalog.
func (c *Client) RebuildIndex(ctx context.Context) (RebuildResponse, error) {
	var resp RebuildResponse
	if err := c.do(ctx, http.MethodPost, "/rebuild-index", &resp); err != nil {
		return RebuildResponse{}, err
	}
	return resp, nil
}

// Health reports the service health. A degraded service returns both the
// report and an *APIError carrying the 503 status.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+target, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: res.StatusCode}
		// Health returns its report shape even on 503, so keep decoding out.
		if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		if out != nil {
			_ = json.Unmarshal(body, out)
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
