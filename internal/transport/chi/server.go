// Package chi exposes the HTTP API on a go-chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pathfinder/internal/domain"
	"github.com/kailas-cloud/pathfinder/internal/index"
	healthuc "github.com/kailas-cloud/pathfinder/internal/usecase/health"
)

// ErrorCode identifies an error category in API responses.
type ErrorCode string

const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeIndexNotReady      ErrorCode = "index_not_ready"
	CodeRebuildInProgress  ErrorCode = "rebuild_in_progress"
	CodeCatalogInvalid     ErrorCode = "catalog_invalid"
	CodeBackendUnavailable ErrorCode = "backend_unavailable"
	CodeEmbeddingError     ErrorCode = "embedding_provider_error"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the error payload shape for all endpoints.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// RebuildResponse reports the outcome of a forced index rebuild.
type RebuildResponse struct {
	Status      string `json:"status"`
	Documents   int    `json:"documents"`
	Fingerprint string `json:"fingerprint"`
}

// HealthResponse is the payload for GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Suggester answers a navigation query.
type Suggester interface {
	Suggest(ctx context.Context, query string) (domain.SuggestionResponse, error)
}

// IndexRebuilder forces a full index rebuild.
type IndexRebuilder interface {
	Rebuild(ctx context.Context) (*index.Index, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes API requests to the use case services.
type Server struct {
	suggester     Suggester
	rebuilder     IndexRebuilder
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	suggester Suggester,
	rebuilder IndexRebuilder,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		suggester: suggester,
		rebuilder: rebuilder,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrIndexNotReady, http.StatusServiceUnavailable, CodeIndexNotReady),
		sentinelHandler(domain.ErrRebuildInProgress, http.StatusConflict, CodeRebuildInProgress),
		sentinelHandler(domain.ErrCatalogFormat, http.StatusBadRequest, CodeCatalogInvalid),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusBadGateway, CodeBackendUnavailable),
		sentinelHandler(domain.ErrBackendEmptyResponse, http.StatusBadGateway, CodeBackendUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingError),
	}
	return s
}

// Routes mounts all API endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/ask", s.Ask)
	r.Post("/rebuild-index", s.RebuildIndex)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Ask handles GET /ask?query=...
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "query parameter is required")
		return
	}

	resp, err := s.suggester.Suggest(r.Context(), query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// RebuildIndex handles POST /rebuild-index.
func (s *Server) RebuildIndex(w http.ResponseWriter, r *http.Request) {
	ix, err := s.rebuilder.Rebuild(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RebuildResponse{
		Status:      "ok",
		Documents:   ix.Len(),
		Fingerprint: ix.Fingerprint(),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrIndexNotReady,
		domain.ErrRebuildInProgress,
		domain.ErrCatalogFormat,
		domain.ErrBackendUnavailable,
		domain.ErrBackendEmptyResponse,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
