package domain

import "errors"

var (
	// ErrCatalogFormat signals a malformed or incomplete route catalog.
	ErrCatalogFormat = errors.New("invalid catalog format")
	// ErrStoreNotFound signals an empty, absent, or unreadable index store.
	// Expected on cold start; the caller rebuilds from the catalog.
	ErrStoreNotFound = errors.New("index store not found")
	// ErrIndexNotReady signals that no index generation has been loaded yet.
	ErrIndexNotReady = errors.New("index not ready")
	// ErrRebuildInProgress signals a concurrent rebuild request.
	ErrRebuildInProgress = errors.New("index rebuild already in progress")
	// ErrBackendUnavailable signals a completion backend transport failure.
	ErrBackendUnavailable = errors.New("completion backend unavailable")
	// ErrBackendEmptyResponse signals a well-formed completion envelope
	// carrying no usable text.
	ErrBackendEmptyResponse = errors.New("completion backend returned no content")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrLookupMiss signals that the identifier lookup found no match.
	ErrLookupMiss = errors.New("identifier not found")
	// ErrUnknownCapability signals an unrecognized lookup service name.
	ErrUnknownCapability = errors.New("unknown lookup capability")
)
