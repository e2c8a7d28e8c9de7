package index

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pathfinder/internal/catalog"
	"github.com/kailas-cloud/pathfinder/internal/domain"
	"github.com/kailas-cloud/pathfinder/internal/metrics"
)

// State is the lifecycle state of the served index.
type State int32

const (
	// StateUninitialized means no index generation has been loaded yet.
	StateUninitialized State = iota
	// StateLoaded means the served index matches its last-checked fingerprint.
	StateLoaded
	// StateStale means the catalog changed since the served index was built.
	StateStale
	// StateRebuilding means a rebuild is in flight.
	StateRebuilding
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoaded:
		return "loaded"
	case StateStale:
		return "stale"
	case StateRebuilding:
		return "rebuilding"
	default:
		return "unknown"
	}
}

// Manager owns the served index generation. Readers get the current index
// through an atomic pointer, so a rebuild swap is never observed partially.
// Rebuild is not re-entrant: a second request while one is in flight is
// rejected with domain.ErrRebuildInProgress.
type Manager struct {
	catalogPath    string
	store          *Store
	builder        *Builder
	logger         *zap.Logger
	rebuildTimeout time.Duration

	current   atomic.Pointer[Index]
	state     atomic.Int32
	rebuildMu sync.Mutex
}

// NewManager creates a lifecycle manager over the catalog, store, and builder.
func NewManager(catalogPath string, store *Store, builder *Builder, logger *zap.Logger) *Manager {
	return &Manager{
		catalogPath: catalogPath,
		store:       store,
		builder:     builder,
		logger:      logger,
	}
}

// WithRebuildTimeout caps each rebuild, startup included. Zero leaves the
// caller's context deadline in charge.
func (m *Manager) WithRebuildTimeout(d time.Duration) *Manager {
	if d > 0 {
		m.rebuildTimeout = d
	}
	return m
}

// EnsureReady loads the persisted index when its stored fingerprint matches
// the current catalog fingerprint, and rebuilds otherwise. Called once on
// startup before the manager serves queries.
func (m *Manager) EnsureReady(ctx context.Context) error {
	fp, err := catalog.Fingerprint(m.catalogPath)
	if err != nil {
		return err
	}

	stored, err := m.store.LoadFingerprint()
	if err == nil && stored != "" && stored == fp {
		ix, loadErr := m.store.Load()
		if loadErr == nil && ix.Fingerprint() == fp {
			m.current.Store(ix)
			m.state.Store(int32(StateLoaded))
			m.logger.Info("Loaded persisted index",
				zap.Int("documents", ix.Len()),
				zap.String("fingerprint", fp),
			)
			return nil
		}
		m.logger.Warn("Persisted index unusable, rebuilding", zap.Error(loadErr))
	} else if stored != "" && stored != fp {
		m.logger.Info("Catalog changed since last build, rebuilding",
			zap.String("stored_fingerprint", stored),
			zap.String("current_fingerprint", fp),
		)
	}

	_, err = m.Rebuild(ctx)
	return err
}

// Current returns the last successfully loaded index generation.
func (m *Manager) Current() (*Index, error) {
	ix := m.current.Load()
	if ix == nil {
		return nil, domain.ErrIndexNotReady
	}
	return ix, nil
}

// State reports the lifecycle state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// CheckStale re-fingerprints the catalog and marks the manager stale when
// the served index no longer matches. Not run per query; only on explicit
// rebuild requests or startup.
func (m *Manager) CheckStale() (bool, error) {
	fp, err := catalog.Fingerprint(m.catalogPath)
	if err != nil {
		return false, err
	}
	ix := m.current.Load()
	if ix == nil {
		return true, nil
	}
	if ix.Fingerprint() != fp {
		m.state.Store(int32(StateStale))
		return true, nil
	}
	return false, nil
}

// Rebuild synchronously builds a fresh index from the catalog and swaps it
// in atomically. On any failure, including a cancelled context, the previous
// index remains current and the error is surfaced.
func (m *Manager) Rebuild(ctx context.Context) (*Index, error) {
	if !m.rebuildMu.TryLock() {
		return nil, domain.ErrRebuildInProgress
	}
	defer m.rebuildMu.Unlock()

	if m.rebuildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.rebuildTimeout)
		defer cancel()
	}

	// Record the Loaded->Stale transition before the build replaces it; a
	// failed build then reports the index as stale, not loaded.
	if m.current.Load() != nil {
		if stale, err := m.CheckStale(); err == nil && stale {
			m.logger.Info("Catalog changed since the served index was built")
		}
	}

	prev := m.state.Swap(int32(StateRebuilding))

	ix, err := m.builder.Build(ctx, m.catalogPath)
	if err != nil {
		m.state.Store(prev)
		metrics.IndexRebuildsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	// Persist failure is non-fatal for serving: the in-memory index is
	// good, and skipping the fingerprint save forces a rebuild next boot.
	if err := m.store.Persist(ix); err != nil {
		m.logger.Warn("Failed to persist index, serving in-memory only", zap.Error(err))
	}

	m.current.Store(ix)
	m.state.Store(int32(StateLoaded))
	metrics.IndexRebuildsTotal.WithLabelValues("success").Inc()
	return ix, nil
}
