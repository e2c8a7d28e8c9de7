package index

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/kailas-cloud/pathfinder/internal/domain"
)

const (
	manifestFile    = "manifest.json"
	documentsFile   = "documents.jsonl"
	vectorsFile     = "vectors.f32"
	fingerprintFile = "fingerprint.txt"
	lockFile        = ".lock"
)

// manifest describes the persisted index layout and provenance.
type manifest struct {
	Dim       int    `json:"dim"`
	Count     int    `json:"count"`
	CreatedAt string `json:"created_at"`
}

// Store persists index generations in a durable directory: a manifest, the
// documents as JSONL, the vectors as little-endian float32, and the catalog
// fingerprint as a separate plain-text file. A file lock guards against two
// processes writing the same store path.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created lazily
// on the first persist.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads the persisted index. Any failure (absent directory, missing
// files, corrupt content) maps to domain.ErrStoreNotFound; the caller
// recovers by rebuilding from the source catalog.
func (s *Store) Load() (*Index, error) {
	mb, err := os.ReadFile(filepath.Join(s.dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %v: %w", err, domain.ErrStoreNotFound)
	}
	var m manifest
	if err := json.Unmarshal(mb, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %v: %w", err, domain.ErrStoreNotFound)
	}
	if m.Dim <= 0 || m.Count < 0 {
		return nil, fmt.Errorf("manifest dim=%d count=%d: %w", m.Dim, m.Count, domain.ErrStoreNotFound)
	}

	docs, err := s.loadDocuments()
	if err != nil {
		return nil, err
	}
	if len(docs) != m.Count {
		return nil, fmt.Errorf("document count %d does not match manifest %d: %w",
			len(docs), m.Count, domain.ErrStoreNotFound)
	}

	vectors, err := s.loadVectors(m.Count, m.Dim)
	if err != nil {
		return nil, err
	}

	fp, err := s.LoadFingerprint()
	if err != nil {
		return nil, fmt.Errorf("read fingerprint: %v: %w", err, domain.ErrStoreNotFound)
	}

	ix, err := New(fp, m.Dim, docs, vectors)
	if err != nil {
		return nil, fmt.Errorf("assemble index: %v: %w", err, domain.ErrStoreNotFound)
	}
	return ix, nil
}

// Persist writes the index and its fingerprint to the store directory.
// The fingerprint is written last so a crash mid-write leaves a store that
// fails the provenance check and triggers a rebuild.
func (s *Store) Persist(ix *Index) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir %s: %w", s.dir, err)
	}

	lock := flock.New(filepath.Join(s.dir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock store dir %s: %w", s.dir, err)
	}
	if !locked {
		return fmt.Errorf("store dir %s is locked by another writer", s.dir)
	}
	defer func() { _ = lock.Unlock() }()

	m := manifest{
		Dim:       ix.Dim(),
		Count:     ix.Len(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	mb, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, manifestFile), mb, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	if err := s.writeDocuments(ix.Documents()); err != nil {
		return err
	}
	if err := s.writeVectors(ix.Vectors()); err != nil {
		return err
	}

	return s.SaveFingerprint(ix.Fingerprint())
}

// LoadFingerprint reads the last-built catalog fingerprint. An absent file
// is a cold start, not an error: it returns ("", nil).
func (s *Store) LoadFingerprint() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, fingerprintFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read fingerprint: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveFingerprint writes the catalog fingerprint as plain text.
func (s *Store) SaveFingerprint(fp string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir %s: %w", s.dir, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, fingerprintFile), []byte(fp+"\n"), 0o644); err != nil {
		return fmt.Errorf("write fingerprint: %w", err)
	}
	return nil
}

func (s *Store) writeDocuments(docs []domain.IndexedDocument) error {
	f, err := os.Create(filepath.Join(s.dir, documentsFile))
	if err != nil {
		return fmt.Errorf("create documents file: %w", err)
	}
	defer func() { _ = f.Close() }()

	bw := bufio.NewWriter(f)
	for _, d := range docs {
		line, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("marshal document: %w", err)
		}
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("write document: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write document: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush documents: %w", err)
	}
	return f.Close()
}

func (s *Store) writeVectors(vectors [][]float32) error {
	f, err := os.Create(filepath.Join(s.dir, vectorsFile))
	if err != nil {
		return fmt.Errorf("create vectors file: %w", err)
	}
	defer func() { _ = f.Close() }()

	for _, v := range vectors {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write vectors: %w", err)
		}
	}
	return f.Close()
}

func (s *Store) loadDocuments() ([]domain.IndexedDocument, error) {
	f, err := os.Open(filepath.Join(s.dir, documentsFile))
	if err != nil {
		return nil, fmt.Errorf("open documents file: %v: %w", err, domain.ErrStoreNotFound)
	}
	defer func() { _ = f.Close() }()

	docs := []domain.IndexedDocument{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var d domain.IndexedDocument
		if err := json.Unmarshal(line, &d); err != nil {
			return nil, fmt.Errorf("parse document line: %v: %w", err, domain.ErrStoreNotFound)
		}
		docs = append(docs, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read documents file: %v: %w", err, domain.ErrStoreNotFound)
	}
	return docs, nil
}

func (s *Store) loadVectors(count, dim int) ([][]float32, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, vectorsFile))
	if err != nil {
		return nil, fmt.Errorf("read vectors file: %v: %w", err, domain.ErrStoreNotFound)
	}
	if len(data) != count*dim*4 {
		return nil, fmt.Errorf("vectors file length %d, want %d: %w",
			len(data), count*dim*4, domain.ErrStoreNotFound)
	}

	vectors := make([][]float32, count)
	off := 0
	for i := range vectors {
		v := make([]float32, dim)
		for j := range v {
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vectors[i] = v
	}
	return vectors, nil
}
