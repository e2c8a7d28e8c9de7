package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// fingerprintChunkSize is the read buffer for hashing the catalog file.
const fingerprintChunkSize = 4096

// Fingerprint computes the SHA-256 content digest of the catalog file,
// reading it in fixed-size chunks. Identical bytes always yield an
// identical digest.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	buf := make([]byte, fingerprintChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash catalog %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
