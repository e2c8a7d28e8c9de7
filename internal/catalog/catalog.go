// Package catalog loads the route catalog file and fingerprints it for
// change detection.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/pathfinder/internal/domain"
)

// Load parses the catalog file into route entries. Malformed JSON or a
// missing required field (title, description, url) fails the whole load
// with domain.ErrCatalogFormat; a partial catalog never reaches an index
// build.
func Load(path string) ([]domain.RouteEntry, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var entries []domain.RouteEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %v: %w", path, err, domain.ErrCatalogFormat)
	}

	for i, e := range entries {
		if err := validate(e); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
	}

	return entries, nil
}

func validate(e domain.RouteEntry) error {
	switch {
	case e.Title == "":
		return fmt.Errorf("missing title: %w", domain.ErrCatalogFormat)
	case e.Description == "":
		return fmt.Errorf("missing description: %w", domain.ErrCatalogFormat)
	case e.URL == "":
		return fmt.Errorf("missing url: %w", domain.ErrCatalogFormat)
	}
	return nil
}
