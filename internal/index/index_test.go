package index

import (
	"testing"

	"github.com/kailas-cloud/pathfinder/internal/domain"
)

func testDocs(titles ...string) []domain.IndexedDocument {
	docs := make([]domain.IndexedDocument, len(titles))
	for i, title := range titles {
		entry := domain.RouteEntry{Title: title, Description: "d", URL: "/" + title}
		docs[i] = domain.NewIndexedDocument(entry)
	}
	return docs
}

func TestNewValidation(t *testing.T) {
	docs := testDocs("a", "b")

	if _, err := New("fp", 0, docs, [][]float32{{1}, {2}}); err == nil {
		t.Error("expected error for zero dimension")
	}
	if _, err := New("fp", 1, docs, [][]float32{{1}}); err == nil {
		t.Error("expected error for count mismatch")
	}
	if _, err := New("fp", 2, docs, [][]float32{{1, 2}, {3}}); err == nil {
		t.Error("expected error for ragged vectors")
	}
	if _, err := New("fp", 2, docs, [][]float32{{1, 2}, {3, 4}}); err != nil {
		t.Errorf("valid index rejected: %v", err)
	}
}

func TestSearchOrdering(t *testing.T) {
	docs := testDocs("far", "near", "middle")
	vectors := [][]float32{
		{10, 0},
		{1, 0},
		{5, 0},
	}
	ix, err := New("fp", 2, docs, vectors)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	matches, err := ix.Search([]float32{0, 0}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}

	wantOrder := []string{"near", "middle", "far"}
	for i, want := range wantOrder {
		if matches[i].Document.Route.Title != want {
			t.Errorf("match %d = %q, want %q", i, matches[i].Document.Route.Title, want)
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Distance < matches[i-1].Distance {
			t.Errorf("distances not non-decreasing at %d", i)
		}
	}
}

func TestSearchLimitsToK(t *testing.T) {
	docs := testDocs("a", "b", "c", "d")
	vectors := [][]float32{{1}, {2}, {3}, {4}}
	ix, err := New("fp", 1, docs, vectors)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	matches, err := ix.Search([]float32{0}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("expected 2 matches, got %d", len(matches))
	}

	matches, err = ix.Search([]float32{0}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 4 {
		t.Errorf("k larger than index: expected 4 matches, got %d", len(matches))
	}

	matches, err = ix.Search([]float32{0}, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("k=0: expected no matches, got %d", len(matches))
	}
}

func TestSearchDimensionMismatch(t *testing.T) {
	ix, err := New("fp", 2, testDocs("a"), [][]float32{{1, 2}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ix.Search([]float32{1}, 1); err == nil {
		t.Error("expected dimension mismatch error")
	}
}
