package domain

import "strings"

// RouteEntry is one item of the navigation catalog. Identity is positional
// within the catalog file; entries are immutable once loaded into an index
// generation.
type RouteEntry struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags,omitempty"`
	Service     string   `json:"service,omitempty"`
	HasAccess   []string `json:"hasAccess,omitempty"`
}

// DocumentText renders the embedding-ready text blob for the entry:
// title + description + flattened tags.
func (r RouteEntry) DocumentText() string {
	var b strings.Builder
	b.WriteString(r.Title)
	b.WriteString(". ")
	b.WriteString(r.Description)
	if len(r.Tags) > 0 {
		b.WriteString(" Tags: ")
		b.WriteString(strings.Join(r.Tags, ", "))
	}
	return b.String()
}

// IndexedDocument is the embedded form of a RouteEntry: the text blob that
// was vectorized plus the full source entry as metadata.
type IndexedDocument struct {
	Text  string     `json:"text"`
	Route RouteEntry `json:"route"`
}

// NewIndexedDocument derives a document from a catalog entry.
func NewIndexedDocument(r RouteEntry) IndexedDocument {
	return IndexedDocument{Text: r.DocumentText(), Route: r}
}

// RetrievedMatch pairs a document with its distance from the query vector.
// Smaller distance means a closer match. Ephemeral, produced per query.
type RetrievedMatch struct {
	Document IndexedDocument
	Distance float64
}
