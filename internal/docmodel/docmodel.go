// Package docmodel holds the document collection data model.
package docmodel

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/docfold/docfold/internal/splitter"
)

// StreamHash computes the SHA-256 hex digest of a stream. It identifies
// collection content and verifies refold round-trips.
func StreamHash(stream string) string {
	h := sha256.Sum256([]byte(stream))
	return fmt.Sprintf("%x", h[:])
}

// Section is one heading-delimited span of a document body.
type Section struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Text    string `json:"text"`
}

// Document is one span of a folded stream plus the metadata derived from it
// by convention. Raw is always the verbatim span; everything else is
// best-effort extraction and may be empty.
type Document struct {
	Index     int       `json:"index"`
	Raw       string    `json:"raw"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	Sections  []Section `json:"sections,omitempty"`
	Blank     bool      `json:"blank"`
	WordCount int       `json:"word_count"`
}

// Collection is the ordered sequence of documents unfolded from one stream.
// Collections are treated as immutable snapshots: appending produces a new
// Documents slice rather than mutating the old one, so concurrent readers
// holding an earlier snapshot stay consistent.
type Collection struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Separator  string      `json:"-"`
	SourceHash string      `json:"source_hash"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Documents  []*Document `json:"-"`
}

// Refold reassembles the original stream from the documents' raw spans.
// For an unmodified collection the result is byte-identical to the
// ingested source.
func (c *Collection) Refold() string {
	raws := make([]string, len(c.Documents))
	for i, d := range c.Documents {
		raws[i] = d.Raw
	}
	return splitter.Join(raws, c.Separator)
}

// Summary is the JSON shape used when listing collections.
type Summary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DocumentCount int       `json:"document_count"`
	BlankCount    int       `json:"blank_count"`
	SourceHash    string    `json:"source_hash"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Summarize computes the list-view summary of a collection.
func (c *Collection) Summarize() Summary {
	blank := 0
	for _, d := range c.Documents {
		if d.Blank {
			blank++
		}
	}
	return Summary{
		ID:            c.ID,
		Name:          c.Name,
		DocumentCount: len(c.Documents),
		BlankCount:    blank,
		SourceHash:    c.SourceHash,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
