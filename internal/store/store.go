// Package store keeps unfolded collections in memory.
package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/docfold/docfold/internal/docmodel"
)

// Store is a thread-safe in-memory collection registry with optional TTL
// eviction. Collections it hands out are immutable snapshots; Append swaps
// in a replacement rather than mutating, so readers never observe a
// half-updated collection.
type Store struct {
	mu          sync.Mutex
	collections map[string]*docmodel.Collection
	ttl         time.Duration
}

// New creates a Store. ttl <= 0 disables eviction.
func New(ttl time.Duration) *Store {
	return &Store{
		collections: make(map[string]*docmodel.Collection),
		ttl:         ttl,
	}
}

// Put stores or replaces a collection.
func (s *Store) Put(c *docmodel.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[c.ID] = c
}

// Get returns a collection by ID, or nil.
func (s *Store) Get(id string) *docmodel.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collections[id]
}

// Delete removes a collection. It reports whether the ID existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.collections[id]
	delete(s.collections, id)
	return ok
}

// List returns summaries of all collections, newest first.
func (s *Store) List() []docmodel.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]docmodel.Summary, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, c.Summarize())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Append adds a document to the tail of a collection, replacing the stored
// snapshot with a new one. The document's Index is assigned here.
func (s *Store) Append(id string, doc *docmodel.Document) (*docmodel.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.collections[id]
	if !ok {
		return nil, fmt.Errorf("collection %s not found", id)
	}

	doc.Index = len(old.Documents)

	docs := make([]*docmodel.Document, len(old.Documents)+1)
	copy(docs, old.Documents)
	docs[len(old.Documents)] = doc

	updated := *old
	updated.Documents = docs
	updated.UpdatedAt = time.Now()
	updated.SourceHash = docmodel.StreamHash(updated.Refold())

	s.collections[id] = &updated
	return &updated, nil
}

// Cleanup removes collections idle longer than the TTL.
func (s *Store) Cleanup() {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, c := range s.collections {
		if now.Sub(c.UpdatedAt) > s.ttl {
			delete(s.collections, id)
		}
	}
}
