// Package docstore holds the process-wide cache of loaded PDF documents.
//
// Documents are kept fully in memory as base64 text so they can be embedded
// verbatim into a model request. The store never expires entries on its own;
// the only ways out are Remove and Clear. Identifiers are compared byte for
// byte with no normalization, and loading under an existing identifier
// overwrites silently.
package docstore

import (
	"fmt"
	"sort"
	"sync"

	apperrors "github.com/duynguyendang/pdfdesk/pkg/common/errors"
)

// Document is a single cached PDF.
type Document struct {
	// Identifier is the source URL, file path, or caller-chosen label.
	Identifier string
	// Data is the full document payload, base64-encoded.
	Data string
}

// Store is a concurrency-safe identifier -> document map. The REST server
// shares one Store across all requests, so every read-modify-write goes
// through the mutex.
type Store struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		docs: make(map[string]Document),
	}
}

// Put inserts or overwrites a document. The payload is stored as-is; format
// validation belongs to the loaders. An empty identifier is the one malformed
// input the store rejects.
func (s *Store) Put(identifier, data string) error {
	if identifier == "" {
		return fmt.Errorf("%w: empty identifier", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[identifier] = Document{Identifier: identifier, Data: data}
	return nil
}

// Get returns the document for an identifier. Absence is a normal outcome,
// reported through the bool, not an error.
func (s *Store) Get(identifier string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[identifier]
	return doc, ok
}

// List returns a snapshot of the cached identifiers, sorted so callers (and
// the injector) see a stable order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot returns the cached documents in identifier order.
func (s *Store) Snapshot() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Identifier < docs[j].Identifier })
	return docs
}

// Remove deletes one document. Removing a missing identifier is not an
// error; the bool reports whether anything was there.
func (s *Store) Remove(identifier string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[identifier]; !ok {
		return false
	}
	delete(s.docs, identifier)
	return true
}

// Clear empties the store and returns how many documents were dropped.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.docs)
	s.docs = make(map[string]Document)
	return count
}

// Len returns the number of cached documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
