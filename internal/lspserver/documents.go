package lspserver

import (
	"sync"

	"github.com/rime-ls/rime-ls/internal/protocol"
	"github.com/rime-ls/rime-ls/internal/rope"
)

// DocumentStore tracks one rope.Document per open URI, guarded by a single
// RWMutex. Grounded directly on Keystorm's internal/lsp/document.go
// DocumentManager — the same map-behind-one-lock shape, not a sharded
// concurrent map, since open documents per editor session number in the
// tens, not enough to make lock contention a concern.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentURI]*rope.Document
}

// NewDocumentStore creates an empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[protocol.DocumentURI]*rope.Document)}
}

// Open records a newly opened document (textDocument/didOpen).
func (s *DocumentStore) Open(uri protocol.DocumentURI, text string) {
	doc := rope.NewDocument(text)
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
}

// Get returns the document for uri, or nil if it isn't open.
func (s *DocumentStore) Get(uri protocol.DocumentURI) *rope.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// Close discards the document for uri (textDocument/didClose).
func (s *DocumentStore) Close(uri protocol.DocumentURI) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}
