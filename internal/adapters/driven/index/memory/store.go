// Package memory provides an in-memory document store and vector index
// with the same publish semantics as the SQLite store. It backs tests
// and ephemeral runs where nothing should touch disk.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driven"
	"github.com/veridoc-labs/veridoc-cli/internal/vectormath"
)

// Store keeps documents and chunks in maps guarded by one RWMutex.
// Queries take the read lock, so concurrent searches never block each
// other; a status flip or delete is a single write-locked step, so
// readers see a document either fully published or not at all.
type Store struct {
	mu     sync.RWMutex
	docs   map[string]domain.Document
	chunks map[string][]domain.Chunk // by document ID
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		docs:   make(map[string]domain.Document),
		chunks: make(map[string][]domain.Chunk),
	}
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// VectorIndex returns a VectorIndex interface backed by this store.
func (s *Store) VectorIndex() driven.VectorIndex {
	return &vectorIndex{store: s}
}

// Close releases nothing; it exists for interface parity with the
// SQLite store.
func (s *Store) Close() error {
	return nil
}

// ==================== Document Store ====================

type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

func (s *documentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.docs[doc.ID] = *doc
	return nil
}

func (s *documentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	doc, ok := s.store.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (s *documentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.store.docs))
	for _, doc := range s.store.docs {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *documentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	stored := s.store.chunks[documentID]
	chunks := make([]domain.Chunk, len(stored))
	copy(chunks, stored)
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Index < chunks[j].Index
	})
	return chunks, nil
}

func (s *documentStore) SetStatus(_ context.Context, documentID string, status domain.DocumentStatus) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	doc, ok := s.store.docs[documentID]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Status = status
	s.store.docs[documentID] = doc
	return nil
}

func (s *documentStore) DeleteDocument(_ context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	delete(s.store.docs, id)
	delete(s.store.chunks, id)
	return nil
}

// ==================== Vector Index ====================

type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Insert stores the chunks of one document, replacing any previous
// chunks for it. Embeddings are unit-normalised on the way in.
func (idx *vectorIndex) Insert(_ context.Context, documentID string, chunks []domain.Chunk) error {
	stored := make([]domain.Chunk, len(chunks))
	for i, chunk := range chunks {
		stored[i] = chunk
		stored[i].Embedding = vectormath.Normalize(chunk.Embedding)
	}

	idx.store.mu.Lock()
	defer idx.store.mu.Unlock()
	idx.store.chunks[documentID] = stored
	return nil
}

// Search returns the k most similar ready chunks to the query vector,
// optionally restricted to one document.
func (idx *vectorIndex) Search(_ context.Context, query []float32, k int, documentID string) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}
	normQuery := vectormath.Normalize(query)

	idx.store.mu.RLock()
	defer idx.store.mu.RUnlock()

	var hits []driven.VectorHit
	for docID, chunks := range idx.store.chunks {
		if documentID != "" && docID != documentID {
			continue
		}
		if doc, ok := idx.store.docs[docID]; !ok || doc.Status != domain.StatusReady {
			continue
		}
		for _, chunk := range chunks {
			hits = append(hits, driven.VectorHit{
				Chunk: chunk,
				Score: vectormath.CosineScore(normQuery, chunk.Embedding),
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Delete removes all chunks of a document from the index.
func (idx *vectorIndex) Delete(_ context.Context, documentID string) error {
	idx.store.mu.Lock()
	defer idx.store.mu.Unlock()

	delete(idx.store.chunks, documentID)
	return nil
}

// Close releases nothing.
func (idx *vectorIndex) Close() error {
	return nil
}
