package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Stored values are copies; callers never share state with the store.
type DocumentStore struct {
	mu        sync.RWMutex
	batches   map[string]*domain.Batch
	order     []string
	documents map[string]*domain.Document
	positions map[string]int
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		batches:   make(map[string]*domain.Batch),
		documents: make(map[string]*domain.Document),
		positions: make(map[string]int),
	}
}

// SaveBatch stores a batch and its documents.
func (s *DocumentStore) SaveBatch(_ context.Context, batch *domain.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.batches[batch.ID]; !exists {
		s.order = append(s.order, batch.ID)
	}
	c := batch.Clone()
	for i, d := range c.Documents {
		d.BatchID = batch.ID
		s.documents[d.ID] = d
		s.positions[d.ID] = i
	}
	c.Documents = nil
	s.batches[batch.ID] = c
	return nil
}

// GetBatch retrieves a batch with its documents.
func (s *DocumentStore) GetBatch(_ context.Context, id string) (*domain.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batchLocked(id)
}

// LatestBatch returns the most recently saved batch.
func (s *DocumentStore) LatestBatch(_ context.Context) (*domain.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.order) == 0 {
		return nil, domain.ErrNotFound
	}
	return s.batchLocked(s.order[len(s.order)-1])
}

// DeleteBatch removes a batch and its documents.
func (s *DocumentStore) DeleteBatch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.batches, id)
	for i, bid := range s.order {
		if bid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for docID, d := range s.documents {
		if d.BatchID == id {
			delete(s.documents, docID)
			delete(s.positions, docID)
		}
	}
	return nil
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = doc.Clone()
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc.Clone(), nil
}

// ListDocuments returns the documents of a batch in upload order.
// An unknown batch has no documents.
func (s *DocumentStore) ListDocuments(_ context.Context, batchID string) ([]*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.documentsLocked(batchID), nil
}

// batchLocked assembles a copy of a batch. Caller must hold mu.
func (s *DocumentStore) batchLocked(id string) (*domain.Batch, error) {
	b, ok := s.batches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := b.Clone()
	c.Documents = s.documentsLocked(id)
	return c, nil
}

// documentsLocked returns copies of a batch's documents sorted by upload position.
func (s *DocumentStore) documentsLocked(batchID string) []*domain.Document {
	docs := make([]*domain.Document, 0)
	for _, d := range s.documents {
		if d.BatchID == batchID {
			docs = append(docs, d.Clone())
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return s.positions[docs[i].ID] < s.positions[docs[j].ID]
	})
	return docs
}
