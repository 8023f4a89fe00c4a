package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driven"
	"github.com/custodia-labs/docscan/internal/core/ports/driving"
	"github.com/custodia-labs/docscan/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.Session = (*Session)(nil)

// Session owns the current batch. The store holds the authoritative copy so
// that edits survive between CLI invocations; the session serialises writers.
type Session struct {
	processor driving.BatchProcessor
	store     driven.DocumentStore
	images    driven.ImageStore

	mu      sync.Mutex
	running bool
}

// NewSession creates a processing session.
func NewSession(processor driving.BatchProcessor, store driven.DocumentStore, images driven.ImageStore) *Session {
	return &Session{
		processor: processor,
		store:     store,
		images:    images,
	}
}

// StartBatch processes files as a new batch that replaces the current one.
// The previous batch is kept if processing or saving the new one fails.
func (s *Session) StartBatch(
	ctx context.Context,
	files []domain.SourceFile,
	onProgress domain.ProgressFunc,
) (*domain.Batch, error) {
	if len(files) == 0 {
		batch, err := s.Current(ctx)
		if errors.Is(err, domain.ErrNoActiveBatch) {
			return nil, nil
		}
		return batch, err
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, domain.ErrBatchInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	batch, err := s.processor.Process(ctx, files, onProgress)
	if err != nil {
		logger.Error("Batch failed: %v", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, err := s.store.LatestBatch(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.releaseImages(batch)
		return nil, fmt.Errorf("load batch: %w", err)
	}
	if err := s.store.SaveBatch(ctx, batch); err != nil {
		s.releaseImages(batch)
		return nil, fmt.Errorf("save batch: %w", err)
	}
	logger.Info("Batch %s saved with %d document(s)", batch.ID, len(batch.Documents))

	// The previous batch is only dropped once its replacement is stored.
	if previous != nil {
		if err := s.discardBatch(ctx, previous); err != nil {
			logger.Warn("Discarding batch %s: %v", previous.ID, err)
		}
	}
	return batch.Clone(), nil
}

// Current returns a copy of the current batch.
func (s *Session) Current(ctx context.Context) (*domain.Batch, error) {
	batch, err := s.store.LatestBatch(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoActiveBatch
	}
	if err != nil {
		return nil, fmt.Errorf("load batch: %w", err)
	}
	return batch, nil
}

// Document returns a copy of one document of the current batch.
func (s *Session) Document(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.store.GetDocument(ctx, documentID)
}

// AddTag adds a tag to a document. Manual tags are not capped.
func (s *Session) AddTag(ctx context.Context, documentID, tag string) (bool, error) {
	return s.edit(ctx, documentID, func(d *domain.Document) bool {
		return d.AddTag(tag)
	})
}

// RemoveTag removes the first exact match of tag.
func (s *Session) RemoveTag(ctx context.Context, documentID, tag string) (bool, error) {
	return s.edit(ctx, documentID, func(d *domain.Document) bool {
		return d.RemoveTag(tag)
	})
}

// EditPageText replaces the text of one page and rebuilds the document text.
func (s *Session) EditPageText(ctx context.Context, documentID string, page int, text string) (bool, error) {
	return s.edit(ctx, documentID, func(d *domain.Document) bool {
		return d.EditPageText(page, text)
	})
}

// EditText replaces the text of a single-page document.
func (s *Session) EditText(ctx context.Context, documentID, text string) (bool, error) {
	return s.edit(ctx, documentID, func(d *domain.Document) bool {
		return d.EditText(text)
	})
}

// Export renders a document, or one of its pages when page > 0.
func (s *Session) Export(ctx context.Context, documentID string, page int) (domain.Export, error) {
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return domain.Export{}, err
	}
	if page > 0 {
		return doc.ExportPage(page)
	}
	return doc.Export(), nil
}

// Reset discards the current batch and releases its images.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return domain.ErrBatchInProgress
	}
	return s.discardLocked(ctx)
}

// edit applies fn to a stored document and persists it if anything changed.
func (s *Session) edit(ctx context.Context, documentID string, fn func(*domain.Document) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return false, err
	}
	if !fn(doc) {
		return false, nil
	}
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return false, fmt.Errorf("save document: %w", err)
	}
	return true, nil
}

// discardLocked deletes the current batch. Caller must hold mu.
func (s *Session) discardLocked(ctx context.Context) error {
	batch, err := s.store.LatestBatch(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load batch: %w", err)
	}
	return s.discardBatch(ctx, batch)
}

// discardBatch deletes a stored batch and releases its images.
func (s *Session) discardBatch(ctx context.Context, batch *domain.Batch) error {
	if err := s.store.DeleteBatch(ctx, batch.ID); err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	s.releaseImages(batch)
	logger.Debug("Discarded batch %s", batch.ID)
	return nil
}

// releaseImages frees the page images of a batch. Release must still run
// when ctx was cancelled.
func (s *Session) releaseImages(batch *domain.Batch) {
	refs := batch.ImageRefs()
	if len(refs) == 0 {
		return
	}
	if err := s.images.Release(context.Background(), refs...); err != nil {
		logger.Warn("Releasing images of batch %s: %v", batch.ID, err)
	}
}
