package driving

import (
	"context"

	"github.com/custodia-labs/docscan/internal/core/domain"
)

// BatchProcessor turns submitted files into document records.
type BatchProcessor interface {
	// Process recognises every file in order and reports each stage change
	// to onProgress, which may be nil.
	Process(ctx context.Context, files []domain.SourceFile, onProgress domain.ProgressFunc) (*domain.Batch, error)
}

// Session owns the current batch result and is its only write path.
//
// Lifecycle: StartBatch populates a new batch, replacing the previous one;
// Current and Document expose read-only copies; the edit methods mutate a
// single document; Reset discards everything.
type Session interface {
	// StartBatch processes files as a new batch. With no files it returns
	// the current batch unchanged.
	StartBatch(ctx context.Context, files []domain.SourceFile, onProgress domain.ProgressFunc) (*domain.Batch, error)

	// Current returns a copy of the current batch.
	// Returns domain.ErrNoActiveBatch when there is none.
	Current(ctx context.Context) (*domain.Batch, error)

	// Document returns a copy of one document of the current batch.
	Document(ctx context.Context, documentID string) (*domain.Document, error)

	// AddTag adds a tag. Reports false for blank or duplicate tags.
	AddTag(ctx context.Context, documentID, tag string) (bool, error)

	// RemoveTag removes the first exact match. Reports false when absent.
	RemoveTag(ctx context.Context, documentID, tag string) (bool, error)

	// EditPageText replaces one page's text. Reports false for blank text
	// or unknown pages.
	EditPageText(ctx context.Context, documentID string, page int, text string) (bool, error)

	// EditText replaces the text of a single-page document.
	EditText(ctx context.Context, documentID, text string) (bool, error)

	// Export renders a document, or one page of it when page > 0.
	Export(ctx context.Context, documentID string, page int) (domain.Export, error)

	// Reset discards the current batch and releases its images.
	Reset(ctx context.Context) error
}
