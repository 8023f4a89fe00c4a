package driven

import (
	"context"

	"github.com/custodia-labs/docscan/internal/core/domain"
)

// DocumentStore persists the current batch and its documents.
// Backed by SQLite, with an in-memory implementation for tests.
type DocumentStore interface {
	// SaveBatch stores a batch and all of its documents.
	SaveBatch(ctx context.Context, batch *domain.Batch) error

	// GetBatch retrieves a batch with its documents in upload order.
	GetBatch(ctx context.Context, id string) (*domain.Batch, error)

	// LatestBatch returns the most recently started batch.
	// Returns domain.ErrNotFound when no batch exists.
	LatestBatch(ctx context.Context) (*domain.Batch, error)

	// DeleteBatch removes a batch and its documents.
	DeleteBatch(ctx context.Context, id string) error

	// SaveDocument stores or updates a single document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns the documents of a batch in upload order.
	ListDocuments(ctx context.Context, batchID string) ([]*domain.Document, error)
}

// ImageStore owns page image bytes. Documents hold only the returned handles.
type ImageStore interface {
	// Put stores an image and returns its handle.
	Put(ctx context.Context, img domain.PageImage) (string, error)

	// Get retrieves an image by handle.
	Get(ctx context.Context, ref string) (domain.PageImage, error)

	// Release discards images. Unknown handles are ignored.
	Release(ctx context.Context, refs ...string) error
}
