package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveBatch stores a batch and all of its documents in one transaction.
func (s *documentStore) SaveBatch(ctx context.Context, batch *domain.Batch) error {
	failures := batch.Failures
	if failures == nil {
		failures = []domain.FileFailure{}
	}
	failuresJSON, err := json.Marshal(failures)
	if err != nil {
		return fmt.Errorf("marshalling failures: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO batches (id, failures, started_at, completed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			failures = excluded.failures,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at
	`, batch.ID, string(failuresJSON), batch.StartedAt, batch.CompletedAt)
	if err != nil {
		return fmt.Errorf("saving batch: %w", err)
	}

	for i, doc := range batch.Documents {
		d := *doc
		d.BatchID = batch.ID
		if err := saveDocument(ctx, tx, &d, i); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetBatch retrieves a batch with its documents.
func (s *documentStore) GetBatch(ctx context.Context, id string) (*domain.Batch, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, failures, started_at, completed_at FROM batches WHERE id = ?
	`, id)
	return s.loadBatch(ctx, row)
}

// LatestBatch returns the most recently saved batch.
func (s *documentStore) LatestBatch(ctx context.Context) (*domain.Batch, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, failures, started_at, completed_at FROM batches ORDER BY rowid DESC LIMIT 1
	`)
	return s.loadBatch(ctx, row)
}

// DeleteBatch removes a batch. Documents, pages and tags cascade.
func (s *documentStore) DeleteBatch(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM batches WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting batch: %w", err)
	}
	return nil
}

// SaveDocument stores or updates a document, keeping its upload position.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := saveDocument(ctx, tx, doc, -1); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, batch_id, file_name, mime_type, paginated, text, confidence, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadChildren(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns the documents of a batch in upload order.
func (s *documentStore) ListDocuments(ctx context.Context, batchID string) ([]*domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, batch_id, file_name, mime_type, paginated, text, confidence, created_at, updated_at
		FROM documents WHERE batch_id = ?
		ORDER BY position
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}

	docs := make([]*domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	rows.Close()

	// Pages and tags are loaded after rows is closed so the connection is free.
	for _, doc := range docs {
		if err := s.loadChildren(ctx, doc); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (s *documentStore) loadBatch(ctx context.Context, row *sql.Row) (*domain.Batch, error) {
	var batch domain.Batch
	var failuresJSON string
	var completedAt sql.NullTime

	if err := row.Scan(&batch.ID, &failuresJSON, &batch.StartedAt, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning batch: %w", err)
	}
	if completedAt.Valid {
		batch.CompletedAt = completedAt.Time
	}

	if err := json.Unmarshal([]byte(failuresJSON), &batch.Failures); err != nil {
		return nil, fmt.Errorf("unmarshaling failures: %w", err)
	}
	if len(batch.Failures) == 0 {
		batch.Failures = nil
	}

	docs, err := s.ListDocuments(ctx, batch.ID)
	if err != nil {
		return nil, err
	}
	batch.Documents = docs
	return &batch, nil
}

func (s *documentStore) loadChildren(ctx context.Context, doc *domain.Document) error {
	pages, err := s.pages(ctx, doc.ID)
	if err != nil {
		return err
	}
	tags, err := s.tags(ctx, doc.ID)
	if err != nil {
		return err
	}
	doc.Pages = pages
	doc.Tags = tags
	return nil
}

func (s *documentStore) pages(ctx context.Context, documentID string) ([]domain.Page, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT number, image_ref, text, confidence FROM pages
		WHERE document_id = ? ORDER BY number
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	var pages []domain.Page //nolint:prealloc // size unknown from query
	for rows.Next() {
		var p domain.Page
		if err := rows.Scan(&p.Number, &p.ImageRef, &p.Text, &p.Confidence); err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pages: %w", err)
	}
	return pages, nil
}

func (s *documentStore) tags(ctx context.Context, documentID string) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT tag FROM document_tags WHERE document_id = ? ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tags, nil
}

// saveDocument upserts a document and replaces its pages and tags.
// A negative position keeps the stored position, or appends a new document.
func saveDocument(ctx context.Context, tx *sql.Tx, doc *domain.Document, position int) error {
	if position < 0 {
		row := tx.QueryRowContext(ctx, `
			SELECT COALESCE(
				(SELECT position FROM documents WHERE id = ?),
				(SELECT MAX(position) + 1 FROM documents WHERE batch_id = ?),
				0)
		`, doc.ID, doc.BatchID)
		if err := row.Scan(&position); err != nil {
			return fmt.Errorf("resolving document position: %w", err)
		}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, batch_id, position, file_name, mime_type, paginated, text, confidence, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			batch_id = excluded.batch_id,
			position = excluded.position,
			file_name = excluded.file_name,
			mime_type = excluded.mime_type,
			paginated = excluded.paginated,
			text = excluded.text,
			confidence = excluded.confidence,
			updated_at = excluded.updated_at
	`, doc.ID, doc.BatchID, position, doc.FileName, doc.MIMEType, doc.Paginated,
		doc.Text, doc.Confidence, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			return fmt.Errorf("saving document %s: %w: batch %q", doc.ID, domain.ErrNotFound, doc.BatchID)
		}
		return fmt.Errorf("saving document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("clearing pages: %w", err)
	}
	for _, p := range doc.Pages {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pages (document_id, number, image_ref, text, confidence)
			VALUES (?, ?, ?, ?, ?)
		`, doc.ID, p.Number, p.ImageRef, p.Text, p.Confidence); err != nil {
			return fmt.Errorf("saving page %d: %w", p.Number, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM document_tags WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("clearing tags: %w", err)
	}
	for i, tag := range doc.Tags {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO document_tags (document_id, position, tag) VALUES (?, ?, ?)
		`, doc.ID, i, tag); err != nil {
			return fmt.Errorf("saving tag: %w", err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document

	if err := row.Scan(&doc.ID, &doc.BatchID, &doc.FileName, &doc.MIMEType, &doc.Paginated,
		&doc.Text, &doc.Confidence, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &doc, nil
}
