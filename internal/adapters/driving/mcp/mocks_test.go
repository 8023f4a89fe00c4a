package mcp

import (
	"context"

	"github.com/custodia-labs/docscan/internal/core/domain"
)

// mockSession is a mock implementation of driving.Session.
type mockSession struct {
	batch   *domain.Batch
	err     error
	changed bool

	startedWith []domain.SourceFile
	lastTag     string
	lastPage    int
	lastText    string
}

func (m *mockSession) StartBatch(
	_ context.Context,
	files []domain.SourceFile,
	_ domain.ProgressFunc,
) (*domain.Batch, error) {
	m.startedWith = files
	if m.err != nil {
		return nil, m.err
	}
	return m.batch, nil
}

func (m *mockSession) Current(_ context.Context) (*domain.Batch, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.batch == nil {
		return nil, domain.ErrNoActiveBatch
	}
	return m.batch, nil
}

func (m *mockSession) Document(ctx context.Context, id string) (*domain.Document, error) {
	batch, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	doc, ok := batch.Document(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *mockSession) AddTag(_ context.Context, _, tag string) (bool, error) {
	m.lastTag = tag
	return m.changed, m.err
}

func (m *mockSession) RemoveTag(_ context.Context, _, tag string) (bool, error) {
	m.lastTag = tag
	return m.changed, m.err
}

func (m *mockSession) EditPageText(_ context.Context, _ string, page int, text string) (bool, error) {
	m.lastPage = page
	m.lastText = text
	return m.changed, m.err
}

func (m *mockSession) EditText(_ context.Context, _, text string) (bool, error) {
	m.lastPage = 0
	m.lastText = text
	return m.changed, m.err
}

func (m *mockSession) Export(ctx context.Context, id string, page int) (domain.Export, error) {
	doc, err := m.Document(ctx, id)
	if err != nil {
		return domain.Export{}, err
	}
	if page > 0 {
		return doc.ExportPage(page)
	}
	return doc.Export(), nil
}

func (m *mockSession) Reset(_ context.Context) error {
	m.batch = nil
	return m.err
}

func testBatch() *domain.Batch {
	return &domain.Batch{
		ID: "batch-1",
		Documents: []*domain.Document{
			{
				ID:         "doc-1",
				FileName:   "letter.png",
				MIMEType:   "image/png",
				Pages:      []domain.Page{{Number: 1, Text: "Dear Sir", Confidence: 91.6}},
				Text:       "Dear Sir",
				Confidence: 91.6,
				Tags:       []string{"Letter"},
			},
			{
				ID:        "doc-2",
				FileName:  "report.pdf",
				MIMEType:  domain.MIMETypePDF,
				Paginated: true,
				Pages: []domain.Page{
					{Number: 1, Text: "first", Confidence: 80},
					{Number: 2, Text: "second", Confidence: 60},
				},
				Text:       domain.JoinPages([]domain.Page{{Number: 1, Text: "first"}, {Number: 2, Text: "second"}}),
				Confidence: 70,
			},
		},
		Failures: []domain.FileFailure{{FileName: "bad.png", Message: "engine crashed"}},
	}
}
