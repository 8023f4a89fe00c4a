package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docscan/internal/core/domain"
)

// mockOCR returns queued results in call order, then repeats the last one.
type mockOCR struct {
	mu       sync.Mutex
	results  []domain.OCRResult
	errs     map[int]error
	calls    int
	inFlight int
	maxPar   int
	seen     []domain.PageImage
}

func (m *mockOCR) Recognize(_ context.Context, img domain.PageImage) (domain.OCRResult, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.inFlight++
	if m.inFlight > m.maxPar {
		m.maxPar = m.inFlight
	}
	m.seen = append(m.seen, img)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if err, ok := m.errs[call]; ok {
		return domain.OCRResult{}, err
	}
	if len(m.results) == 0 {
		return domain.OCRResult{Text: fmt.Sprintf("text %d", call), Confidence: 90}, nil
	}
	idx := call - 1
	if idx >= len(m.results) {
		idx = len(m.results) - 1
	}
	return m.results[idx], nil
}

// mockRasterizer splits a PDF into a fixed number of pages.
type mockRasterizer struct {
	pages int
	err   error
}

func (m *mockRasterizer) Rasterize(_ context.Context, _ []byte) ([]domain.PageImage, error) {
	if m.err != nil {
		return nil, m.err
	}
	images := make([]domain.PageImage, m.pages)
	for i := range images {
		images[i] = domain.PageImage{Data: []byte(fmt.Sprintf("page-%d", i+1)), MIMEType: "image/png"}
	}
	return images, nil
}

// mockPreprocessor marks images it has seen.
type mockPreprocessor struct {
	err error
}

func (m *mockPreprocessor) Preprocess(_ context.Context, img domain.PageImage) (domain.PageImage, error) {
	if m.err != nil {
		return domain.PageImage{}, m.err
	}
	return domain.PageImage{Data: append([]byte("pre:"), img.Data...), MIMEType: "image/png"}, nil
}

// mockEntities returns a fixed result.
type mockEntities struct {
	result domain.EntityResult
	err    error
	texts  []string
}

func (m *mockEntities) Extract(_ context.Context, text string) (domain.EntityResult, error) {
	m.texts = append(m.texts, text)
	return m.result, m.err
}

// sequentialIDs issues predictable identifiers.
type sequentialIDs struct {
	mu      sync.Mutex
	docs    int
	batches int
}

func (s *sequentialIDs) DocumentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs++
	return fmt.Sprintf("doc-%d", s.docs)
}

func (s *sequentialIDs) BatchID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches++
	return fmt.Sprintf("batch-%d", s.batches)
}

func pngFile(name string) domain.SourceFile {
	return domain.SourceFile{Name: name, MIMEType: "image/png", Content: []byte("png:" + name)}
}

func pdfFile(name string) domain.SourceFile {
	return domain.SourceFile{Name: name, MIMEType: domain.MIMETypePDF, Content: []byte("%PDF-" + name)}
}
