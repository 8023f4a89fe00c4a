package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docscan/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docscan/internal/core/domain"
)

type progressLog struct {
	events []domain.Progress
}

func (l *progressLog) record(p domain.Progress) {
	l.events = append(l.events, p)
}

func (l *progressLog) labels(fileName string) []string {
	var out []string
	for _, e := range l.events {
		if e.FileName == fileName {
			out = append(out, e.Stage.String())
		}
	}
	return out
}

func newTestProcessor(ocr *mockOCR, raster *mockRasterizer, images *memory.ImageStore) *Processor {
	return NewProcessor(ocr, raster, nil, nil, images, &sequentialIDs{}, "")
}

func TestProcessor_SingleImage(t *testing.T) {
	ocr := &mockOCR{results: []domain.OCRResult{{Text: "Founded in 1898", Confidence: 88}}}
	images := memory.NewImageStore()
	p := newTestProcessor(ocr, &mockRasterizer{}, images)
	log := &progressLog{}

	batch, err := p.Process(context.Background(), []domain.SourceFile{pngFile("scan.png")}, log.record)

	require.NoError(t, err)
	require.Len(t, batch.Documents, 1)
	doc := batch.Documents[0]
	assert.Equal(t, "batch-1", batch.ID)
	assert.Equal(t, "batch-1", doc.BatchID)
	assert.Equal(t, "Founded in 1898", doc.Text)
	assert.Equal(t, 88.0, doc.Confidence)
	assert.False(t, doc.IsMultiPage())
	assert.Equal(t, []string{"1898"}, doc.Tags)
	assert.Equal(t, 1, images.Len())
	assert.False(t, batch.CompletedAt.IsZero())

	assert.Equal(t, []string{"Reading file", "Extracting text", "Analyzing tags", "Complete"}, log.labels("scan.png"))
	for _, e := range log.events {
		assert.Equal(t, 1, e.Current)
		assert.Equal(t, 1, e.Total)
	}
}

func TestProcessor_TwoPagePDFAveragesConfidence(t *testing.T) {
	ocr := &mockOCR{results: []domain.OCRResult{
		{Text: "first", Confidence: 100},
		{Text: "second", Confidence: 0},
	}}
	p := newTestProcessor(ocr, &mockRasterizer{pages: 2}, memory.NewImageStore())
	log := &progressLog{}

	batch, err := p.Process(context.Background(), []domain.SourceFile{pdfFile("letter.pdf")}, log.record)

	require.NoError(t, err)
	doc := batch.Documents[0]
	assert.Equal(t, 50.0, doc.Confidence)
	assert.True(t, doc.IsMultiPage())
	assert.Len(t, doc.Pages, 2)
	assert.Equal(t, "--- Page 1 ---\n\nfirst\n\n\n--- Page 2 ---\n\nsecond\n\n", doc.Text)
	assert.Equal(t, []string{
		"Reading file", "Converting PDF", "OCR page 1/2", "OCR page 2/2", "Analyzing tags", "Complete",
	}, log.labels("letter.pdf"))
}

func TestProcessor_PreservesOrderAndRunsSequentially(t *testing.T) {
	ocr := &mockOCR{}
	p := newTestProcessor(ocr, &mockRasterizer{pages: 3}, memory.NewImageStore())
	files := []domain.SourceFile{pngFile("c.png"), pdfFile("a.pdf"), pngFile("b.png")}
	log := &progressLog{}

	batch, err := p.Process(context.Background(), files, log.record)

	require.NoError(t, err)
	require.Len(t, batch.Documents, 3)
	assert.Equal(t, "c.png", batch.Documents[0].FileName)
	assert.Equal(t, "a.pdf", batch.Documents[1].FileName)
	assert.Equal(t, "b.png", batch.Documents[2].FileName)
	assert.Equal(t, "text 2", batch.Documents[1].Pages[0].Text)
	assert.Equal(t, "text 4", batch.Documents[1].Pages[2].Text)
	assert.Equal(t, 5, ocr.calls)
	assert.Equal(t, 1, ocr.maxPar)

	var current []int
	for _, e := range log.events {
		if e.Stage.Kind == domain.StageReadingFile {
			current = append(current, e.Current)
		}
		assert.Equal(t, 3, e.Total)
	}
	assert.Equal(t, []int{1, 2, 3}, current)
}

func TestProcessor_TagsUseFullText(t *testing.T) {
	ocr := &mockOCR{results: []domain.OCRResult{{Text: "page one"}, {Text: "page two 1950"}}}
	entities := &mockEntities{result: domain.EntityResult{
		People: []string{"Alice"},
		Topics: []string{"Art", "Music", "Dance", "Poetry"},
	}}
	p := NewProcessor(ocr, &mockRasterizer{pages: 2}, nil, entities, memory.NewImageStore(), &sequentialIDs{}, "")

	batch, err := p.Process(context.Background(), []domain.SourceFile{pdfFile("x.pdf")}, nil)

	require.NoError(t, err)
	require.Len(t, entities.texts, 1)
	assert.Equal(t, batch.Documents[0].Text, entities.texts[0])
	assert.Equal(t, []string{"Alice", "Art", "Music", "Dance", "1950"}, batch.Documents[0].Tags)
}

func TestProcessor_EntityFailureDegrades(t *testing.T) {
	ocr := &mockOCR{results: []domain.OCRResult{{Text: "Since 1901"}}}
	entities := &mockEntities{err: errors.New("model missing")}
	p := NewProcessor(ocr, &mockRasterizer{}, nil, entities, memory.NewImageStore(), &sequentialIDs{}, "")

	batch, err := p.Process(context.Background(), []domain.SourceFile{pngFile("a.png")}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"1901"}, batch.Documents[0].Tags)
}

func TestProcessor_AbortsWholeBatchOnFailure(t *testing.T) {
	ocr := &mockOCR{errs: map[int]error{3: &domain.EngineError{Status: 500, Detail: "engine crashed"}}}
	images := memory.NewImageStore()
	p := newTestProcessor(ocr, &mockRasterizer{pages: 2}, images)
	log := &progressLog{}
	files := []domain.SourceFile{pngFile("a.png"), pdfFile("b.pdf"), pngFile("c.png")}

	batch, err := p.Process(context.Background(), files, log.record)

	require.Error(t, err)
	assert.Nil(t, batch)
	var pe *domain.ProcessingError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, domain.ErrOCREngine)
	assert.Equal(t, "b.pdf", pe.FileName)
	assert.Equal(t, 2, pe.Page)
	assert.Equal(t, "engine crashed", pe.Detail)
	assert.Equal(t, 0, images.Len(), "partial batch images are released")
	assert.Empty(t, log.labels("c.png"), "later files are never started")
	labels := log.labels("b.pdf")
	assert.Equal(t, "Failed", labels[len(labels)-1])
}

func TestProcessor_TransportFailure(t *testing.T) {
	ocr := &mockOCR{errs: map[int]error{1: fmt.Errorf("post: %w", domain.ErrTransport)}}
	p := newTestProcessor(ocr, &mockRasterizer{}, memory.NewImageStore())

	_, err := p.Process(context.Background(), []domain.SourceFile{pngFile("a.png")}, nil)

	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.NotErrorIs(t, err, domain.ErrOCREngine)
	assert.Contains(t, domain.UserMessage(err), "Cannot connect")
}

func TestProcessor_UnclassifiedOCRErrorIsEngineError(t *testing.T) {
	ocr := &mockOCR{errs: map[int]error{1: errors.New("weird")}}
	p := newTestProcessor(ocr, &mockRasterizer{}, memory.NewImageStore())

	_, err := p.Process(context.Background(), []domain.SourceFile{pngFile("a.png")}, nil)

	assert.ErrorIs(t, err, domain.ErrOCREngine)
	assert.Equal(t, "OCR processing failed. Please try again.", domain.UserMessage(err))
}

func TestProcessor_PDFConversionFailure(t *testing.T) {
	p := newTestProcessor(&mockOCR{}, &mockRasterizer{err: errors.New("corrupt xref")}, memory.NewImageStore())

	_, err := p.Process(context.Background(), []domain.SourceFile{pdfFile("bad.pdf")}, nil)

	assert.ErrorIs(t, err, domain.ErrPDFConversion)
	assert.Contains(t, err.Error(), "corrupt xref")
}

func TestProcessor_UnsupportedType(t *testing.T) {
	p := newTestProcessor(&mockOCR{}, &mockRasterizer{}, memory.NewImageStore())
	file := domain.SourceFile{Name: "notes.txt", MIMEType: "text/plain", Content: []byte("hi")}

	_, err := p.Process(context.Background(), []domain.SourceFile{file}, nil)

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestProcessor_IsolateModeKeepsSuccessfulFiles(t *testing.T) {
	ocr := &mockOCR{errs: map[int]error{2: &domain.EngineError{Detail: "blurry"}}}
	images := memory.NewImageStore()
	p := NewProcessor(ocr, &mockRasterizer{}, nil, nil, images, &sequentialIDs{}, domain.FailureModeIsolate)
	files := []domain.SourceFile{pngFile("a.png"), pngFile("b.png"), pngFile("c.png")}

	batch, err := p.Process(context.Background(), files, nil)

	require.NoError(t, err)
	require.Len(t, batch.Documents, 2)
	assert.Equal(t, "a.png", batch.Documents[0].FileName)
	assert.Equal(t, "c.png", batch.Documents[1].FileName)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "b.png", batch.Failures[0].FileName)
	assert.Contains(t, batch.Failures[0].Message, "blurry")
	assert.Equal(t, 2, images.Len())
}

func TestProcessor_Preprocessor(t *testing.T) {
	ocr := &mockOCR{}
	p := NewProcessor(ocr, &mockRasterizer{}, &mockPreprocessor{}, nil, memory.NewImageStore(), &sequentialIDs{}, "")

	_, err := p.Process(context.Background(), []domain.SourceFile{pngFile("a.png")}, nil)

	require.NoError(t, err)
	assert.Equal(t, []byte("pre:png:a.png"), ocr.seen[0].Data)
}

func TestProcessor_PreprocessorFailureUsesOriginal(t *testing.T) {
	ocr := &mockOCR{}
	pre := &mockPreprocessor{err: errors.New("decode")}
	p := NewProcessor(ocr, &mockRasterizer{}, pre, nil, memory.NewImageStore(), &sequentialIDs{}, "")

	_, err := p.Process(context.Background(), []domain.SourceFile{pngFile("a.png")}, nil)

	require.NoError(t, err)
	assert.Equal(t, []byte("png:a.png"), ocr.seen[0].Data)
}

func TestProcessor_EmptyFileFails(t *testing.T) {
	p := newTestProcessor(&mockOCR{}, &mockRasterizer{}, memory.NewImageStore())

	_, err := p.Process(context.Background(), []domain.SourceFile{{Name: "e.png", MIMEType: "image/png"}}, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
