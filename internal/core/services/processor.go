package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/core/ports/driven"
	"github.com/custodia-labs/docscan/internal/core/ports/driving"
	"github.com/custodia-labs/docscan/internal/logger"
	"github.com/custodia-labs/docscan/internal/tagging"
)

// Ensure Processor implements the interface.
var _ driving.BatchProcessor = (*Processor)(nil)

// Processor recognises a batch of files one at a time, page by page.
// At most one OCR request is in flight.
type Processor struct {
	ocr          driven.OCREngine
	rasterizer   driven.Rasterizer
	preprocessor driven.Preprocessor
	entities     driven.EntityExtractor
	images       driven.ImageStore
	ids          driven.IDGenerator
	failureMode  domain.FailureMode
}

// NewProcessor creates a batch processor.
// The preprocessor and entities extractor are optional and may be nil.
// An empty failure mode means domain.FailureModeAbort.
func NewProcessor(
	ocr driven.OCREngine,
	rasterizer driven.Rasterizer,
	preprocessor driven.Preprocessor,
	entities driven.EntityExtractor,
	images driven.ImageStore,
	ids driven.IDGenerator,
	failureMode domain.FailureMode,
) *Processor {
	if failureMode == "" {
		failureMode = domain.FailureModeAbort
	}
	return &Processor{
		ocr:          ocr,
		rasterizer:   rasterizer,
		preprocessor: preprocessor,
		entities:     entities,
		images:       images,
		ids:          ids,
		failureMode:  failureMode,
	}
}

// Process recognises files in order and returns the resulting batch.
//
// In abort mode the first failure discards the whole batch: images stored so
// far are released and a single *domain.ProcessingError is returned. In
// isolate mode the failing file is recorded in Batch.Failures instead.
func (p *Processor) Process(
	ctx context.Context,
	files []domain.SourceFile,
	onProgress domain.ProgressFunc,
) (*domain.Batch, error) {
	batch := &domain.Batch{
		ID:        p.ids.BatchID(),
		Documents: make([]*domain.Document, 0, len(files)),
		StartedAt: time.Now().UTC(),
	}

	logger.Section("Batch " + batch.ID)
	logger.Info("Processing %d file(s) in %s mode", len(files), p.failureMode)

	for i := range files {
		report := func(stage domain.Stage) {
			if onProgress != nil {
				onProgress(domain.Progress{
					Current:  i + 1,
					Total:    len(files),
					FileName: files[i].Name,
					Stage:    stage,
				})
			}
		}

		doc, err := p.processFile(ctx, files[i], report)
		if err != nil {
			report(domain.Stage{Kind: domain.StageFailed})
			if p.failureMode == domain.FailureModeIsolate && ctx.Err() == nil {
				logger.Warn("Skipping %s: %v", files[i].Name, err)
				batch.Failures = append(batch.Failures, domain.FileFailure{
					FileName: files[i].Name,
					Message:  err.Error(),
				})
				continue
			}
			p.release(batch.ImageRefs())
			return nil, err
		}

		doc.BatchID = batch.ID
		batch.Documents = append(batch.Documents, doc)
		report(domain.Stage{Kind: domain.StageComplete})
	}

	batch.CompletedAt = time.Now().UTC()
	return batch, nil
}

// processFile turns one file into a document. Any error is a *domain.ProcessingError.
func (p *Processor) processFile(
	ctx context.Context,
	file domain.SourceFile,
	report func(domain.Stage),
) (*domain.Document, error) {
	report(domain.Stage{Kind: domain.StageReadingFile})
	if len(file.Content) == 0 {
		return nil, domain.NewProcessingError(domain.ErrInvalidInput, file.Name, 0, errors.New("file is empty"))
	}

	var images []domain.PageImage
	switch {
	case file.IsPDF():
		report(domain.Stage{Kind: domain.StageConvertingPDF})
		pages, err := p.rasterizer.Rasterize(ctx, file.Content)
		if err != nil {
			return nil, domain.NewProcessingError(domain.ErrPDFConversion, file.Name, 0, err)
		}
		if len(pages) == 0 {
			return nil, domain.NewProcessingError(domain.ErrPDFConversion, file.Name, 0, errors.New("no pages"))
		}
		images = pages
	case file.IsImage():
		images = []domain.PageImage{{Data: file.Content, MIMEType: file.MIMEType}}
	default:
		return nil, domain.NewProcessingError(domain.ErrUnsupportedType, file.Name, 0,
			fmt.Errorf("content type %q", file.MIMEType))
	}

	pages := make([]domain.Page, 0, len(images))
	fail := func(kind error, page int, err error) (*domain.Document, error) {
		p.release(refsOf(pages))
		return nil, domain.NewProcessingError(kind, file.Name, page, err)
	}

	for n := range images {
		number := n + 1
		if file.IsPDF() {
			report(domain.OCRPageStage(number, len(images)))
		} else {
			report(domain.Stage{Kind: domain.StageDirectOCR})
		}

		ref, err := p.images.Put(ctx, images[n])
		if err != nil {
			return fail(domain.ErrInvalidInput, number, fmt.Errorf("store page image: %w", err))
		}
		pages = append(pages, domain.Page{Number: number, ImageRef: ref})

		result, err := p.recognize(ctx, images[n])
		if err != nil {
			return fail(ocrErrorKind(err), number, err)
		}
		pages[n].Text = result.Text
		pages[n].Confidence = domain.ClampConfidence(result.Confidence)
		logger.Debug("%s page %d/%d: %d chars, confidence %.1f",
			file.Name, number, len(images), len(result.Text), result.Confidence)
	}

	doc, err := domain.NewDocument(p.ids.DocumentID(), file.Name, file.MIMEType, file.IsPDF(), pages)
	if err != nil {
		return fail(domain.ErrInvalidInput, 0, err)
	}

	report(domain.Stage{Kind: domain.StageAnalyzingTags})
	doc.Tags = tagging.Aggregate(doc.Text, p.extractEntities(ctx, doc.Text))
	return doc, nil
}

// recognize runs the optional preprocessor and then OCR.
func (p *Processor) recognize(ctx context.Context, img domain.PageImage) (domain.OCRResult, error) {
	if p.preprocessor != nil {
		prepared, err := p.preprocessor.Preprocess(ctx, img)
		if err != nil {
			logger.Warn("Preprocessing failed, using original image: %v", err)
		} else {
			img = prepared
		}
	}
	return p.ocr.Recognize(ctx, img)
}

// extractEntities degrades to no entities when the extractor is missing or fails.
func (p *Processor) extractEntities(ctx context.Context, text string) domain.EntityResult {
	if p.entities == nil || text == "" {
		return domain.EntityResult{}
	}
	result, err := p.entities.Extract(ctx, text)
	if err != nil {
		logger.Warn("Entity extraction failed: %v", err)
		return domain.EntityResult{}
	}
	return result
}

func (p *Processor) release(refs []string) {
	if len(refs) == 0 {
		return
	}
	// Release must still run when the batch context was cancelled.
	if err := p.images.Release(context.Background(), refs...); err != nil {
		logger.Warn("Releasing %d image(s): %v", len(refs), err)
	}
}

// ocrErrorKind classifies an OCR failure, defaulting to an engine error.
func ocrErrorKind(err error) error {
	switch {
	case errors.Is(err, domain.ErrTransport):
		return domain.ErrTransport
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.ErrTransport
	default:
		return domain.ErrOCREngine
	}
}

func refsOf(pages []domain.Page) []string {
	refs := make([]string, 0, len(pages))
	for i := range pages {
		if pages[i].ImageRef != "" {
			refs = append(refs, pages[i].ImageRef)
		}
	}
	return refs
}
