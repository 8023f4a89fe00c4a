package driven

import (
	"context"

	"github.com/custodia-labs/docscan/internal/core/domain"
)

// OCREngine recognises the text in one page image.
//
// Errors must distinguish an unreachable engine (wrapping domain.ErrTransport)
// from an engine that answered with a failure (wrapping domain.ErrOCREngine,
// ideally as a *domain.EngineError carrying the engine's detail).
type OCREngine interface {
	Recognize(ctx context.Context, img domain.PageImage) (domain.OCRResult, error)
}

// Rasterizer converts a PDF into page images, one per page, in page order.
// Failures wrap domain.ErrPDFConversion.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte) ([]domain.PageImage, error)
}

// Preprocessor prepares an image for OCR, e.g. by scaling and greyscaling it.
// Implementations return the input unchanged when it cannot be improved.
type Preprocessor interface {
	Preprocess(ctx context.Context, img domain.PageImage) (domain.PageImage, error)
}

// EntityExtractor finds named entities in document text.
// Results are ranked; the tag aggregator decides how many of each to keep.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) (domain.EntityResult, error)
}
