//go:build !tesseract

package tesseract

import (
	"context"

	"github.com/custodia-labs/docscan/internal/core/domain"
)

// Available reports whether Tesseract support was compiled in.
const Available = false

// Recognize always fails; rebuild with -tags tesseract to enable the engine.
func (e *Engine) Recognize(_ context.Context, _ domain.PageImage) (domain.OCRResult, error) {
	return domain.OCRResult{}, domain.ErrOCRUnavailable
}
