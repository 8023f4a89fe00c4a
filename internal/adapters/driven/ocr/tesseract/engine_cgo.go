//go:build tesseract

package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/logger"
)

// Available reports whether Tesseract support was compiled in.
const Available = true

// Recognize runs OCR on a single image.
func (e *Engine) Recognize(ctx context.Context, img domain.PageImage) (domain.OCRResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.OCRResult{}, err
	}

	c := gosseract.NewClient()
	defer c.Close()

	if err := c.SetImageFromBytes(img.Data); err != nil {
		return domain.OCRResult{}, &domain.EngineError{Detail: fmt.Sprintf("set image: %v", err)}
	}
	if err := c.SetLanguage(e.languages...); err != nil {
		return domain.OCRResult{}, &domain.EngineError{Detail: fmt.Sprintf("set languages: %v", err)}
	}

	text, err := c.Text()
	if err != nil {
		return domain.OCRResult{}, &domain.EngineError{Detail: fmt.Sprintf("recognize text: %v", err)}
	}

	var confidences []float64
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		logger.Debug("Tesseract word boxes unavailable: %v", err)
	}
	for _, b := range boxes {
		confidences = append(confidences, b.Confidence)
	}

	return domain.OCRResult{
		Text:       strings.TrimSpace(text),
		Confidence: domain.ClampConfidence(meanConfidence(confidences)),
	}, nil
}
