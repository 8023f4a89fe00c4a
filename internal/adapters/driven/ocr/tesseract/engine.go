// Package tesseract recognises page images in-process with Tesseract.
//
// The engine needs libtesseract and cgo, so it is only compiled with the
// "tesseract" build tag. Without the tag Recognize reports
// domain.ErrOCRUnavailable and the http engine should be configured instead.
package tesseract

import (
	"github.com/custodia-labs/docscan/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// Engine runs Tesseract on each image with a fresh client.
type Engine struct {
	languages []string
}

// NewEngine creates a Tesseract engine. Languages default to English.
func NewEngine(languages ...string) *Engine {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Engine{languages: append([]string(nil), languages...)}
}

// Languages returns the configured Tesseract language codes.
func (e *Engine) Languages() []string {
	return append([]string(nil), e.languages...)
}

// meanConfidence averages word confidences, which Tesseract reports on a 0-100 scale.
func meanConfidence(confidences []float64) float64 {
	if len(confidences) == 0 {
		return 0
	}
	var sum float64
	for _, c := range confidences {
		sum += c
	}
	return sum / float64(len(confidences))
}
