package domain

import "strings"

// MIMETypePDF is the content type of PDF files.
const MIMETypePDF = "application/pdf"

// SourceFile is a file submitted for processing.
type SourceFile struct {
	// Name is the display name, usually the base file name.
	Name string

	// MIMEType is the detected content type.
	MIMEType string

	// Content is the raw file contents.
	Content []byte
}

// IsPDF reports whether the file is a PDF.
func (f SourceFile) IsPDF() bool {
	return f.MIMEType == MIMETypePDF
}

// IsImage reports whether the file is an image.
func (f SourceFile) IsImage() bool {
	return strings.HasPrefix(f.MIMEType, "image/")
}

// IsSupported reports whether the file can be processed.
func (f SourceFile) IsSupported() bool {
	return f.IsPDF() || f.IsImage()
}

// PageImage is an encoded image submitted to the OCR engine.
type PageImage struct {
	// Data is the encoded image.
	Data []byte

	// MIMEType is the image encoding, e.g. image/png.
	MIMEType string
}

// OCRResult is what an OCR engine returns for one image.
type OCRResult struct {
	// Text is the recognised text.
	Text string

	// Confidence is in [0, 100].
	Confidence float64
}

// ClampConfidence bounds a confidence value to [0, 100].
func ClampConfidence(c float64) float64 {
	switch {
	case c < 0 || c != c:
		return 0
	case c > 100:
		return 100
	default:
		return c
	}
}
