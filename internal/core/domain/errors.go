package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file that is neither an image nor a PDF.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrBatchInProgress indicates a batch is already running in this session.
	ErrBatchInProgress = errors.New("batch in progress")

	// ErrNoActiveBatch indicates the session holds no results.
	ErrNoActiveBatch = errors.New("no active batch")

	// Processing Errors.

	// ErrTransport indicates the OCR service could not be reached.
	ErrTransport = errors.New("cannot connect to server")

	// ErrOCREngine indicates the OCR service answered but reported a failure.
	ErrOCREngine = errors.New("ocr processing failed")

	// ErrPDFConversion indicates a PDF could not be rasterised into page images.
	ErrPDFConversion = errors.New("pdf conversion failed")

	// ErrOCRUnavailable indicates the local OCR engine was not compiled in.
	ErrOCRUnavailable = errors.New("ocr engine unavailable")
)

// BatchFailureMessage is shown to the user when a batch aborts.
const BatchFailureMessage = "Failed to process one or more documents. Please try again."

// ProcessingError describes why a file could not be processed.
// Kind is one of ErrTransport, ErrOCREngine, ErrPDFConversion or ErrUnsupportedType.
type ProcessingError struct {
	// Kind classifies the failure.
	Kind error

	// FileName is the file being processed when the failure occurred.
	FileName string

	// Page is the 1-based page being recognised, or 0 when not page-specific.
	Page int

	// Detail is the engine-supplied message, if any.
	Detail string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *ProcessingError) Error() string {
	var b strings.Builder
	b.WriteString(e.FileName)
	if e.Page > 0 {
		fmt.Fprintf(&b, " (page %d)", e.Page)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil && !errors.Is(e.Err, e.Kind) {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *ProcessingError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewProcessingError builds a ProcessingError, keeping the kind if err already carries one.
func NewProcessingError(kind error, fileName string, page int, err error) *ProcessingError {
	pe := &ProcessingError{Kind: kind, FileName: fileName, Page: page, Err: err}

	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		pe.Detail = engineErr.Detail
	}
	return pe
}

// EngineError carries the message an OCR engine returned with a failed request.
type EngineError struct {
	// Status is the HTTP status, or 0 for in-process engines.
	Status int

	// Detail is the engine's explanation.
	Detail string
}

// Error implements error.
func (e *EngineError) Error() string {
	if e.Detail == "" {
		return ErrOCREngine.Error()
	}
	return ErrOCREngine.Error() + ": " + e.Detail
}

// Is reports ErrOCREngine as a match.
func (e *EngineError) Is(target error) bool {
	return target == ErrOCREngine
}

// UserMessage maps a batch error to the text shown to the user.
// Unknown errors fall back to the generic batch failure message.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTransport):
		return "Cannot connect to the OCR server. Check that it is running and try again."
	case errors.Is(err, ErrUnsupportedType):
		return "Unsupported file type. Please upload images or PDF files."
	case errors.Is(err, ErrPDFConversion):
		return "Could not convert the PDF. The file may not be a valid PDF."
	case errors.Is(err, ErrOCREngine):
		if detail := engineDetail(err); detail != "" {
			return "OCR processing failed: " + detail
		}
		return "OCR processing failed. Please try again."
	default:
		return BatchFailureMessage
	}
}

// engineDetail returns the message the OCR engine reported, if any.
func engineDetail(err error) string {
	var pe *ProcessingError
	if errors.As(err, &pe) && pe.Detail != "" {
		return pe.Detail
	}
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Detail
	}
	return ""
}
