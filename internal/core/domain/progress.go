package domain

import "fmt"

// StageKind identifies where a file is in the processing lifecycle.
type StageKind int

const (
	// StageQueued means the file is waiting to be processed.
	StageQueued StageKind = iota
	// StageReadingFile means the file contents are being loaded.
	StageReadingFile
	// StageConvertingPDF means a PDF is being rasterised into page images.
	StageConvertingPDF
	// StageOCRPage means one PDF page is being recognised.
	StageOCRPage
	// StageDirectOCR means a single image is being recognised.
	StageDirectOCR
	// StageAnalyzingTags means tags are being derived from the text.
	StageAnalyzingTags
	// StageComplete means the document record was created.
	StageComplete
	// StageFailed means the file could not be processed.
	StageFailed
)

// Stage is a lifecycle state. Page and PageCount are set for StageOCRPage.
type Stage struct {
	Kind      StageKind
	Page      int
	PageCount int
}

// OCRPageStage returns the stage for recognising page of count.
func OCRPageStage(page, count int) Stage {
	return Stage{Kind: StageOCRPage, Page: page, PageCount: count}
}

// String returns the label shown to users.
func (s Stage) String() string {
	switch s.Kind {
	case StageQueued:
		return "Queued"
	case StageReadingFile:
		return "Reading file"
	case StageConvertingPDF:
		return "Converting PDF"
	case StageOCRPage:
		return fmt.Sprintf("OCR page %d/%d", s.Page, s.PageCount)
	case StageDirectOCR:
		return "Extracting text"
	case StageAnalyzingTags:
		return "Analyzing tags"
	case StageComplete:
		return "Complete"
	case StageFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether no further stages follow.
func (s Stage) IsTerminal() bool {
	return s.Kind == StageComplete || s.Kind == StageFailed
}

// Progress is emitted on every stage change.
type Progress struct {
	// Current is the 1-based index of the file being processed.
	Current int

	// Total is the number of files in the batch.
	Total int

	// FileName is the file being processed.
	FileName string

	// Stage is the file's new stage.
	Stage Stage
}

// String renders the event as a status line.
func (p Progress) String() string {
	return fmt.Sprintf("[%d/%d] %s: %s", p.Current, p.Total, p.FileName, p.Stage)
}

// ProgressFunc receives progress events. It is called synchronously.
type ProgressFunc func(Progress)
