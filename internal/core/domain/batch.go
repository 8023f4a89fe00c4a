package domain

import "time"

// Batch holds the documents produced by one processing run, in upload order.
type Batch struct {
	// ID is the unique identifier for the batch.
	ID string

	// Documents are ordered as the files were submitted.
	Documents []*Document

	// Failures lists files skipped under FailureModeIsolate.
	Failures []FileFailure

	// StartedAt is when processing began.
	StartedAt time.Time

	// CompletedAt is when the last file finished.
	CompletedAt time.Time
}

// FileFailure records a file that could not be processed.
type FileFailure struct {
	FileName string
	Message  string
}

// Document returns the document with the given ID.
func (b *Batch) Document(id string) (*Document, bool) {
	for _, d := range b.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}

// ImageRefs returns the image handles of every page of every document.
func (b *Batch) ImageRefs() []string {
	var refs []string
	for _, d := range b.Documents {
		refs = append(refs, d.ImageRefs()...)
	}
	return refs
}

// Clone returns a deep copy safe to hand to readers.
func (b *Batch) Clone() *Batch {
	c := *b
	c.Documents = make([]*Document, len(b.Documents))
	for i, d := range b.Documents {
		c.Documents[i] = d.Clone()
	}
	c.Failures = append([]FileFailure(nil), b.Failures...)
	return &c
}

// FailureMode selects how a batch reacts to a failing file.
type FailureMode string

const (
	// FailureModeAbort discards the whole batch on the first failure.
	FailureModeAbort FailureMode = "abort"

	// FailureModeIsolate records the failure and continues with the next file.
	FailureModeIsolate FailureMode = "isolate"
)

// IsValid returns true if the failure mode is recognised.
func (m FailureMode) IsValid() bool {
	return m == FailureModeAbort || m == FailureModeIsolate
}
