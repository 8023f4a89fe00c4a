// Package messages defines Bubbletea message types for the progress view.
package messages

import (
	"github.com/custodia-labs/docscan/internal/core/domain"
)

// Progress carries a stage change from the batch processor.
type Progress struct {
	domain.Progress
}

// BatchDone is sent once when the batch finishes, successfully or not.
type BatchDone struct {
	Batch *domain.Batch
	Err   error
}
