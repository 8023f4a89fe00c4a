package driven

import "github.com/custodia-labs/docscan/internal/core/domain"

// IDGenerator issues identifiers for new records.
type IDGenerator interface {
	// DocumentID returns a new, time-ordered document identifier.
	DocumentID() string

	// BatchID returns a new batch identifier.
	BatchID() string
}

// SettingsValidator checks settings before they are used or persisted.
type SettingsValidator interface {
	Validate(settings domain.Settings) error
}
