package driving

import "github.com/custodia-labs/docscan/internal/core/domain"

// SettingsService reads and updates application settings.
type SettingsService interface {
	// Get returns the validated settings, with defaults for unset keys.
	Get() (domain.Settings, error)

	// Set updates a single key, e.g. "ocr.url", after validating the result.
	Set(key, value string) error

	// Path returns where settings are persisted.
	Path() string
}
