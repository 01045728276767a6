package driving

import "github.com/custodia-labs/fatura-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings. Missing keys take
	// their defaults.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// Set parses raw according to the key's type and persists it.
	// Returns domain.ErrInvalidInput for unknown keys or bad values.
	Set(key, raw string) error

	// Keys returns the recognised setting keys, sorted.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// Validate checks the stored settings.
	Validate() error
}
