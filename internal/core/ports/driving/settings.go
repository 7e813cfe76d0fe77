package driving

import "github.com/custodia-labs/proxsearch/internal/core/domain"

// SettingsService manages search settings.
type SettingsService interface {
	// Get returns the effective settings (defaults overlaid with config).
	Get() (domain.Settings, error)

	// Value returns the effective value of one config key as text.
	Value(key string) (string, error)

	// Set validates and persists a single setting by config key.
	Set(key, value string) error

	// Keys returns the recognised config keys.
	Keys() []string

	// GetDefaults returns the built-in settings.
	GetDefaults() domain.Settings
}
