package domain

import "time"

const unknownDescription = "Unknown"

// Settings defaults.
const (
	DefaultMaxGap        = 10
	DefaultMaxMatches    = 100
	MaxConfigurableMatch = 10000
	DefaultWatchInterval = 500 * time.Millisecond
)

// DefaultPreprocessSteps is the processor chain applied before searching.
var DefaultPreprocessSteps = []string{"zerowidth", "whitespace"}

// Settings holds user-configurable search behaviour.
type Settings struct {
	// MaxGap is the default gap when a request does not set one.
	MaxGap int

	// MaxMatches is the match cap handed to the engine.
	MaxMatches int

	// CaseInsensitive is the default case mode.
	CaseInsensitive bool

	// WholeWord is the default boundary mode.
	WholeWord bool

	// GapUnit is the default gap unit.
	GapUnit GapUnit

	// Preprocess lists processor names applied to loaded text, in order.
	Preprocess []string

	// WatchInterval is the minimum time between watch re-runs.
	WatchInterval time.Duration
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	steps := make([]string, len(DefaultPreprocessSteps))
	copy(steps, DefaultPreprocessSteps)

	return Settings{
		MaxGap:        DefaultMaxGap,
		MaxMatches:    DefaultMaxMatches,
		GapUnit:       GapChars,
		Preprocess:    steps,
		WatchInterval: DefaultWatchInterval,
	}
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if s.MaxGap < 0 {
		return ErrInvalidArgument
	}
	if s.MaxMatches < 1 || s.MaxMatches > MaxConfigurableMatch {
		return ErrAllocationFailure
	}
	if !s.GapUnit.IsValid() {
		return ErrInvalidArgument
	}
	if s.WatchInterval < 0 {
		return ErrInvalidArgument
	}
	return nil
}
