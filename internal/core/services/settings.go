package services

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driving"
	"github.com/custodia-labs/proxsearch/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyMaxGap          = "search.max_gap"
	KeyMaxMatches      = "search.max_matches"
	KeyCaseInsensitive = "search.case_insensitive"
	KeyWholeWord       = "search.whole_word"
	KeyGapUnit         = "search.gap_unit"
	KeyPreprocess      = "preprocess.steps"
	KeyWatchInterval   = "watch.interval_ms"
)

var settingKeys = []string{
	KeyMaxGap,
	KeyMaxMatches,
	KeyCaseInsensitive,
	KeyWholeWord,
	KeyGapUnit,
	KeyPreprocess,
	KeyWatchInterval,
}

// SettingsService manages search settings stored in a ConfigStore.
// Stored values that fail validation are ignored in favour of the default.
type SettingsService struct {
	configStore driven.ConfigStore
	knownSteps  []string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// SetKnownSteps restricts preprocess.steps to the given processor names.
// With no known steps any name is accepted.
func (s *SettingsService) SetKnownSteps(names []string) {
	s.knownSteps = slices.Clone(names)
}

// GetDefaults returns the built-in settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Keys returns the recognised config keys.
func (s *SettingsService) Keys() []string {
	return slices.Clone(settingKeys)
}

// Get retrieves the effective settings.
func (s *SettingsService) Get() (domain.Settings, error) {
	settings := domain.DefaultSettings()

	for _, key := range settingKeys {
		raw, ok := s.configStore.Get(key)
		if !ok {
			continue
		}
		if err := apply(&settings, key, raw, s.knownSteps); err != nil {
			logger.Warn("Ignoring %s = %v: %v", key, raw, err)
		}
	}

	return settings, nil
}

// Value returns the effective value of key as text.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case KeyMaxGap:
		return strconv.Itoa(settings.MaxGap), nil
	case KeyMaxMatches:
		return strconv.Itoa(settings.MaxMatches), nil
	case KeyCaseInsensitive:
		return strconv.FormatBool(settings.CaseInsensitive), nil
	case KeyWholeWord:
		return strconv.FormatBool(settings.WholeWord), nil
	case KeyGapUnit:
		return settings.GapUnit.String(), nil
	case KeyPreprocess:
		return strings.Join(settings.Preprocess, ","), nil
	case KeyWatchInterval:
		return strconv.FormatInt(settings.WatchInterval.Milliseconds(), 10), nil
	default:
		return "", fmt.Errorf("%w: setting %q", domain.ErrNotFound, key)
	}
}

// Set parses, validates and persists a single setting.
func (s *SettingsService) Set(key, value string) error {
	if !slices.Contains(settingKeys, key) {
		return fmt.Errorf("%w: setting %q", domain.ErrNotFound, key)
	}

	typed, err := parseValue(key, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	probe := domain.DefaultSettings()
	if err := apply(&probe, key, typed, s.knownSteps); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	logger.Debug("Set %s = %v", key, typed)
	return nil
}

// parseValue converts CLI text to the stored type for key.
func parseValue(key, value string) (any, error) {
	switch key {
	case KeyMaxGap, KeyMaxMatches, KeyWatchInterval:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidArgument, value)
		}
		return n, nil
	case KeyCaseInsensitive, KeyWholeWord:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", domain.ErrInvalidArgument, value)
		}
		return b, nil
	case KeyPreprocess:
		steps := []string{}
		for _, step := range strings.Split(value, ",") {
			if step = strings.TrimSpace(step); step != "" {
				steps = append(steps, step)
			}
		}
		return steps, nil
	default:
		return value, nil
	}
}

// apply validates raw and stores it into settings.
func apply(settings *domain.Settings, key string, raw any, knownSteps []string) error {
	switch key {
	case KeyMaxGap:
		n, ok := intValue(raw)
		if !ok || n < 0 {
			return fmt.Errorf("%w: max gap must be a non-negative integer", domain.ErrInvalidArgument)
		}
		settings.MaxGap = n
	case KeyMaxMatches:
		n, ok := intValue(raw)
		if !ok || n < 1 || n > domain.MaxConfigurableMatch {
			return fmt.Errorf("%w: max matches must be between 1 and %d",
				domain.ErrAllocationFailure, domain.MaxConfigurableMatch)
		}
		settings.MaxMatches = n
	case KeyCaseInsensitive, KeyWholeWord:
		b, ok := raw.(bool)
		if !ok {
			return fmt.Errorf("%w: expected a boolean", domain.ErrInvalidArgument)
		}
		if key == KeyCaseInsensitive {
			settings.CaseInsensitive = b
		} else {
			settings.WholeWord = b
		}
	case KeyGapUnit:
		str, _ := raw.(string)
		unit := domain.GapUnit(strings.ToLower(str))
		if unit == "" || !unit.IsValid() {
			return fmt.Errorf("%w: gap unit must be chars, bytes or words", domain.ErrInvalidArgument)
		}
		settings.GapUnit = unit
	case KeyPreprocess:
		steps, ok := stringSlice(raw)
		if !ok {
			return fmt.Errorf("%w: expected a list of processor names", domain.ErrInvalidArgument)
		}
		for _, step := range steps {
			if len(knownSteps) > 0 && !slices.Contains(knownSteps, step) {
				return fmt.Errorf("%w: processor %q", domain.ErrUnsupportedType, step)
			}
		}
		settings.Preprocess = steps
	case KeyWatchInterval:
		n, ok := intValue(raw)
		if !ok || n < 0 {
			return fmt.Errorf("%w: interval must be a non-negative integer", domain.ErrInvalidArgument)
		}
		settings.WatchInterval = time.Duration(n) * time.Millisecond
	}
	return nil
}

// intValue accepts the integer shapes produced by TOML, JSON and the CLI.
func intValue(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		if v > math.MaxInt32 || v < math.MinInt32 {
			return 0, false
		}
		return int(v), true
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		return 0, false
	}
}

func stringSlice(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return slices.Clone(v), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}
