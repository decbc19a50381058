package services

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// settingKind is how a known key's value is parsed and stored.
type settingKind int

const (
	kindString settingKind = iota
	kindBool
	kindDuration
)

var knownSettings = map[string]settingKind{
	domain.KeyBackendURL:     kindString,
	domain.KeyBackendTimeout: kindDuration,
	domain.KeyEventsEnabled:  kindBool,
	domain.KeyReconnectDelay: kindDuration,
	domain.KeyAudioPlayer:    kindString,
	domain.KeyAudioProbe:     kindString,
	domain.KeyJournalEnabled: kindBool,
}

// KnownSettingKeys returns the keys accepted by Set, sorted.
func KnownSettingKeys() []string {
	return slices.Sorted(maps.Keys(knownSettings))
}

// SettingsService manages console configuration.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Load merges stored values over the defaults and validates the result.
// Values of the wrong type fall back to their defaults.
func (s *SettingsService) Load() (domain.ConsoleConfig, error) {
	defaults := domain.DefaultConsoleConfig()

	cfg := domain.ConsoleConfig{
		BackendURL:     strings.TrimRight(s.getString(domain.KeyBackendURL, defaults.BackendURL), "/"),
		BackendTimeout: s.getDuration(domain.KeyBackendTimeout, defaults.BackendTimeout),
		EventsEnabled:  s.getBool(domain.KeyEventsEnabled, defaults.EventsEnabled),
		ReconnectDelay: s.getDuration(domain.KeyReconnectDelay, defaults.ReconnectDelay),
		AudioPlayer:    s.getString(domain.KeyAudioPlayer, defaults.AudioPlayer),
		AudioProbe:     s.getString(domain.KeyAudioProbe, defaults.AudioProbe),
		JournalEnabled: s.getBool(domain.KeyJournalEnabled, defaults.JournalEnabled),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Get returns the raw stored value for key.
func (s *SettingsService) Get(key string) (any, bool) {
	return s.configStore.Get(key)
}

// Set validates value for a known key and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := knownSettings[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var stored any
	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", domain.ErrInvalidInput, key, value)
		}
		stored = b
	case kindDuration:
		d, err := parseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: %s expects a duration such as 5s, got %q", domain.ErrInvalidInput, key, value)
		}
		stored = d.String()
	default:
		stored = strings.TrimSpace(value)
	}

	// Validate the whole configuration with the new value in place.
	cfg, _ := s.Load()
	switch key {
	case domain.KeyBackendURL:
		cfg.BackendURL = stored.(string)
	case domain.KeyAudioPlayer:
		cfg.AudioPlayer = stored.(string)
	case domain.KeyAudioProbe:
		cfg.AudioProbe = stored.(string)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Watch calls onChange whenever the stored configuration changes.
// It blocks until ctx is done.
func (s *SettingsService) Watch(ctx context.Context, onChange func()) error {
	return s.configStore.Watch(ctx, onChange)
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	if b, ok := val.(bool); ok {
		return b
	}
	return defaultVal
}

// getDuration accepts Go duration strings or a whole number of seconds.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case string:
		if d, err := parseDuration(v); err == nil && d >= 0 {
			return d
		}
	case int:
		if v >= 0 {
			return time.Duration(v) * time.Second
		}
	case int64:
		if v >= 0 {
			return time.Duration(v) * time.Second
		}
	}
	return defaultVal
}

// parseDuration parses a Go duration, treating a bare number as seconds.
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(value)
}
