package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Configuration keys, in flattened dot notation.
const (
	KeyBackendURL     = "backend.url"
	KeyBackendTimeout = "backend.timeout"
	KeyEventsEnabled  = "events.enabled"
	KeyReconnectDelay = "events.reconnect_delay"
	KeyAudioPlayer    = "audio.player"
	KeyAudioProbe     = "audio.probe"
	KeyJournalEnabled = "journal.enabled"
)

// Default configuration values.
const (
	DefaultBackendURL  = "http://localhost:8000"
	DefaultAudioPlayer = "ffplay"
	DefaultAudioProbe  = "ffprobe"
)

// ConsoleConfig is the resolved console configuration.
type ConsoleConfig struct {
	// BackendURL is the base URL of the segmentation backend.
	BackendURL string

	// BackendTimeout bounds each request. Zero means no timeout.
	BackendTimeout time.Duration

	// EventsEnabled controls the live-update listener.
	EventsEnabled bool

	// ReconnectDelay paces re-subscription after the stream drops.
	// Zero disables reconnection.
	ReconnectDelay time.Duration

	// AudioPlayer is the playback binary.
	AudioPlayer string

	// AudioProbe is the duration probe binary.
	AudioProbe string

	// JournalEnabled selects the persistent journal over the in-memory one.
	JournalEnabled bool
}

// DefaultConsoleConfig returns the built-in defaults.
func DefaultConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		BackendURL:     DefaultBackendURL,
		EventsEnabled:  true,
		AudioPlayer:    DefaultAudioPlayer,
		AudioProbe:     DefaultAudioProbe,
		JournalEnabled: true,
	}
}

// Validate checks the configuration for unusable values.
func (c *ConsoleConfig) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL, got %q",
			ErrInvalidInput, KeyBackendURL, c.BackendURL)
	}
	if c.BackendTimeout < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, KeyBackendTimeout)
	}
	if c.ReconnectDelay < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, KeyReconnectDelay)
	}
	if c.AudioPlayer == "" {
		return fmt.Errorf("%w: %s must be set", ErrInvalidInput, KeyAudioPlayer)
	}
	if c.AudioProbe == "" {
		return fmt.Errorf("%w: %s must be set", ErrInvalidInput, KeyAudioProbe)
	}
	return nil
}

// ReconnectEnabled reports whether the live listener re-subscribes.
func (c *ConsoleConfig) ReconnectEnabled() bool {
	return c.ReconnectDelay > 0
}
