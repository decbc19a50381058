package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConsoleConfig(t *testing.T) {
	cfg := DefaultConsoleConfig()

	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Zero(t, cfg.BackendTimeout)
	assert.True(t, cfg.EventsEnabled)
	assert.False(t, cfg.ReconnectEnabled())
	assert.Equal(t, "ffplay", cfg.AudioPlayer)
	assert.Equal(t, "ffprobe", cfg.AudioProbe)
	assert.True(t, cfg.JournalEnabled)
	assert.NoError(t, cfg.Validate())
}

func TestConsoleConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *ConsoleConfig)
	}{
		{"relative url", func(c *ConsoleConfig) { c.BackendURL = "/ayahs" }},
		{"non-http scheme", func(c *ConsoleConfig) { c.BackendURL = "ftp://host" }},
		{"empty url", func(c *ConsoleConfig) { c.BackendURL = "" }},
		{"negative timeout", func(c *ConsoleConfig) { c.BackendTimeout = -time.Second }},
		{"negative reconnect", func(c *ConsoleConfig) { c.ReconnectDelay = -time.Second }},
		{"no player", func(c *ConsoleConfig) { c.AudioPlayer = "" }},
		{"no probe", func(c *ConsoleConfig) { c.AudioProbe = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConsoleConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidInput)
		})
	}
}

func TestConsoleConfig_ReconnectEnabled(t *testing.T) {
	cfg := DefaultConsoleConfig()
	cfg.ReconnectDelay = 3 * time.Second

	assert.True(t, cfg.ReconnectEnabled())
}
