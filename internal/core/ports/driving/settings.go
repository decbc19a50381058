package driving

import (
	"context"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

// SettingsService resolves and edits console configuration.
type SettingsService interface {
	// Load merges stored values over the defaults and validates them.
	Load() (domain.ConsoleConfig, error)

	// Get returns the raw stored value for key.
	Get(key string) (any, bool)

	// Set validates and stores a value for a known key.
	Set(key, value string) error

	// Path returns the configuration file path.
	Path() string

	// Watch calls onChange whenever the stored configuration changes.
	// It blocks until ctx is done.
	Watch(ctx context.Context, onChange func()) error
}
