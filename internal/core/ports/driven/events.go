package driven

import (
	"context"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

// EventSource opens the backend's push-notification stream.
type EventSource interface {
	// Subscribe opens one connection and returns its events. The channel
	// is closed when the transport ends or ctx is cancelled; it is not
	// restarted. Malformed payloads are dropped by the implementation.
	Subscribe(ctx context.Context) (<-chan domain.Event, error)
}
