package driving

import (
	"context"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

// Notifier receives the outcomes of push notifications.
// Implementations must not block for long; they are called from the
// listener goroutine.
type Notifier interface {
	// SplitCompleted is called after a split_finished push has bumped the
	// item's version and the collection has been re-fetched.
	SplitCompleted(itemID string, snapshot domain.ListSnapshot, err error)

	// SplitFailed is called for a split_failed push.
	SplitFailed(itemID, reason string)

	// Resynced is called with the catch-up refetch after a reconnect.
	Resynced(snapshot domain.ListSnapshot, err error)

	// ConnectionChanged is called when the stream attaches or detaches.
	ConnectionChanged(connected bool)
}

// LiveUpdates runs the push-notification listener.
type LiveUpdates interface {
	// Run subscribes and dispatches events until ctx is done. It returns
	// domain.ErrStreamClosed if the stream ends and reconnection is off.
	Run(ctx context.Context, notifier Notifier) error

	// Handle dispatches a single event.
	Handle(ctx context.Context, event domain.Event, notifier Notifier)
}
