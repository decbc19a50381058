package driving

import (
	"context"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

// ReviewService is the single source of truth for the displayed collection
// and the entry point for operator actions.
type ReviewService interface {
	// Refetch downloads the full collection and returns the resulting state
	// along with the fetch error, if any. A failure never discards rows
	// that are already loaded.
	Refetch(ctx context.Context) (domain.ListSnapshot, error)

	// Snapshot returns the current state without fetching.
	Snapshot() domain.ListSnapshot

	// Split requests an automatic re-split.
	Split(ctx context.Context, id string) error

	// SplitAt requests a re-split at splitTimeMS.
	SplitAt(ctx context.Context, id string, splitTimeMS int64) error

	// Approve force-accepts a non-matching item.
	Approve(ctx context.Context, id string) error

	// MediaURL returns the cache-busted URL for one of an item's tracks.
	MediaURL(item domain.Ayah, track domain.Track) (string, error)

	// SetLiveAttached records whether a push stream is currently attached.
	// While attached, split completions are counted from the stream, and
	// detaching counts any local split whose outcome was never pushed.
	SetLiveAttached(attached bool)

	// SplitSettled marks the outcome of a split on id as pushed.
	SplitSettled(id string)
}
