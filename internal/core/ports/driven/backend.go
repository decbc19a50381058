package driven

import (
	"context"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

// ReviewBackend is the segmentation backend's HTTP surface.
// Non-2xx responses are returned as *domain.BackendError.
type ReviewBackend interface {
	// ListAyahs fetches the full collection.
	ListAyahs(ctx context.Context) ([]domain.Ayah, error)

	// Split asks the backend to re-split an item at a point it chooses.
	Split(ctx context.Context, id string) error

	// SplitAt asks the backend to re-split an item at splitTimeMS.
	SplitAt(ctx context.Context, id string, splitTimeMS int64) error

	// Approve force-accepts a non-matching item.
	Approve(ctx context.Context, id string) error
}
