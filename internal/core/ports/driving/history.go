package driving

import (
	"context"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

// HistoryService reads the operator journal.
type HistoryService interface {
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error)

	// ForItem returns the entries for a single ayah, newest first.
	ForItem(ctx context.Context, itemID string) ([]domain.JournalEntry, error)
}
