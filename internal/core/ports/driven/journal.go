package driven

import (
	"context"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

// JournalStore persists the operator journal.
type JournalStore interface {
	// Append records an entry.
	Append(ctx context.Context, entry domain.JournalEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error)

	// ForItem returns all entries for an item, newest first.
	ForItem(ctx context.Context, itemID string) ([]domain.JournalEntry, error)
}
