package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
	"github.com/custodia-labs/ayah-review/internal/logger"
)

// record appends an entry to the journal. Journal failures are logged and
// never fail the action being recorded.
func record(ctx context.Context, journal driven.JournalStore, entry domain.JournalEntry) {
	if journal == nil {
		return
	}
	entry.ID = uuid.New().String()
	entry.At = time.Now().UTC()
	if err := journal.Append(ctx, entry); err != nil {
		logger.Warn("journal append failed for %s: %v", entry.ItemID, err)
	}
}
