package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
)

// journalStore implements driven.JournalStore.
type journalStore struct {
	store *Store
}

var _ driven.JournalStore = (*journalStore)(nil)

// Append records an entry.
func (s *journalStore) Append(ctx context.Context, entry domain.JournalEntry) error {
	if entry.ID == "" || entry.ItemID == "" {
		return domain.ErrInvalidInput
	}
	if entry.At.IsZero() {
		entry.At = time.Now()
	}

	var splitTime interface{}
	if entry.Kind == domain.JournalSplitAtRequested {
		splitTime = entry.SplitTimeMS
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO journal (id, item_id, kind, split_time_ms, detail, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.ItemID, string(entry.Kind), splitTime,
		nullString(entry.Detail), entry.At.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("appending journal entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *journalStore) Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, item_id, kind, split_time_ms, detail, recorded_at
		FROM journal ORDER BY seq DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()
	return scanJournalRows(rows)
}

// ForItem returns all entries for an item, newest first.
func (s *journalStore) ForItem(ctx context.Context, itemID string) ([]domain.JournalEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, item_id, kind, split_time_ms, detail, recorded_at
		FROM journal WHERE item_id = ? ORDER BY seq DESC
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("querying journal for %s: %w", itemID, err)
	}
	defer rows.Close()
	return scanJournalRows(rows)
}

func scanJournalRows(rows *sql.Rows) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	for rows.Next() {
		var entry domain.JournalEntry
		var kind, recordedAt string
		var splitTime sql.NullInt64
		var detail sql.NullString
		if err := rows.Scan(&entry.ID, &entry.ItemID, &kind, &splitTime, &detail, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		entry.Kind = domain.JournalKind(kind)
		entry.SplitTimeMS = splitTime.Int64
		entry.Detail = detail.String
		if t, err := time.Parse(time.RFC3339Nano, recordedAt); err == nil {
			entry.At = t
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal: %w", err)
	}
	return entries, nil
}
