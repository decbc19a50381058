package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
)

// Ensure JournalStore implements the interface.
var _ driven.JournalStore = (*JournalStore)(nil)

// JournalStore is an in-memory implementation of driven.JournalStore.
// Entries are kept in append order and lost when the process exits.
type JournalStore struct {
	mu      sync.RWMutex
	entries []domain.JournalEntry
}

// NewJournalStore creates a new in-memory journal store.
func NewJournalStore() *JournalStore {
	return &JournalStore{}
}

// Append records an entry.
func (s *JournalStore) Append(_ context.Context, entry domain.JournalEntry) error {
	if entry.ID == "" || entry.ItemID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *JournalStore) Recent(_ context.Context, limit int) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.JournalEntry, 0, min(limit, len(s.entries)))
	for i := len(s.entries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, s.entries[i])
	}
	return result, nil
}

// ForItem returns all entries for an item, newest first.
func (s *JournalStore) ForItem(_ context.Context, itemID string) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.JournalEntry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].ItemID == itemID {
			result = append(result, s.entries[i])
		}
	}
	return result, nil
}
