package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// DefaultHistoryLimit is used when a caller asks for a non-positive limit.
const DefaultHistoryLimit = 50

// HistoryService reads the operator journal.
type HistoryService struct {
	journal driven.JournalStore
}

// NewHistoryService creates a history service.
func NewHistoryService(journal driven.JournalStore) *HistoryService {
	return &HistoryService{journal: journal}
}

// Recent returns up to limit entries, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if s.journal == nil {
		return nil, domain.ErrNotImplemented
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	entries, err := s.journal.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return entries, nil
}

// ForItem returns the entries for one ayah, newest first.
func (s *HistoryService) ForItem(ctx context.Context, itemID string) ([]domain.JournalEntry, error) {
	if s.journal == nil {
		return nil, domain.ErrNotImplemented
	}
	if _, _, err := domain.ParseAyahID(itemID); err != nil {
		return nil, err
	}
	entries, err := s.journal.ForItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("read journal for %s: %w", itemID, err)
	}
	return entries, nil
}
