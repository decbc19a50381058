package mcp

import (
	"context"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

// mockReviewService is a mock implementation of driving.ReviewService.
type mockReviewService struct {
	snapshot domain.ListSnapshot
	err      error
	calls    []string
}

func (m *mockReviewService) Refetch(_ context.Context) (domain.ListSnapshot, error) {
	m.calls = append(m.calls, "refetch")
	return m.snapshot, m.err
}

func (m *mockReviewService) Snapshot() domain.ListSnapshot {
	return m.snapshot
}

func (m *mockReviewService) Split(_ context.Context, id string) error {
	m.calls = append(m.calls, "split "+id)
	return m.err
}

func (m *mockReviewService) SplitAt(_ context.Context, id string, _ int64) error {
	m.calls = append(m.calls, "split_at "+id)
	return m.err
}

func (m *mockReviewService) Approve(_ context.Context, id string) error {
	m.calls = append(m.calls, "approve "+id)
	return m.err
}

func (m *mockReviewService) MediaURL(item domain.Ayah, track domain.Track) (string, error) {
	return item.MediaURL(track), nil
}

func (m *mockReviewService) SetLiveAttached(bool) {}
func (m *mockReviewService) SplitSettled(string) {}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	entries   []domain.JournalEntry
	err       error
	lastLimit int
	lastItem  string
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.JournalEntry, error) {
	m.lastLimit = limit
	return m.entries, m.err
}

func (m *mockHistoryService) ForItem(_ context.Context, itemID string) ([]domain.JournalEntry, error) {
	m.lastItem = itemID
	return m.entries, m.err
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
