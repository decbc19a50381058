package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

// MockHistoryService implements driving.HistoryService for testing.
type MockHistoryService struct {
	RecentFunc  func(ctx context.Context, limit int) ([]domain.JournalEntry, error)
	ForItemFunc func(ctx context.Context, itemID string) ([]domain.JournalEntry, error)
}

func (m *MockHistoryService) Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockHistoryService) ForItem(ctx context.Context, itemID string) ([]domain.JournalEntry, error) {
	if m.ForItemFunc != nil {
		return m.ForItemFunc(ctx, itemID)
	}
	return nil, nil
}

func entries() []domain.JournalEntry {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.JournalEntry{
		{ID: "3", ItemID: "1_1", Kind: domain.JournalSplitFailed, Detail: "no silence found", At: at.Add(2 * time.Minute)},
		{ID: "2", ItemID: "1_1", Kind: domain.JournalSplitAtRequested, SplitTimeMS: 4200, At: at.Add(time.Minute)},
		{ID: "1", ItemID: "2_5", Kind: domain.JournalApproveRequested, At: at},
	}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, &MockHistoryService{})

	require.NotNil(t, v)
	assert.Nil(t, v.Init())
	assert.Empty(t, v.Entries())
}

func TestView_OpenRecent(t *testing.T) {
	v := NewView(nil, &MockHistoryService{
		RecentFunc: func(context.Context, int) ([]domain.JournalEntry, error) {
			return entries(), nil
		},
	})
	v.SetDimensions(120, 30)

	cmd := v.Open("", messages.ViewReview)
	assert.Contains(t, v.View(), "Loading history...")

	v.Update(cmd())

	assert.Len(t, v.Entries(), 3)
	view := v.View()
	assert.Contains(t, view, "History")
	assert.Contains(t, view, "split_failed")
	assert.Contains(t, view, "no silence found")
	assert.Contains(t, view, "at 4200 ms")
	assert.Contains(t, view, "approve_requested")
}

func TestView_OpenForItem(t *testing.T) {
	var asked string
	v := NewView(nil, &MockHistoryService{
		ForItemFunc: func(_ context.Context, itemID string) ([]domain.JournalEntry, error) {
			asked = itemID
			return entries()[:2], nil
		},
	})
	v.SetDimensions(120, 30)

	v.Update(v.Open("1_1", messages.ViewDetail)())

	assert.Equal(t, "1_1", asked)
	assert.Equal(t, "1_1", v.ItemID())
	assert.Contains(t, v.View(), "History · 1_1")
	assert.Contains(t, v.View(), "[a] all items")
}

func TestView_IgnoresStaleLoad(t *testing.T) {
	v := NewView(nil, &MockHistoryService{})
	v.Open("1_1", messages.ViewReview)

	v.Update(messages.HistoryLoaded{ItemID: "", Entries: entries()})

	assert.Empty(t, v.Entries())
}

func TestView_LoadError(t *testing.T) {
	v := NewView(nil, &MockHistoryService{
		RecentFunc: func(context.Context, int) ([]domain.JournalEntry, error) {
			return nil, errors.New("database is locked")
		},
	})

	v.Update(v.Open("", messages.ViewReview)())

	assert.EqualError(t, v.Err(), "database is locked")
	assert.Contains(t, v.View(), "Error: database is locked")
}

func TestView_NoServiceShowsError(t *testing.T) {
	v := NewView(nil, nil)

	v.Update(v.Open("", messages.ViewReview)())

	assert.ErrorIs(t, v.Err(), domain.ErrNotImplemented)
}

func TestView_Empty(t *testing.T) {
	v := NewView(nil, &MockHistoryService{})

	v.Update(v.Open("", messages.ViewReview)())

	assert.Contains(t, v.View(), "No journal entries yet.")
}

func TestView_Keys(t *testing.T) {
	recentCalls := 0
	v := NewView(nil, &MockHistoryService{
		RecentFunc: func(context.Context, int) ([]domain.JournalEntry, error) {
			recentCalls++
			return entries(), nil
		},
		ForItemFunc: func(context.Context, string) ([]domain.JournalEntry, error) {
			return entries()[:1], nil
		},
	})
	v.Update(v.Open("1_1", messages.ViewDetail)())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	require.NotNil(t, cmd)
	v.Update(cmd())
	assert.Equal(t, "", v.ItemID())
	assert.Len(t, v.Entries(), 3)
	assert.Equal(t, 1, recentCalls)

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, v.selected)
	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, v.selected)

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	v.Update(cmd())
	assert.Equal(t, 2, recentCalls)

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewChanged{View: messages.ViewDetail}, cmd(), "esc returns to the opener")

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, messages.Quit{}, cmd())
}
