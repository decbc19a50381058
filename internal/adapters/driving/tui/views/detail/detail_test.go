package detail

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

// MockReviewService implements driving.ReviewService for testing.
type MockReviewService struct {
	MediaURLFunc func(item domain.Ayah, track domain.Track) (string, error)
}

func (m *MockReviewService) Refetch(context.Context) (domain.ListSnapshot, error) {
	return domain.ListSnapshot{}, nil
}

func (m *MockReviewService) Snapshot() domain.ListSnapshot { return domain.ListSnapshot{} }

func (m *MockReviewService) Split(context.Context, string) error { return nil }

func (m *MockReviewService) SplitAt(context.Context, string, int64) error { return nil }

func (m *MockReviewService) Approve(context.Context, string) error { return nil }

func (m *MockReviewService) MediaURL(item domain.Ayah, track domain.Track) (string, error) {
	if m.MediaURLFunc != nil {
		return m.MediaURLFunc(item, track)
	}
	return item.MediaURL(track), nil
}

func (m *MockReviewService) SetLiveAttached(bool) {}
func (m *MockReviewService) SplitSettled(string) {}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

func sample() domain.Ayah {
	return domain.Ayah{
		ID:                   "2_255",
		CombinedURL:          strPtr("http://x/2_255.wav"),
		ArabicURL:            strPtr("http://x/2_255_ar.wav"),
		SourceTranslation:    strPtr("Allah - there is no deity except Him"),
		EnglishTranscription: strPtr("allah there is no deity except him"),
		Matches:              boolPtr(false),
		WER:                  floatPtr(0.125),
	}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, &MockReviewService{})

	require.NotNil(t, v)
	assert.Nil(t, v.Item())
	assert.Nil(t, v.Init())
	assert.Contains(t, v.View(), "No ayah selected")
}

func TestView_RendersFields(t *testing.T) {
	v := NewView(nil, &MockReviewService{
		MediaURLFunc: func(item domain.Ayah, track domain.Track) (string, error) {
			return item.MediaURL(track) + "?v=3", nil
		},
	})
	v.SetDimensions(120, 40)
	v.SetItem(sample())

	view := v.View()

	assert.Contains(t, view, "Ayah Details")
	assert.Contains(t, view, "2_255")
	assert.Contains(t, view, "mismatch")
	assert.Contains(t, view, "0.1250")
	assert.Contains(t, view, "Edit, Approve")
	assert.Contains(t, view, "http://x/2_255.wav?v=3")
	assert.Contains(t, view, "http://x/2_255_ar.wav?v=3")
	assert.Contains(t, view, "english:")
	assert.Contains(t, view, "allah there is no deity except him")
}

func TestView_MediaURLErrorFallsBackToRaw(t *testing.T) {
	v := NewView(nil, &MockReviewService{
		MediaURLFunc: func(domain.Ayah, domain.Track) (string, error) {
			return "", errors.New("bad url")
		},
	})
	v.SetDimensions(120, 40)
	v.SetItem(sample())

	assert.Contains(t, v.View(), "http://x/2_255.wav")
}

func TestView_RefreshReplacesItem(t *testing.T) {
	v := NewView(nil, nil)
	v.SetItem(sample())

	fresh := sample()
	fresh.Matches = boolPtr(true)
	v.Update(messages.ListLoaded{Snapshot: domain.ListSnapshot{Items: []domain.Ayah{fresh}}})

	require.NotNil(t, v.Item())
	assert.Equal(t, domain.StatusMatched, v.Item().Status())
	assert.False(t, v.Gone())
}

func TestView_RefreshMarksGone(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(120, 40)
	v.SetItem(sample())

	v.Refresh([]domain.Ayah{{ID: "1_1"}})

	assert.True(t, v.Gone())
	assert.Contains(t, v.View(), "no longer in the collection")
}

func TestView_Keys(t *testing.T) {
	v := NewView(nil, nil)
	v.SetItem(sample())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewChanged{View: messages.ViewReview}, cmd())

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("H")})
	assert.Equal(t, messages.OpenHistory{ItemID: "2_255"}, cmd())

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, messages.Quit{}, cmd())
}

func TestView_Scroll(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(80, 10)
	v.SetItem(sample())

	for i := 0; i < 50; i++ {
		v.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, v.maxScrollOffset(), v.scrollOffset)
	assert.Contains(t, v.View(), "[Line")

	for i := 0; i < 50; i++ {
		v.Update(tea.KeyMsg{Type: tea.KeyUp})
	}
	assert.Equal(t, 0, v.scrollOffset)
}
