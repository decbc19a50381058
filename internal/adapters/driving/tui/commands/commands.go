// Package commands builds the Bubbletea commands shared by the TUI views.
// Each command runs one service call on the Bubbletea command goroutine
// and reports the outcome as a message.
package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driving"
)

// PositionInterval is how often the split-point modal samples the
// playback position.
const PositionInterval = 100 * time.Millisecond

// HistoryLimit is the number of entries loaded into the history view.
const HistoryLimit = 100

// Refetch re-downloads the collection.
func Refetch(ctx context.Context, review driving.ReviewService) tea.Cmd {
	return func() tea.Msg {
		snap, err := review.Refetch(ctx)
		return messages.ListLoaded{Snapshot: snap, Err: err}
	}
}

// Submit runs an operator action. On success the collection is
// re-fetched and returned with the result; a failed refetch shows up
// in the snapshot rather than as an action error.
func Submit(
	ctx context.Context, review driving.ReviewService,
	itemID string, action domain.Action, splitTimeMS int64,
) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch action {
		case domain.ActionAutoSplit:
			err = review.Split(ctx, itemID)
		case domain.ActionEdit:
			err = review.SplitAt(ctx, itemID, splitTimeMS)
		case domain.ActionApprove:
			err = review.Approve(ctx, itemID)
		default:
			err = fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, action)
		}

		msg := messages.ActionFinished{ItemID: itemID, Action: action, Err: err}
		if err != nil {
			return msg
		}
		snap, _ := review.Refetch(ctx)
		msg.Snapshot = &snap
		return msg
	}
}

// Play starts a track from offset seconds.
func Play(
	ctx context.Context, playback driving.PlaybackService, origin messages.ViewType,
	item domain.Ayah, track domain.Track, offset float64,
) tea.Cmd {
	return func() tea.Msg {
		msg := messages.PlaybackStarted{Origin: origin, ItemID: item.ID, Track: track, Offset: offset}
		if playback == nil {
			msg.Err = domain.ErrNotImplemented
			return msg
		}
		at := time.Duration(offset * float64(time.Second))
		msg.Playback, msg.Err = playback.Play(ctx, item, track, at)
		return msg
	}
}

// WaitPlayback reports when a playback ends.
func WaitPlayback(origin messages.ViewType, pb driven.Playback) tea.Cmd {
	return func() tea.Msg {
		<-pb.Done()
		return messages.PlaybackEnded{Origin: origin, Playback: pb}
	}
}

// Probe reads the length of an item's combined clip.
func Probe(ctx context.Context, playback driving.PlaybackService, item domain.Ayah) tea.Cmd {
	return func() tea.Msg {
		if playback == nil {
			return messages.DurationProbed{ItemID: item.ID, Err: domain.ErrNotImplemented}
		}
		seconds, err := playback.Duration(ctx, item, domain.TrackCombined)
		return messages.DurationProbed{ItemID: item.ID, Seconds: seconds, Err: err}
	}
}

// Tick schedules the next position sample for the modal.
func Tick(itemID string) tea.Cmd {
	return tea.Tick(PositionInterval, func(time.Time) tea.Msg {
		return messages.PositionTick{ItemID: itemID}
	})
}

// LoadHistory reads journal entries, for one item or across all items
// when itemID is empty.
func LoadHistory(ctx context.Context, history driving.HistoryService, itemID string) tea.Cmd {
	return func() tea.Msg {
		if history == nil {
			return messages.HistoryLoaded{ItemID: itemID, Err: domain.ErrNotImplemented}
		}
		var (
			entries []domain.JournalEntry
			err     error
		)
		if itemID == "" {
			entries, err = history.Recent(ctx, HistoryLimit)
		} else {
			entries, err = history.ForItem(ctx, itemID)
		}
		return messages.HistoryLoaded{ItemID: itemID, Entries: entries, Err: err}
	}
}

// Emit wraps a message as a command.
func Emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}
