// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewReview is the surah selector and ayah table.
	ViewReview ViewType = iota
	// ViewSplitPoint is the split-point modal.
	ViewSplitPoint
	// ViewDetail shows every field of one ayah.
	ViewDetail
	// ViewHistory lists journal entries.
	ViewHistory
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewReview:
		return "review"
	case ViewSplitPoint:
		return "split_point"
	case ViewDetail:
		return "detail"
	case ViewHistory:
		return "history"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred is sent when an error needs to be displayed.
type ErrorOccurred struct {
	Err error
}

// Quit is sent to exit the application.
type Quit struct{}

// ListLoaded carries the state after a re-fetch of the collection.
// Err is the fetch error; Snapshot keeps any rows already loaded.
type ListLoaded struct {
	Snapshot domain.ListSnapshot
	Err      error
}

// ActionFinished is sent after an operator action has been submitted.
// When the action succeeded, the collection has been re-fetched and
// Snapshot holds the result.
type ActionFinished struct {
	ItemID   string
	Action   domain.Action
	Err      error
	Snapshot *domain.ListSnapshot
}

// SplitCompleted is sent for a split_finished push, after the refetch.
type SplitCompleted struct {
	ItemID   string
	Snapshot domain.ListSnapshot
	Err      error
}

// SplitFailed is sent for a split_failed push.
type SplitFailed struct {
	ItemID string
	Reason string
}

// Resynced is sent with the catch-up refetch after a reconnect.
type Resynced struct {
	Snapshot domain.ListSnapshot
	Err      error
}

// ConnectionChanged is sent when the push stream attaches or detaches.
type ConnectionChanged struct {
	Connected bool
}

// LiveStopped is sent when the push listener exits.
type LiveStopped struct {
	Err error
}

// OpenSplitPoint asks the app to open the split-point modal for an item.
type OpenSplitPoint struct {
	Item domain.Ayah
}

// OpenDetail asks the app to show the detail view for an item.
type OpenDetail struct {
	Item domain.Ayah
}

// OpenHistory asks the app to show the journal. An empty ItemID shows
// recent entries across all items.
type OpenHistory struct {
	ItemID string
}

// DurationProbed carries the probed clip length for the split-point modal.
type DurationProbed struct {
	ItemID  string
	Seconds float64
	Err     error
}

// PlaybackStarted is sent once a track has started playing. Origin is
// the view that asked for it.
type PlaybackStarted struct {
	Origin   ViewType
	ItemID   string
	Track    domain.Track
	Offset   float64
	Playback driven.Playback
	Err      error
}

// PlaybackEnded is sent when a playback handle's Done channel closes.
type PlaybackEnded struct {
	Origin   ViewType
	Playback driven.Playback
}

// PositionTick drives position reporting while the modal is playing.
type PositionTick struct {
	ItemID string
}

// HistoryLoaded carries journal entries.
type HistoryLoaded struct {
	ItemID  string
	Entries []domain.JournalEntry
	Err     error
}

// ConfigReloaded is sent when the configuration file changed on disk.
type ConfigReloaded struct{}
