package domain

import "time"

// JournalKind classifies a journal entry.
type JournalKind string

const (
	JournalSplitRequested   JournalKind = "split_requested"
	JournalSplitAtRequested JournalKind = "split_at_requested"
	JournalApproveRequested JournalKind = "approve_requested"
	JournalActionFailed     JournalKind = "action_failed"
	JournalSplitFinished    JournalKind = "split_finished"
	JournalSplitFailed      JournalKind = "split_failed"
)

// JournalEntry records an operator action or a pushed outcome.
type JournalEntry struct {
	// ID is the unique entry identifier (UUID).
	ID string `json:"id"`

	// ItemID is the ayah the entry concerns.
	ItemID string `json:"item_id"`

	// Kind classifies the entry.
	Kind JournalKind `json:"kind"`

	// SplitTimeMS is set for split_at_requested entries.
	SplitTimeMS int64 `json:"split_time_ms,omitempty"`

	// Detail carries an error message or other free text.
	Detail string `json:"detail,omitempty"`

	// At is when the entry was recorded.
	At time.Time `json:"at"`
}
