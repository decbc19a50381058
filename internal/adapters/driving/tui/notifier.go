package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driving"
)

// Ensure programNotifier implements the interface.
var _ driving.Notifier = (*programNotifier)(nil)

// programNotifier forwards push outcomes into the running program.
type programNotifier struct {
	send func(tea.Msg)
}

// NewNotifier returns a Notifier that delivers each outcome as a
// message through send, typically (*tea.Program).Send.
func NewNotifier(send func(tea.Msg)) driving.Notifier {
	return &programNotifier{send: send}
}

func (n *programNotifier) SplitCompleted(itemID string, snapshot domain.ListSnapshot, err error) {
	n.send(messages.SplitCompleted{ItemID: itemID, Snapshot: snapshot, Err: err})
}

func (n *programNotifier) SplitFailed(itemID, reason string) {
	n.send(messages.SplitFailed{ItemID: itemID, Reason: reason})
}

func (n *programNotifier) Resynced(snapshot domain.ListSnapshot, err error) {
	n.send(messages.Resynced{Snapshot: snapshot, Err: err})
}

func (n *programNotifier) ConnectionChanged(connected bool) {
	n.send(messages.ConnectionChanged{Connected: connected})
}
