// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/styles"
)

// Connection is the state of the live-update stream.
type Connection string

const (
	ConnectionOff      Connection = "off"
	ConnectionLive     Connection = "live"
	ConnectionDetached Connection = "detached"
)

// Bar displays the stream state, refresh state, row counts and
// keybinding hints.
type Bar struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	connection Connection
	refreshing bool
	refreshErr string
	message    string
	shown      int
	total      int
	hints      []key.Binding
	width      int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:     s,
		keymap:     km,
		connection: ConnectionOff,
		hints:      km.ShortHelp(),
		width:      80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	parts := []string{s.renderConnection()}

	switch {
	case s.refreshing:
		parts = append(parts, s.styles.Muted.Render("refreshing..."))
	case s.refreshErr != "":
		parts = append(parts, s.styles.Error.Render("refresh failed: "+s.refreshErr))
	}

	if s.total > 0 {
		parts = append(parts, s.styles.Normal.Render(fmt.Sprintf("%d/%d ayahs", s.shown, s.total)))
	}
	if s.message != "" {
		parts = append(parts, s.styles.Success.Render(s.message))
	}
	return strings.Join(parts, "  ")
}

func (s *Bar) renderConnection() string {
	switch s.connection {
	case ConnectionLive:
		return s.styles.Success.Render("● live")
	case ConnectionDetached:
		return s.styles.Warning.Render("○ detached")
	default:
		return s.styles.Muted.Render("○ offline")
	}
}

func (s *Bar) renderRight() string {
	hints := make([]string, 0, len(s.hints))
	for _, b := range s.hints {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetConnection sets the stream state.
func (s *Bar) SetConnection(c Connection) {
	s.connection = c
}

// Connection returns the stream state.
func (s *Bar) Connection() Connection {
	return s.connection
}

// SetRefresh records the background refresh state.
func (s *Bar) SetRefresh(refreshing bool, refreshErr string) {
	s.refreshing = refreshing
	s.refreshErr = refreshErr
}

// RefreshErr returns the last background refresh failure.
func (s *Bar) RefreshErr() string {
	return s.refreshErr
}

// SetCounts sets the number of rows shown for the selected surah and
// the size of the whole collection.
func (s *Bar) SetCounts(shown, total int) {
	s.shown = shown
	s.total = total
}

// SetMessage sets a transient message, such as an action confirmation.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetHints replaces the keybinding hints.
func (s *Bar) SetHints(hints []key.Binding) {
	s.hints = hints
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
