// Package history provides the operator journal view for the TUI.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/commands"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driving"
)

// View lists journal entries, newest first.
type View struct {
	ctx     context.Context
	styles  *styles.Styles
	history driving.HistoryService

	itemID   string
	entries  []domain.JournalEntry
	selected int
	offset   int
	loading  bool
	err      error
	back     messages.ViewType
	width    int
	height   int
}

// NewView creates a new history view.
func NewView(s *styles.Styles, history driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		ctx:     context.Background(),
		styles:  s,
		history: history,
		width:   80,
		height:  24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Open starts loading entries for itemID, or recent entries across all
// items when itemID is empty. Esc returns to back.
func (v *View) Open(itemID string, back messages.ViewType) tea.Cmd {
	v.itemID = itemID
	v.back = back
	v.entries = nil
	v.selected = 0
	v.offset = 0
	v.err = nil
	return v.load()
}

func (v *View) load() tea.Cmd {
	v.loading = true
	return commands.LoadHistory(v.ctx, v.history, v.itemID)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.HistoryLoaded:
		if msg.ItemID != v.itemID {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.entries = msg.Entries
		v.selected = min(v.selected, max(len(v.entries)-1, 0))
		v.scroll()
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.scroll()
		}
	case "down", "j":
		if v.selected < len(v.entries)-1 {
			v.selected++
			v.scroll()
		}
	case "a":
		// Widen to every item.
		if v.itemID != "" {
			return v, v.Open("", v.back)
		}
	case "r":
		return v, v.load()
	case "esc":
		return v, commands.Emit(messages.ViewChanged{View: v.back})
	case "q":
		return v, commands.Emit(messages.Quit{})
	}
	return v, nil
}

func (v *View) visibleRows() int {
	return max(v.height-8, 3)
}

func (v *View) scroll() {
	visible := v.visibleRows()
	if v.selected < v.offset {
		v.offset = v.selected
	}
	if v.selected >= v.offset+visible {
		v.offset = v.selected - visible + 1
	}
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder

	title := "History"
	if v.itemID != "" {
		title += " · " + v.itemID
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	switch {
	case v.loading && len(v.entries) == 0:
		b.WriteString(v.styles.Muted.Render("Loading history..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()

	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()

	case len(v.entries) == 0:
		b.WriteString(v.styles.Muted.Render("No journal entries yet."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	header := fmt.Sprintf("  %-19s  %-18s  %-8s  %s", "When", "Kind", "Ayah", "Detail")
	b.WriteString(v.styles.Header.Render(header))
	b.WriteString("\n")

	end := min(v.offset+v.visibleRows(), len(v.entries))
	for i := v.offset; i < end; i++ {
		b.WriteString(v.renderEntry(i, &v.entries[i]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderEntry(index int, e *domain.JournalEntry) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	detail := e.Detail
	if e.Kind == domain.JournalSplitAtRequested {
		detail = fmt.Sprintf("at %d ms", e.SplitTimeMS)
	}
	when := e.At.Local().Format("2006-01-02 15:04:05")
	kind := fmt.Sprintf("%-18s", e.Kind)

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-19s  %s  %-8s  %s", indicator, when, kind, e.ItemID, detail))
	}
	return v.styles.Normal.Render(indicator) +
		v.styles.Muted.Render(when+"  ") +
		v.kindStyle(e.Kind).Render(kind) +
		v.styles.Normal.Render(fmt.Sprintf("  %-8s  %s", e.ItemID, detail))
}

func (v *View) kindStyle(kind domain.JournalKind) lipgloss.Style {
	switch kind {
	case domain.JournalActionFailed, domain.JournalSplitFailed:
		return v.styles.Error
	case domain.JournalSplitFinished:
		return v.styles.Success
	default:
		return v.styles.Subtitle
	}
}

func (v *View) renderHelp() string {
	help := "[↑/↓] navigate  [r] reload  [esc] back  [q] quit"
	if v.itemID != "" {
		help = "[↑/↓] navigate  [a] all items  [r] reload  [esc] back  [q] quit"
	}
	return v.styles.Help.Render(help)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.scroll()
}

// Entries returns the loaded entries.
func (v *View) Entries() []domain.JournalEntry {
	return v.entries
}

// ItemID returns the item filter, empty for all items.
func (v *View) ItemID() string {
	return v.itemID
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
