// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

// AyahInput is the go-to-ayah prompt. It accepts identifiers in the
// backend's "<surah>_<ayah>" form, or a bare surah number.
type AyahInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewAyahInput creates a focused go-to-ayah prompt.
func NewAyahInput(s *styles.Styles) *AyahInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "e.g. 2_255"
	ti.Focus()
	ti.CharLimit = 16
	ti.Width = 20

	return &AyahInput{
		textinput: ti,
		styles:    s,
		width:     20,
	}
}

// Init initialises the input.
func (a *AyahInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages. Runes other than digits and the
// separator are dropped.
func (a *AyahInput) Update(msg tea.Msg) (*AyahInput, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyRunes {
		for _, r := range km.Runes {
			if (r < '0' || r > '9') && r != '_' {
				return a, nil
			}
		}
	}

	var cmd tea.Cmd
	a.textinput, cmd = a.textinput.Update(msg)
	return a, cmd
}

// View renders the prompt.
func (a *AyahInput) View() string {
	label := a.styles.Title.Render("Go to ayah: ")
	field := a.styles.InputField.Render(a.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Target parses the current value into a surah and ayah number.
func (a *AyahInput) Target() (surah, ayah int, err error) {
	return domain.ParseAyahID(a.textinput.Value())
}

// Value returns the current input value.
func (a *AyahInput) Value() string {
	return a.textinput.Value()
}

// SetValue sets the input value.
func (a *AyahInput) SetValue(value string) {
	a.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (a *AyahInput) Focus() tea.Cmd {
	return a.textinput.Focus()
}

// Blur removes focus from the input.
func (a *AyahInput) Blur() {
	a.textinput.Blur()
}

// Focused returns whether the input is focused.
func (a *AyahInput) Focused() bool {
	return a.textinput.Focused()
}

// SetWidth sets the width of the input.
func (a *AyahInput) SetWidth(width int) {
	a.width = width
	inputWidth := width - 16
	if inputWidth < 10 {
		inputWidth = 10
	}
	a.textinput.Width = inputWidth
}

// Width returns the current width.
func (a *AyahInput) Width() int {
	return a.width
}

// Reset clears the input.
func (a *AyahInput) Reset() {
	a.textinput.Reset()
}
