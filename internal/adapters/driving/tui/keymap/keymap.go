// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view or closes the modal.
	Back key.Binding

	// Up moves the row cursor up.
	Up key.Binding

	// Down moves the row cursor down.
	Down key.Binding

	// PrevAction focuses the previous row action.
	PrevAction key.Binding

	// NextAction focuses the next row action.
	NextAction key.Binding

	// Select runs the focused row action.
	Select key.Binding

	// PrevSurah selects the previous surah.
	PrevSurah key.Binding

	// NextSurah selects the next surah.
	NextSurah key.Binding

	// Jump opens the go-to-ayah prompt.
	Jump key.Binding

	// Refresh re-fetches the collection.
	Refresh key.Binding

	// PlayCombined plays the unsplit clip.
	PlayCombined key.Binding

	// PlayArabic plays the Arabic half.
	PlayArabic key.Binding

	// PlayEnglish plays the English half.
	PlayEnglish key.Binding

	// StopAudio stops any running playback.
	StopAudio key.Binding

	// Details opens the detail view for the selected row.
	Details key.Binding

	// History opens the journal.
	History key.Binding

	// TogglePlay starts or stops playback in the split-point modal.
	TogglePlay key.Binding

	// SeekBack moves the split point back 100 ms.
	SeekBack key.Binding

	// SeekForward moves the split point forward 100 ms.
	SeekForward key.Binding

	// SeekBackLong moves the split point back one second.
	SeekBackLong key.Binding

	// SeekForwardLong moves the split point forward one second.
	SeekForwardLong key.Binding

	// Confirm submits the split point.
	Confirm key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevAction: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev action"),
		),
		NextAction: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next action"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run action"),
		),
		PrevSurah: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev surah"),
		),
		NextSurah: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next surah"),
		),
		Jump: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "go to ayah"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		PlayCombined: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "play combined"),
		),
		PlayArabic: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "play arabic"),
		),
		PlayEnglish: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "play english"),
		),
		StopAudio: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop audio"),
		),
		Details: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "details"),
		),
		History: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "history"),
		),
		TogglePlay: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/stop"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "-100ms"),
		),
		SeekForward: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "+100ms"),
		),
		SeekBackLong: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "-1s"),
		),
		SeekForwardLong: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "+1s"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm split"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.History, k.Help, k.Quit}
}

// SplitPointHelp returns keybindings for the split-point modal.
func (k *KeyMap) SplitPointHelp() []key.Binding {
	return []key.Binding{
		k.TogglePlay, k.SeekBack, k.SeekForward,
		k.SeekBackLong, k.SeekForwardLong, k.Confirm, k.Back,
	}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevAction, k.NextAction, k.Select},
		{k.PrevSurah, k.NextSurah, k.Jump, k.Refresh},
		{k.PlayCombined, k.PlayArabic, k.PlayEnglish, k.StopAudio},
		{k.Details, k.History, k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
