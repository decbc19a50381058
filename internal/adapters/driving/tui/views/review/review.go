// Package review provides the surah selector and ayah table for the TUI.
package review

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/commands"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driving"
)

// chromeLines is the number of lines around the table: title, selector,
// header, transcript preview, now-playing and help.
const chromeLines = 12

// View is the review table.
type View struct {
	ctx      context.Context
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	review   driving.ReviewService
	playback driving.PlaybackService

	snapshot  domain.ListSnapshot
	surahs    []int
	selection domain.SurahSelection
	rows      []domain.Ayah
	cursor    int
	offset    int
	action    int

	jump    *input.AyahInput
	jumpErr string

	playing    driven.Playback
	nowPlaying string
	playErr    string

	width  int
	height int
}

// NewView creates a new review view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	review driving.ReviewService,
	playback driving.PlaybackService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		ctx:      context.Background(),
		styles:   s,
		keymap:   km,
		review:   review,
		playback: playback,
		width:    80,
		height:   24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the collection.
func (v *View) Init() tea.Cmd {
	return commands.Refetch(v.ctx, v.review)
}

// SetSnapshot applies a new collection state. The cursor follows the
// selected item across refetches when it is still present.
func (v *View) SetSnapshot(snap domain.ListSnapshot) {
	var current string
	if item, ok := v.Selected(); ok {
		current = item.ID
	}

	v.snapshot = snap
	v.surahs = domain.SurahNumbers(snap.Items)
	v.selection.Reconcile(v.surahs)
	v.rebuildRows()

	if current != "" {
		for i := range v.rows {
			if v.rows[i].ID == current {
				v.cursor = i
				break
			}
		}
	}
	v.clampCursor()
}

func (v *View) rebuildRows() {
	surah, ok := v.selection.Selected()
	if !ok {
		v.rows = nil
		return
	}
	v.rows = domain.FilterBySurah(v.snapshot.Items, surah)
}

func (v *View) clampCursor() {
	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	if item, ok := v.Selected(); ok {
		if n := len(item.Actions()); v.action >= n {
			v.action = max(n-1, 0)
		}
	} else {
		v.action = 0
	}
	v.scroll()
}

func (v *View) scroll() {
	visible := v.visibleRows()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

func (v *View) visibleRows() int {
	return max(v.height-chromeLines, 3)
}

// Update handles messages for the review view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.jump != nil {
			return v.handleJumpKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.ListLoaded:
		v.SetSnapshot(msg.Snapshot)
		return v, nil

	case messages.PlaybackStarted:
		if msg.Err != nil {
			v.playErr = msg.Err.Error()
			return v, nil
		}
		v.StopAudio()
		v.playing = msg.Playback
		v.nowPlaying = fmt.Sprintf("%s %s", msg.ItemID, msg.Track)
		v.playErr = ""
		return v, commands.WaitPlayback(messages.ViewReview, msg.Playback)

	case messages.PlaybackEnded:
		if msg.Playback == v.playing {
			v.playing = nil
			v.nowPlaying = ""
		}
		return v, nil
	}

	return v, nil
}

//nolint:gocyclo // flat key dispatch
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Quit):
		return v, commands.Emit(messages.Quit{})
	case keymap.Matches(k, v.keymap.Help):
		return v, commands.Emit(messages.ViewChanged{View: messages.ViewHelp})
	case keymap.Matches(k, v.keymap.Up):
		if v.cursor > 0 {
			v.cursor--
			v.action = 0
			v.scroll()
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
			v.action = 0
			v.scroll()
		}
	case keymap.Matches(k, v.keymap.PrevAction):
		if v.action > 0 {
			v.action--
		}
	case keymap.Matches(k, v.keymap.NextAction):
		if item, ok := v.Selected(); ok && v.action < len(item.Actions())-1 {
			v.action++
		}
	case keymap.Matches(k, v.keymap.Select):
		return v, v.runFocusedAction()
	case keymap.Matches(k, v.keymap.NextSurah):
		v.stepSurah(1)
	case keymap.Matches(k, v.keymap.PrevSurah):
		v.stepSurah(-1)
	case keymap.Matches(k, v.keymap.Jump):
		v.jump = input.NewAyahInput(v.styles)
		v.jumpErr = ""
		return v, v.jump.Init()
	case keymap.Matches(k, v.keymap.Refresh):
		return v, commands.Refetch(v.ctx, v.review)
	case keymap.Matches(k, v.keymap.PlayCombined):
		return v, v.play(domain.TrackCombined)
	case keymap.Matches(k, v.keymap.PlayArabic):
		return v, v.play(domain.TrackArabic)
	case keymap.Matches(k, v.keymap.PlayEnglish):
		return v, v.play(domain.TrackEnglish)
	case keymap.Matches(k, v.keymap.StopAudio):
		v.StopAudio()
	case keymap.Matches(k, v.keymap.Details):
		if item, ok := v.Selected(); ok {
			return v, commands.Emit(messages.OpenDetail{Item: *item})
		}
	case keymap.Matches(k, v.keymap.History):
		return v, commands.Emit(messages.OpenHistory{})
	}
	return v, nil
}

func (v *View) handleJumpKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.jump = nil
		v.jumpErr = ""
		return v, nil
	case tea.KeyEnter:
		surah, ayah, err := v.jump.Target()
		if err != nil {
			v.jumpErr = err.Error()
			return v, nil
		}
		if !v.goTo(surah, ayah) {
			v.jumpErr = fmt.Sprintf("%d_%d is not in the collection", surah, ayah)
			return v, nil
		}
		v.jump = nil
		v.jumpErr = ""
		return v, nil
	}

	var cmd tea.Cmd
	v.jump, cmd = v.jump.Update(msg)
	return v, cmd
}

// goTo selects the surah and moves the cursor to the ayah.
func (v *View) goTo(surah, ayah int) bool {
	rows := domain.FilterBySurah(v.snapshot.Items, surah)
	for i := range rows {
		if n, err := rows[i].Number(); err == nil && n == ayah {
			v.selection.Select(surah)
			v.rows = rows
			v.cursor = i
			v.action = 0
			v.scroll()
			return true
		}
	}
	return false
}

func (v *View) stepSurah(delta int) {
	before, _ := v.selection.Selected()
	v.selection.Step(v.surahs, delta)
	if after, _ := v.selection.Selected(); after == before {
		return
	}
	v.rebuildRows()
	v.cursor = 0
	v.offset = 0
	v.action = 0
}

func (v *View) runFocusedAction() tea.Cmd {
	item, ok := v.Selected()
	if !ok {
		return nil
	}
	actions := item.Actions()
	if v.action >= len(actions) {
		return nil
	}

	switch action := actions[v.action]; action {
	case domain.ActionEdit:
		v.StopAudio()
		return commands.Emit(messages.OpenSplitPoint{Item: *item})
	default:
		return commands.Submit(v.ctx, v.review, item.ID, action, 0)
	}
}

func (v *View) play(track domain.Track) tea.Cmd {
	item, ok := v.Selected()
	if !ok {
		return nil
	}
	if item.MediaURL(track) == "" {
		v.playErr = fmt.Sprintf("%s has no %s audio", item.ID, track)
		return nil
	}
	v.StopAudio()
	return commands.Play(v.ctx, v.playback, messages.ViewReview, *item, track, 0)
}

// StopAudio stops any playback started from the table.
func (v *View) StopAudio() {
	if v.playing != nil {
		_ = v.playing.Stop()
		v.playing = nil
		v.nowPlaying = ""
	}
}

// View renders the review view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Ayah Review"))
	b.WriteString("\n\n")

	switch {
	case v.snapshot.Phase == domain.PhaseError:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Failed to load ayahs: %s", v.snapshot.Err)))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[r] retry  [q] quit"))
		return b.String()

	case v.snapshot.Phase == domain.PhaseIdle || v.snapshot.Loading():
		b.WriteString(v.styles.Muted.Render("Loading ayahs..."))
		b.WriteString("\n")
		return b.String()

	case len(v.snapshot.Items) == 0:
		b.WriteString(v.styles.Muted.Render("No ayahs returned by the backend."))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[r] refresh  [q] quit"))
		return b.String()
	}

	b.WriteString(v.renderSelector())
	b.WriteString("\n\n")

	if len(v.rows) == 0 {
		surah, _ := v.selection.Selected()
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("No ayahs in surah %d.", surah)))
		b.WriteString("\n")
	} else {
		b.WriteString(v.renderTable())
		b.WriteString(v.renderPreview())
	}

	if v.jump != nil {
		b.WriteString("\n")
		b.WriteString(v.jump.View())
		if v.jumpErr != "" {
			b.WriteString("  ")
			b.WriteString(v.styles.Error.Render(v.jumpErr))
		}
		b.WriteString("\n")
	}

	switch {
	case v.playErr != "":
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Playback: " + v.playErr))
		b.WriteString("\n")
	case v.nowPlaying != "":
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render("▶ " + v.nowPlaying))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderSelector draws the surah tabs, windowed around the selection.
func (v *View) renderSelector() string {
	selected, _ := v.selection.Selected()
	idx := 0
	for i, s := range v.surahs {
		if s == selected {
			idx = i
			break
		}
	}

	const span = 7
	lo := max(idx-span, 0)
	hi := min(idx+span+1, len(v.surahs))

	parts := make([]string, 0, hi-lo+2)
	if lo > 0 {
		parts = append(parts, v.styles.Muted.Render("‹"))
	}
	for _, s := range v.surahs[lo:hi] {
		label := strconv.Itoa(s)
		if s == selected {
			parts = append(parts, v.styles.ActionFocused.Render(label))
		} else {
			parts = append(parts, v.styles.Muted.Render(label))
		}
	}
	if hi < len(v.surahs) {
		parts = append(parts, v.styles.Muted.Render("›"))
	}

	return v.styles.Subtitle.Render("Surah ") + strings.Join(parts, " ")
}

func (v *View) renderTable() string {
	var b strings.Builder

	textWidth := max(v.width-48, 16)
	header := fmt.Sprintf("  %-8s %-9s %6s  %-*s  %s", "Ayah", "Status", "WER", textWidth, "Heard", "Actions")
	b.WriteString(v.styles.Header.Render(header))
	b.WriteString("\n")

	end := min(v.offset+v.visibleRows(), len(v.rows))
	for i := v.offset; i < end; i++ {
		b.WriteString(v.renderRow(i, &v.rows[i], textWidth))
		b.WriteString("\n")
	}
	if end < len(v.rows) || v.offset > 0 {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  rows %d-%d of %d", v.offset+1, end, len(v.rows))))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderRow(index int, item *domain.Ayah, textWidth int) string {
	indicator := "  "
	if index == v.cursor {
		indicator = "> "
	}

	status := item.Status()
	wer := "-"
	if item.WER != nil {
		wer = fmt.Sprintf("%.2f", *item.WER)
	}
	heard := "-"
	if item.EnglishTranscription != nil {
		heard = truncate(*item.EnglishTranscription, textWidth)
	}

	cells := fmt.Sprintf("%-8s ", item.ID)
	statusCell := fmt.Sprintf("%-9s", status)
	rest := fmt.Sprintf(" %6s  %-*s  ", wer, textWidth, heard)

	var line string
	if index == v.cursor {
		line = v.styles.Selected.Render(indicator+cells) +
			v.styles.ForStatus(status).Render(statusCell) +
			v.styles.Selected.Render(rest)
	} else {
		line = v.styles.Normal.Render(indicator+cells) +
			v.styles.ForStatus(status).Render(statusCell) +
			v.styles.Normal.Render(rest)
	}
	return line + v.renderActions(index, item)
}

func (v *View) renderActions(index int, item *domain.Ayah) string {
	actions := item.Actions()
	if len(actions) == 0 {
		return v.styles.Muted.Render("-")
	}
	buttons := make([]string, 0, len(actions))
	for i, a := range actions {
		label := "[" + a.Label() + "]"
		if index == v.cursor && i == v.action {
			buttons = append(buttons, v.styles.ActionFocused.Render(label))
		} else {
			buttons = append(buttons, v.styles.Action.Render(label))
		}
	}
	return strings.Join(buttons, "")
}

// renderPreview shows the full transcripts for the cursor row.
func (v *View) renderPreview() string {
	item, ok := v.Selected()
	if !ok {
		return ""
	}
	source := "-"
	if item.SourceTranslation != nil {
		source = *item.SourceTranslation
	}
	heard := "-"
	if item.EnglishTranscription != nil {
		heard = *item.EnglishTranscription
	}

	limit := max(v.width-10, 20)
	return "\n" +
		v.styles.Muted.Render("Source: ") + v.styles.Normal.Render(truncate(source, limit)) + "\n" +
		v.styles.Muted.Render("Heard:  ") + v.styles.Normal.Render(truncate(heard, limit)) + "\n"
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render(
		"[↑↓] row  [←→] action  [enter] run  [tab] surah  [/] go to  " +
			"[p/a/e] play  [s] stop  [d] details  [r] refresh  [H] history  [?] help  [q] quit",
	)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.scroll()
}

// Selected returns the item under the cursor.
func (v *View) Selected() (*domain.Ayah, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return nil, false
	}
	return &v.rows[v.cursor], true
}

// SelectedSurah returns the surah being shown.
func (v *View) SelectedSurah() (int, bool) {
	return v.selection.Selected()
}

// Rows returns the rows of the selected surah.
func (v *View) Rows() []domain.Ayah {
	return v.rows
}

// Cursor returns the cursor row index.
func (v *View) Cursor() int {
	return v.cursor
}

// FocusedAction returns the focused row action, if the row offers any.
func (v *View) FocusedAction() (domain.Action, bool) {
	item, ok := v.Selected()
	if !ok {
		return "", false
	}
	actions := item.Actions()
	if v.action >= len(actions) {
		return "", false
	}
	return actions[v.action], true
}

// Snapshot returns the state last applied.
func (v *View) Snapshot() domain.ListSnapshot {
	return v.snapshot
}

// Playing reports whether table playback is running.
func (v *View) Playing() bool {
	return v.playing != nil
}

// JumpOpen reports whether the go-to-ayah prompt is showing.
func (v *View) JumpOpen() bool {
	return v.jump != nil
}
