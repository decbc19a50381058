// Package splitpoint provides the modal used to pick a manual split time.
package splitpoint

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/commands"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driving"
)

// Seek steps, in seconds.
const (
	shortSeek = 0.1
	longSeek  = 1.0
)

const scrubberWidth = 40

// View is the split-point modal for one item.
type View struct {
	ctx      context.Context
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	review   driving.ReviewService
	playback driving.PlaybackService
	now      func() time.Time

	item  domain.Ayah
	point *domain.SplitPoint

	probing  bool
	probeErr string

	playing     driven.Playback
	starting    bool
	startedAt   time.Time
	startOffset float64
	playErr     string
	hint        string

	width  int
	height int
}

// NewView creates the modal for item.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	review driving.ReviewService,
	playback driving.PlaybackService,
	item domain.Ayah,
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
		now:      time.Now,
		item:     item,
		point:    domain.NewSplitPoint(item.ID),
		width:    80,
		height:   24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init probes the clip duration.
func (v *View) Init() tea.Cmd {
	v.probing = true
	return commands.Probe(v.ctx, v.playback, v.item)
}

// Update handles messages for the modal.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DurationProbed:
		if msg.ItemID != v.item.ID {
			return v, nil
		}
		v.probing = false
		if msg.Err != nil {
			v.probeErr = msg.Err.Error()
			return v, nil
		}
		v.probeErr = ""
		v.point.SetDuration(msg.Seconds)
		return v, nil

	case messages.PlaybackStarted:
		return v.handlePlaybackStarted(msg)

	case messages.PlaybackEnded:
		if msg.Playback != nil && msg.Playback == v.playing {
			v.sample()
			v.playing = nil
		}
		return v, nil

	case messages.PositionTick:
		if msg.ItemID != v.item.ID || v.playing == nil {
			return v, nil
		}
		v.sample()
		return v, commands.Tick(v.item.ID)
	}

	return v, nil
}

func (v *View) handlePlaybackStarted(msg messages.PlaybackStarted) (*View, tea.Cmd) {
	if msg.ItemID != v.item.ID || !v.starting {
		// Stopped or closed before the player came up.
		if msg.Playback != nil {
			_ = msg.Playback.Stop()
		}
		return v, nil
	}
	v.starting = false
	if msg.Err != nil {
		v.playErr = msg.Err.Error()
		return v, nil
	}

	v.playErr = ""
	v.playing = msg.Playback
	v.startedAt = v.now()
	v.startOffset = msg.Offset
	v.point.Report(msg.Offset)
	return v, tea.Batch(
		commands.WaitPlayback(messages.ViewSplitPoint, msg.Playback),
		commands.Tick(v.item.ID),
	)
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		v.Stop()
		return v, commands.Emit(messages.ViewChanged{View: messages.ViewReview})
	case keymap.Matches(k, v.keymap.Confirm):
		return v, v.confirm()
	case keymap.Matches(k, v.keymap.TogglePlay):
		return v, v.toggle()
	case keymap.Matches(k, v.keymap.SeekBack):
		return v, v.seek(-shortSeek)
	case keymap.Matches(k, v.keymap.SeekForward):
		return v, v.seek(shortSeek)
	case keymap.Matches(k, v.keymap.SeekBackLong):
		return v, v.seek(-longSeek)
	case keymap.Matches(k, v.keymap.SeekForwardLong):
		return v, v.seek(longSeek)
	}
	return v, nil
}

func (v *View) confirm() tea.Cmd {
	ms, ok := v.point.ConfirmMS()
	if !ok {
		v.hint = "Play or seek to pick a split point first."
		return nil
	}
	v.Stop()
	return tea.Batch(
		commands.Emit(messages.ViewChanged{View: messages.ViewReview}),
		commands.Submit(v.ctx, v.review, v.item.ID, domain.ActionEdit, ms),
	)
}

func (v *View) toggle() tea.Cmd {
	if v.playing != nil || v.starting {
		v.Stop()
		return nil
	}
	return v.start()
}

func (v *View) start() tea.Cmd {
	offset, _ := v.point.Position()
	if v.point.Duration > 0 && offset >= v.point.Duration {
		offset = 0
	}
	v.starting = true
	v.hint = ""
	return commands.Play(v.ctx, v.playback, messages.ViewSplitPoint, v.item, domain.TrackCombined, offset)
}

// seek nudges the split point; a running playback restarts there.
func (v *View) seek(delta float64) tea.Cmd {
	wasPlaying := v.playing != nil
	v.Stop()
	v.point.Nudge(delta)
	v.hint = ""
	if wasPlaying {
		return v.start()
	}
	return nil
}

// sample reports the position implied by the wall clock since start.
func (v *View) sample() {
	if v.playing == nil {
		return
	}
	v.point.Report(v.startOffset + v.now().Sub(v.startedAt).Seconds())
}

// Stop ends any playback, keeping the last sampled position.
func (v *View) Stop() {
	v.starting = false
	if v.playing != nil {
		v.sample()
		_ = v.playing.Stop()
		v.playing = nil
	}
}

// View renders the modal.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Split point · " + v.item.ID))
	b.WriteString("\n\n")

	if v.item.SourceTranslation != nil {
		b.WriteString(v.styles.Muted.Render(*v.item.SourceTranslation))
		b.WriteString("\n\n")
	}

	switch {
	case v.probing:
		b.WriteString(v.styles.Muted.Render("Probing duration..."))
	case v.probeErr != "":
		b.WriteString(v.styles.Error.Render("Duration unknown: " + v.probeErr))
	default:
		b.WriteString(v.styles.Normal.Render(fmt.Sprintf("Duration  %.3f s", v.point.Duration)))
	}
	b.WriteString("\n")

	b.WriteString(v.renderScrubber())
	b.WriteString("\n")

	if pos, ok := v.point.Position(); ok {
		ms, _ := v.point.ConfirmMS()
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Position  %.3f s (%d ms)", pos, ms)))
	} else {
		b.WriteString(v.styles.Muted.Render("Position  not set"))
	}
	b.WriteString("\n")

	switch {
	case v.playing != nil:
		b.WriteString(v.styles.Success.Render("▶ playing"))
	case v.starting:
		b.WriteString(v.styles.Muted.Render("starting..."))
	default:
		b.WriteString(v.styles.Muted.Render("■ stopped"))
	}
	b.WriteString("\n")

	if v.playErr != "" {
		b.WriteString(v.styles.Error.Render("Playback: " + v.playErr))
		b.WriteString("\n")
	}
	if v.hint != "" {
		b.WriteString(v.styles.Warning.Render(v.hint))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	box := v.styles.Modal.Render(b.String())
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, box)
}

func (v *View) renderScrubber() string {
	filled := int(math.Round(v.point.Fraction() * scrubberWidth))
	filled = min(max(filled, 0), scrubberWidth)

	bar := strings.Repeat("━", filled) + "●" + strings.Repeat("─", scrubberWidth-filled)
	return v.styles.Title.Render(bar)
}

func (v *View) renderHelp() string {
	bindings := v.keymap.SplitPointHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	return v.styles.Help.Render(strings.Join(hints, "  "))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Item returns the item being split.
func (v *View) Item() domain.Ayah {
	return v.item
}

// Point returns the working selection.
func (v *View) Point() *domain.SplitPoint {
	return v.point
}

// Playing reports whether the clip is playing.
func (v *View) Playing() bool {
	return v.playing != nil
}
