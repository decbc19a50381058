// Package detail provides the single-ayah detail view for the TUI.
package detail

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/commands"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driving"
)

// View shows every field of one ayah.
type View struct {
	styles *styles.Styles
	review driving.ReviewService

	item         *domain.Ayah
	gone         bool
	scrollOffset int
	width        int
	height       int
}

// NewView creates a new detail view.
func NewView(s *styles.Styles, review driving.ReviewService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		review: review,
		width:  80,
		height: 24,
	}
}

// SetItem sets the ayah to display.
func (v *View) SetItem(item domain.Ayah) {
	v.item = &item
	v.gone = false
	v.scrollOffset = 0
}

// Refresh replaces the shown ayah with its re-fetched copy.
func (v *View) Refresh(items []domain.Ayah) {
	if v.item == nil {
		return
	}
	if fresh, ok := domain.FindAyah(items, v.item.ID); ok {
		v.item = fresh
		v.gone = false
		return
	}
	v.gone = true
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ListLoaded:
		v.Refresh(msg.Snapshot.Items)
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "H":
		if v.item != nil {
			return v, commands.Emit(messages.OpenHistory{ItemID: v.item.ID})
		}
	case "esc":
		return v, commands.Emit(messages.ViewChanged{View: messages.ViewReview})
	case "q":
		return v, commands.Emit(messages.Quit{})
	}
	return v, nil
}

func (v *View) visibleLines() int {
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.buildContent())-v.visibleLines(), 0)
}

// buildContent builds the content lines for display.
func (v *View) buildContent() []string {
	if v.item == nil {
		return nil
	}
	item := v.item

	lines := []string{
		formatField("ID", item.ID),
		formatField("Status", string(item.Status())),
		formatField("Matches", optBool(item.Matches)),
		formatField("WER", optFloat(item.WER)),
		formatField("Approved", optBool(item.ForcedApproved)),
	}

	actions := item.Actions()
	labels := make([]string, 0, len(actions))
	for _, a := range actions {
		labels = append(labels, a.Label())
	}
	if len(labels) == 0 {
		labels = append(labels, "-")
	}
	lines = append(lines, formatField("Actions", strings.Join(labels, ", ")))

	lines = append(lines, "", "Media:")
	for _, track := range []domain.Track{domain.TrackCombined, domain.TrackArabic, domain.TrackEnglish} {
		lines = append(lines, fmt.Sprintf("  %s: %s", track, v.mediaURL(track)))
	}

	lines = append(lines, "", "Transcripts:",
		"  source: "+optString(item.SourceTranslation),
		"  heard: "+optString(item.EnglishTranscription),
	)
	return lines
}

// mediaURL shows the URL the player would load, version suffix included.
func (v *View) mediaURL(track domain.Track) string {
	if v.item.MediaURL(track) == "" {
		return "-"
	}
	if v.review == nil {
		return v.item.MediaURL(track)
	}
	u, err := v.review.MediaURL(*v.item, track)
	if err != nil {
		return v.item.MediaURL(track)
	}
	return u
}

func formatField(label, value string) string {
	return fmt.Sprintf("%-12s %s", label+":", value)
}

func optString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func optBool(b *bool) string {
	if b == nil {
		return "-"
	}
	if *b {
		return "yes"
	}
	return "no"
}

func optFloat(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *f)
}

// View renders the detail view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Ayah Details"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 0), 60)))
	b.WriteString("\n\n")

	if v.item == nil {
		b.WriteString(v.styles.Muted.Render("No ayah selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.gone {
		b.WriteString(v.styles.Warning.Render("This ayah is no longer in the collection."))
		b.WriteString("\n\n")
	}

	lines := v.buildContent()
	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(lines) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.renderLine(lines[i]))
		b.WriteString("\n")
	}

	if len(lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]",
			v.scrollOffset+1, min(v.scrollOffset+visible, len(lines)), len(lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderLine(line string) string {
	switch {
	case line == "":
		return ""
	case strings.HasSuffix(line, ":") && !strings.HasPrefix(line, " "):
		return v.styles.Subtitle.Render(line)
	case strings.HasPrefix(line, "Status:"):
		label, value, _ := strings.Cut(line, ":")
		return v.styles.Subtitle.Render(label+":") +
			v.styles.ForStatus(domain.Status(strings.TrimSpace(value))).Render(value)
	case strings.HasPrefix(line, "  "):
		label, value, _ := strings.Cut(line, ":")
		return v.styles.Muted.Render(label+":") + v.styles.Normal.Render(value)
	default:
		label, value, _ := strings.Cut(line, ":")
		return v.styles.Subtitle.Render(label+":") + v.styles.Normal.Render(value)
	}
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] scroll  [H] history  [esc] back  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Item returns the ayah being shown.
func (v *View) Item() *domain.Ayah {
	return v.item
}

// Gone reports whether the ayah vanished from the latest collection.
func (v *View) Gone() bool {
	return v.gone
}
