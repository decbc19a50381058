package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/views/detail"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/views/review"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui/views/splitpoint"
	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusBar *status.Bar

	reviewView  *review.View
	detailView  *detail.View
	historyView *history.View

	// splitView is non-nil only while the split-point modal is open.
	splitView *splitpoint.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// notices are blocking messages the operator must dismiss, oldest
	// first.
	notices []string

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		statusBar:   status.NewBar(s, km),
		reviewView:  review.NewView(s, km, ports.Review, ports.Playback),
		detailView:  detail.NewView(s, ports.Review),
		historyView: history.NewView(s, ports.History),
		currentView: messages.ViewReview,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.reviewView.WithContext(ctx)
	a.historyView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It loads the collection as soon as the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("ayahrev - Ayah Review"),
		a.reviewView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.stopAudio()
			return a, tea.Quit
		}
		if len(a.notices) > 0 {
			switch msg.String() {
			case "enter", "esc", " ":
				a.notices = a.notices[1:]
			}
			return a, nil
		}
		return a, a.routeKey(msg)

	case messages.ViewChanged:
		if a.currentView == messages.ViewSplitPoint && msg.View != messages.ViewSplitPoint {
			a.closeSplitPoint()
		}
		a.currentView = msg.View
		a.syncHints()
		return a, nil

	case messages.OpenSplitPoint:
		a.reviewView.StopAudio()
		a.closeSplitPoint()
		a.splitView = splitpoint.NewView(a.styles, a.keymap, a.ports.Review, a.ports.Playback, msg.Item).
			WithContext(a.ctx)
		a.splitView.SetDimensions(a.width, a.contentHeight())
		a.currentView = messages.ViewSplitPoint
		a.syncHints()
		return a, a.splitView.Init()

	case messages.OpenDetail:
		a.detailView.SetItem(msg.Item)
		a.currentView = messages.ViewDetail
		a.syncHints()
		return a, a.detailView.Init()

	case messages.OpenHistory:
		back := a.currentView
		if back == messages.ViewHistory {
			back = messages.ViewReview
		}
		a.currentView = messages.ViewHistory
		a.syncHints()
		return a, a.historyView.Open(msg.ItemID, back)

	case messages.ListLoaded:
		a.applySnapshot(msg.Snapshot)
		return a, nil

	case messages.SplitCompleted:
		a.applySnapshot(msg.Snapshot)
		return a, nil

	case messages.Resynced:
		a.applySnapshot(msg.Snapshot)
		return a, nil

	case messages.ActionFinished:
		if msg.Err != nil {
			a.err = msg.Err
			a.pushNotice(fmt.Sprintf("%s failed for %s: %v", msg.Action.Label(), msg.ItemID, msg.Err))
		} else {
			a.statusBar.SetMessage(fmt.Sprintf("%s requested for %s", msg.Action.Label(), msg.ItemID))
		}
		if msg.Snapshot != nil {
			a.applySnapshot(*msg.Snapshot)
		}
		return a, nil

	case messages.SplitFailed:
		reason := msg.Reason
		if reason == "" {
			reason = "unknown error"
		}
		a.pushNotice(fmt.Sprintf("Split failed for %s: %s", msg.ItemID, reason))
		return a, nil

	case messages.ConnectionChanged:
		if msg.Connected {
			a.statusBar.SetConnection(status.ConnectionLive)
		} else {
			a.statusBar.SetConnection(status.ConnectionDetached)
		}
		return a, nil

	case messages.LiveStopped:
		a.statusBar.SetConnection(status.ConnectionDetached)
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			logger.Warn("live updates stopped: %v", msg.Err)
		}
		return a, nil

	case messages.DurationProbed, messages.PositionTick:
		if a.splitView != nil {
			a.splitView, cmd = a.splitView.Update(msg)
		}
		return a, cmd

	case messages.PlaybackStarted:
		return a, a.routePlaybackStarted(msg)

	case messages.PlaybackEnded:
		switch msg.Origin {
		case messages.ViewSplitPoint:
			if a.splitView != nil {
				a.splitView, cmd = a.splitView.Update(msg)
			}
		default:
			a.reviewView, cmd = a.reviewView.Update(msg)
		}
		return a, cmd

	case messages.HistoryLoaded:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.ConfigReloaded:
		a.statusBar.SetMessage("configuration reloaded")
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		if msg.Err != nil {
			a.pushNotice(msg.Err.Error())
		}
		return a, nil

	case messages.Quit:
		a.stopAudio()
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) routeKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewReview:
		a.reviewView, cmd = a.reviewView.Update(msg)
		a.syncCounts()
	case messages.ViewSplitPoint:
		if a.splitView == nil {
			a.currentView = messages.ViewReview
			return nil
		}
		a.splitView, cmd = a.splitView.Update(msg)
	case messages.ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewHelp:
		k := msg.String()
		switch {
		case keymap.Matches(k, a.keymap.Back), keymap.Matches(k, a.keymap.Help):
			a.currentView = messages.ViewReview
			a.syncHints()
		case keymap.Matches(k, a.keymap.Quit):
			a.stopAudio()
			return tea.Quit
		}
	}
	return cmd
}

// routePlaybackStarted hands a started player to the view that asked
// for it. Players nobody is waiting for are stopped immediately.
func (a *App) routePlaybackStarted(msg messages.PlaybackStarted) tea.Cmd {
	var cmd tea.Cmd

	switch msg.Origin {
	case messages.ViewSplitPoint:
		if a.splitView == nil {
			stopOrphan(msg)
			return nil
		}
		a.splitView, cmd = a.splitView.Update(msg)
	default:
		if a.splitView != nil {
			stopOrphan(msg)
			return nil
		}
		a.reviewView, cmd = a.reviewView.Update(msg)
	}
	return cmd
}

func stopOrphan(msg messages.PlaybackStarted) {
	if msg.Playback != nil {
		_ = msg.Playback.Stop()
	}
}

func (a *App) applySnapshot(snap domain.ListSnapshot) {
	a.reviewView.SetSnapshot(snap)
	a.detailView.Refresh(snap.Items)
	a.statusBar.SetRefresh(snap.Refreshing, snap.RefreshErr)
	a.syncCounts()
}

func (a *App) syncCounts() {
	a.statusBar.SetCounts(len(a.reviewView.Rows()), len(a.reviewView.Snapshot().Items))
}

func (a *App) syncHints() {
	switch a.currentView {
	case messages.ViewSplitPoint:
		a.statusBar.SetHints(a.keymap.SplitPointHelp())
	default:
		a.statusBar.SetHints(a.keymap.ShortHelp())
	}
}

func (a *App) closeSplitPoint() {
	if a.splitView != nil {
		a.splitView.Stop()
		a.splitView = nil
	}
}

func (a *App) stopAudio() {
	a.reviewView.StopAudio()
	a.closeSplitPoint()
}

func (a *App) contentHeight() int {
	return max(a.height-1, 1)
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewSplitPoint:
		if a.splitView != nil {
			body = a.splitView.View()
		} else {
			body = a.reviewView.View()
		}
	case messages.ViewDetail:
		body = a.detailView.View()
	case messages.ViewHistory:
		body = a.historyView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.reviewView.View()
	}

	if notice := a.Notice(); notice != "" {
		hint := "[enter] dismiss"
		if more := len(a.notices) - 1; more > 0 {
			hint = fmt.Sprintf("[enter] dismiss (%d more)", more)
		}
		box := a.styles.Notice.Width(max(a.width-4, 20)).
			Render(notice + "\n\n" + a.styles.Help.Render(hint))
		body = box + "\n" + body
	}

	lines := strings.Split(body, "\n")
	h := a.contentHeight()
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n") + "\n" + a.statusBar.View()
}

// viewHelp renders the key reference.
func (a *App) viewHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Keys"))
	b.WriteString("\n\n")

	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(a.styles.Action.Render(fmt.Sprintf("  %-12s", h.Key)))
			b.WriteString(a.styles.Normal.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Subtitle.Render("Split point"))
	b.WriteString("\n")
	for _, binding := range a.keymap.SplitPointHelp() {
		h := binding.Help()
		b.WriteString(a.styles.Action.Render(fmt.Sprintf("  %-12s", h.Key)))
		b.WriteString(a.styles.Normal.Render(h.Desc))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Run starts the TUI application. The push listener and config
// watcher run alongside the program and stop when it exits.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()
	a.WithContext(ctx)

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))

	if a.ports.Live != nil {
		go func() {
			err := a.ports.Live.Run(ctx, NewNotifier(p.Send))
			p.Send(messages.LiveStopped{Err: err})
		}()
	}
	if a.ports.Settings != nil {
		go func() {
			err := a.ports.Settings.Watch(ctx, func() { p.Send(messages.ConfigReloaded{}) })
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Debug("config watch stopped: %v", err)
			}
		}()
	}

	_, err := p.Run()
	a.stopAudio()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// Notice returns the blocking notice being shown, if any.
func (a *App) Notice() string {
	if len(a.notices) == 0 {
		return ""
	}
	return a.notices[0]
}

// PendingNotices returns the number of notices not yet dismissed.
func (a *App) PendingNotices() int {
	return len(a.notices)
}

func (a *App) pushNotice(text string) {
	a.notices = append(a.notices, text)
}

// SetDimensions sets the terminal dimensions and resizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	h := a.contentHeight()
	a.reviewView.SetDimensions(width, h)
	a.detailView.SetDimensions(width, h)
	a.historyView.SetDimensions(width, h)
	if a.splitView != nil {
		a.splitView.SetDimensions(width, h)
	}
	a.statusBar.SetWidth(width)
}

// SplitPoint returns the open split-point modal, or nil.
func (a *App) SplitPoint() *splitpoint.View {
	return a.splitView
}

// Review returns the review view.
func (a *App) Review() *review.View {
	return a.reviewView
}
