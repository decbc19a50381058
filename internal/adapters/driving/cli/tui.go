package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ayah-review/internal/adapters/driving/tui"
	"github.com/custodia-labs/ayah-review/internal/logger"
)

// errNoTerminal is returned when the console is started without a TTY.
var errNoTerminal = errors.New("the review console needs an interactive terminal; try 'ayahrev list'")

// isTerminal reports whether stdin and stdout are a terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive review console",
	Long: `Launch the interactive review console.

The console lists the ayahs of one surah at a time with their review
status and offers Auto-Split, Edit and Approve on each row. Outcomes
pushed by the backend refresh the list while the console is open.

Controls:
  ↑/k, ↓/j       - Move between ayahs
  ←/h, →/l       - Move between row actions
  Enter          - Run the focused action
  Tab, Shift+Tab - Next / previous surah
  /              - Jump to an ayah
  p, a, e, s     - Play combined / Arabic / English, stop
  d, H           - Details, history
  ?              - Toggle help
  q              - Quit

Logs are discarded while the console runs unless --log-file is set.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	if reviewService == nil {
		return errNotConfigured("review service")
	}
	if !isTerminal() {
		return errNoTerminal
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	// The console owns the terminal.
	if logFile == nil {
		logger.SetOutput(io.Discard)
		defer logger.SetOutput(os.Stderr)
	}

	ports := tui.NewPorts(reviewService)
	ports.Live = liveUpdates
	ports.Playback = playbackService
	ports.History = historyService
	ports.Settings = settingsService

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
