// Package cli provides the ayahrev command line.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ayah-review/internal/core/ports/driving"
	"github.com/custodia-labs/ayah-review/internal/logger"
)

// version is set at build time.
var version = "dev"

// Options carries the persistent flags into the bootstrap function.
type Options struct {
	// ConfigDir overrides the configuration directory.
	ConfigDir string

	// BackendURL overrides backend.url when non-empty.
	BackendURL string
}

// Services holds the driving ports the commands run against.
type Services struct {
	Review   driving.ReviewService
	Live     driving.LiveUpdates
	Playback driving.PlaybackService
	History  driving.HistoryService
	Settings driving.SettingsService

	// Close releases resources such as the journal database. Optional.
	Close func() error
}

// BootstrapFunc builds the services once the persistent flags are parsed.
// It may return partially built services alongside an error.
type BootstrapFunc func(opts Options) (*Services, error)

// lenientAnnotation marks commands that still run when bootstrap fails,
// so a broken config file can be repaired.
const lenientAnnotation = "bootstrap-lenient"

var (
	reviewService   driving.ReviewService
	liveUpdates     driving.LiveUpdates
	playbackService driving.PlaybackService
	historyService  driving.HistoryService
	settingsService driving.SettingsService
	closeServices   func() error

	bootstrap BootstrapFunc
	logFile   *os.File
)

var (
	verboseFlag   bool
	backendFlag   string
	configDirFlag string
	logFileFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "ayahrev",
	Short: "Review console for ayah audio segmentation",
	Long: `ayahrev reviews the output of an ayah audio segmentation backend.

Each ayah clip holds an Arabic recitation followed by its English
translation. The backend splits the clip in two and transcribes the
English half; ayahrev lets an operator listen, re-split automatically,
pick a manual split point, or approve a mismatch.

Run without a subcommand to open the interactive console.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runTUI,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "print debug logs")
	flags.StringVar(&backendFlag, "backend", "", "backend base URL (overrides backend.url)")
	flags.StringVar(&configDirFlag, "config-dir", "", "configuration directory (default ~/.ayahrev)")
	flags.StringVar(&logFileFlag, "log-file", "", "append logs to this file")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that builds services before each command.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs the services directly.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	reviewService = s.Review
	liveUpdates = s.Live
	playbackService = s.Playback
	historyService = s.History
	settingsService = s.Settings
	closeServices = s.Close
}

// Execute runs the root command and releases resources afterwards.
func Execute(ctx context.Context) error {
	defer release()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)
	if logFileFlag != "" && logFile == nil {
		f, err := logger.OpenFile(logFileFlag)
		if err != nil {
			return err
		}
		logFile = f
	}

	if bootstrap == nil {
		return nil
	}

	services, err := bootstrap(Options{ConfigDir: configDirFlag, BackendURL: backendFlag})
	if services != nil {
		SetServices(services)
	}
	if err != nil {
		if !isLenient(cmd) {
			return err
		}
		logger.Error("%v", err)
	}
	return nil
}

func isLenient(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[lenientAnnotation]; ok {
			return true
		}
	}
	return false
}

func release() {
	if closeServices != nil {
		if err := closeServices(); err != nil {
			logger.Warn("closing services: %v", err)
		}
		closeServices = nil
	}
	if logFile != nil {
		logger.SetOutput(os.Stderr)
		if err := logFile.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Warn("closing log file: %v", err)
		}
		logFile = nil
	}
}

// errNotConfigured reports a service the bootstrap did not provide.
func errNotConfigured(name string) error {
	return errors.New(name + " not configured")
}
