// Command ayahrev is the review console for ayah audio segmentation.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/ayah-review/internal/adapters/driven/audio/ffmpeg"
	"github.com/custodia-labs/ayah-review/internal/adapters/driven/backend/httpapi"
	"github.com/custodia-labs/ayah-review/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ayah-review/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ayah-review/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ayah-review/internal/adapters/driving/cli"
	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
	"github.com/custodia-labs/ayah-review/internal/core/services"
	"github.com/custodia-labs/ayah-review/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the driven adapters into the core services. On a
// configuration error it still returns the settings service so the
// config commands can repair the file.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	logger.Section("Bootstrap")

	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settings := services.NewSettingsService(configStore)
	logger.Debug("Config file: %s", settings.Path())

	cfg, err := settings.Load()
	if opts.BackendURL != "" {
		cfg.BackendURL = opts.BackendURL
		err = cfg.Validate()
	}
	if err != nil {
		return &cli.Services{Settings: settings}, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debug("Backend: %s (timeout %s)", cfg.BackendURL, cfg.BackendTimeout)

	clientCfg := httpapi.Config{BaseURL: cfg.BackendURL, Timeout: cfg.BackendTimeout}
	backend, err := httpapi.NewClient(clientCfg)
	if err != nil {
		return &cli.Services{Settings: settings}, err
	}

	journal, closeJournal := openJournal(cfg, opts.ConfigDir)

	versions := services.NewVersionCache()
	review := services.NewReviewService(backend, versions, journal)

	audioSetting := func(pick func(domain.ConsoleConfig) string) func() string {
		return func() string {
			current, err := settings.Load()
			if err != nil {
				return pick(domain.DefaultConsoleConfig())
			}
			return pick(current)
		}
	}
	playback := services.NewPlaybackService(
		review,
		ffmpeg.NewProbe(audioSetting(func(c domain.ConsoleConfig) string { return c.AudioProbe })),
		ffmpeg.NewPlayer(audioSetting(func(c domain.ConsoleConfig) string { return c.AudioPlayer })),
	)

	svc := &cli.Services{
		Review:   review,
		Playback: playback,
		History:  services.NewHistoryService(journal),
		Settings: settings,
		Close:    closeJournal,
	}

	if cfg.EventsEnabled {
		events, err := httpapi.NewEventStream(clientCfg)
		if err != nil {
			return svc, err
		}
		svc.Live = services.NewLiveService(events, review, versions, journal, cfg.ReconnectDelay)
	}

	return svc, nil
}

// openJournal opens the on-disk journal, falling back to memory when it
// is disabled or cannot be opened.
func openJournal(cfg domain.ConsoleConfig, configDir string) (driven.JournalStore, func() error) {
	if !cfg.JournalEnabled {
		logger.Debug("Journal: in memory")
		return memory.NewJournalStore(), nil
	}

	dataDir := ""
	if configDir != "" {
		dataDir = filepath.Join(configDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Warn("Journal unavailable, keeping it in memory: %v", err)
		return memory.NewJournalStore(), nil
	}
	logger.Debug("Journal: %s", store.Path())

	return store.JournalStore(), func() error {
		if err := store.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			return err
		}
		return nil
	}
}
