package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driving"
	"github.com/custodia-labs/ayah-review/internal/logger"
)

// Ensure LiveService implements the interface.
var _ driving.LiveUpdates = (*LiveService)(nil)

// LiveService consumes the backend's push stream and keeps the review
// collection in step with split outcomes.
type LiveService struct {
	source         driven.EventSource
	review         driving.ReviewService
	versions       *VersionCache
	journal        driven.JournalStore
	reconnectDelay time.Duration
}

// NewLiveService creates a live-update listener. A zero reconnectDelay
// disables reconnection; journal may be nil.
func NewLiveService(
	source driven.EventSource,
	review driving.ReviewService,
	versions *VersionCache,
	journal driven.JournalStore,
	reconnectDelay time.Duration,
) *LiveService {
	if versions == nil {
		versions = NewVersionCache()
	}
	return &LiveService{
		source:         source,
		review:         review,
		versions:       versions,
		journal:        journal,
		reconnectDelay: reconnectDelay,
	}
}

// Run subscribes to the stream and dispatches events until ctx is done.
// When the stream ends it re-subscribes at most once per reconnect delay
// and follows each reconnect with a catch-up refetch, since pushes sent
// while detached are lost.
func (s *LiveService) Run(ctx context.Context, notifier driving.Notifier) error {
	if s.source == nil {
		return fmt.Errorf("%w: no event source configured", domain.ErrBackendUnavailable)
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}

	var limiter *rate.Limiter
	if s.reconnectDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(s.reconnectDelay), 1)
	}

	attempts := 0
	for {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil //nolint:nilerr // context cancelled while waiting to reconnect
			}
		}
		attempts++

		events, err := s.source.Subscribe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if limiter == nil {
				return fmt.Errorf("subscribe to events: %w", err)
			}
			logger.Warn("Event stream subscribe failed: %v", err)
			continue
		}

		s.setAttached(true, notifier)
		if attempts > 1 {
			snap, err := s.review.Refetch(ctx)
			notifier.Resynced(snap, err)
		}

		for event := range events {
			s.Handle(ctx, event, notifier)
		}
		s.setAttached(false, notifier)

		if ctx.Err() != nil {
			return nil
		}
		if limiter == nil {
			return domain.ErrStreamClosed
		}
		logger.Info("Event stream closed, reconnecting")
	}
}

// Handle dispatches a single event.
func (s *LiveService) Handle(ctx context.Context, event domain.Event, notifier driving.Notifier) {
	if notifier == nil {
		notifier = nopNotifier{}
	}

	switch event.Type {
	case domain.EventSplitFinished:
		s.settle(event.ItemID)
		v := s.versions.Bump(event.ItemID)
		logger.Debug("split_finished for %s, version now %d", event.ItemID, v)
		record(ctx, s.journal, domain.JournalEntry{ItemID: event.ItemID, Kind: domain.JournalSplitFinished})
		snap, err := s.review.Refetch(ctx)
		notifier.SplitCompleted(event.ItemID, snap, err)

	case domain.EventSplitFailed:
		s.settle(event.ItemID)
		logger.Debug("split_failed for %s: %s", event.ItemID, event.Error)
		record(ctx, s.journal, domain.JournalEntry{
			ItemID: event.ItemID,
			Kind:   domain.JournalSplitFailed,
			Detail: event.Error,
		})
		notifier.SplitFailed(event.ItemID, event.Error)

	default:
		logger.Warn("Dropping event of unknown type %q", event.Type)
	}
}

func (s *LiveService) settle(id string) {
	if s.review != nil {
		s.review.SplitSettled(id)
	}
}

func (s *LiveService) setAttached(attached bool, notifier driving.Notifier) {
	if s.review != nil {
		s.review.SetLiveAttached(attached)
	}
	notifier.ConnectionChanged(attached)
}

type nopNotifier struct{}

func (nopNotifier) SplitCompleted(string, domain.ListSnapshot, error) {}
func (nopNotifier) SplitFailed(string, string)                        {}
func (nopNotifier) Resynced(domain.ListSnapshot, error)               {}
func (nopNotifier) ConnectionChanged(bool)                            {}
