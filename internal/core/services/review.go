package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driving"
	"github.com/custodia-labs/ayah-review/internal/logger"
)

// Ensure ReviewService implements the interface.
var _ driving.ReviewService = (*ReviewService)(nil)

// ReviewService owns the displayed collection and runs operator actions.
//
// Fetches run outside the lock so overlapping refetches are allowed; the
// listing applies only the most recently issued one.
type ReviewService struct {
	backend  driven.ReviewBackend
	versions *VersionCache
	journal  driven.JournalStore

	mu      sync.Mutex
	listing domain.Listing

	// unsettled holds splits accepted while attached whose outcome has
	// not been pushed yet.
	unsettled    map[string]struct{}
	liveAttached atomic.Bool
}

// NewReviewService creates a review service. journal may be nil.
func NewReviewService(
	backend driven.ReviewBackend,
	versions *VersionCache,
	journal driven.JournalStore,
) *ReviewService {
	if versions == nil {
		versions = NewVersionCache()
	}
	return &ReviewService{
		backend:   backend,
		versions:  versions,
		journal:   journal,
		unsettled: make(map[string]struct{}),
	}
}

// Refetch downloads the full collection.
func (s *ReviewService) Refetch(ctx context.Context) (domain.ListSnapshot, error) {
	if s.backend == nil {
		return s.Snapshot(), domain.ErrBackendUnavailable
	}

	s.mu.Lock()
	seq := s.listing.Begin()
	s.mu.Unlock()

	logger.Debug("Refetch #%d started", seq)
	items, err := s.backend.ListAyahs(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if !s.listing.Fail(seq, err) {
			logger.Debug("Refetch #%d failed after a newer one was applied", seq)
		}
		logger.Warn("Fetching ayahs failed: %v", err)
		return s.listing.Snapshot(), err
	}
	if s.listing.Succeed(seq, items) {
		logger.Debug("Refetch #%d applied: %d ayahs", seq, len(items))
	} else {
		logger.Debug("Refetch #%d discarded as stale", seq)
	}
	return s.listing.Snapshot(), nil
}

// Snapshot returns the current collection state.
func (s *ReviewService) Snapshot() domain.ListSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listing.Snapshot()
}

// Split requests an automatic re-split of id.
func (s *ReviewService) Split(ctx context.Context, id string) error {
	if err := s.checkAction(id); err != nil {
		return err
	}
	if err := s.backend.Split(ctx, id); err != nil {
		s.actionFailed(ctx, id, err)
		return err
	}
	record(ctx, s.journal, domain.JournalEntry{ItemID: id, Kind: domain.JournalSplitRequested})
	s.splitAccepted(id)
	return nil
}

// SplitAt requests a re-split of id at splitTimeMS milliseconds.
func (s *ReviewService) SplitAt(ctx context.Context, id string, splitTimeMS int64) error {
	if err := s.checkAction(id); err != nil {
		return err
	}
	if splitTimeMS < 0 {
		return fmt.Errorf("%w: split time must not be negative", domain.ErrInvalidInput)
	}
	if err := s.backend.SplitAt(ctx, id, splitTimeMS); err != nil {
		s.actionFailed(ctx, id, err)
		return err
	}
	record(ctx, s.journal, domain.JournalEntry{
		ItemID:      id,
		Kind:        domain.JournalSplitAtRequested,
		SplitTimeMS: splitTimeMS,
	})
	s.splitAccepted(id)
	return nil
}

// Approve force-accepts id. Approval does not change the audio, so the
// version is left alone.
func (s *ReviewService) Approve(ctx context.Context, id string) error {
	if err := s.checkAction(id); err != nil {
		return err
	}
	if err := s.backend.Approve(ctx, id); err != nil {
		s.actionFailed(ctx, id, err)
		return err
	}
	record(ctx, s.journal, domain.JournalEntry{ItemID: id, Kind: domain.JournalApproveRequested})
	return nil
}

// MediaURL returns the cache-busted URL for one of item's tracks.
func (s *ReviewService) MediaURL(item domain.Ayah, track domain.Track) (string, error) {
	raw := item.MediaURL(track)
	if raw == "" {
		return "", fmt.Errorf("%w: %s has no %s track", domain.ErrNoMedia, item.ID, track)
	}
	return s.versions.CacheBust(raw, item.ID)
}

// SetLiveAttached records whether the push stream is attached. Detaching
// bumps every split still waiting for its push, since that push is lost.
func (s *ReviewService) SetLiveAttached(attached bool) {
	s.mu.Lock()
	s.liveAttached.Store(attached)
	var lost []string
	if !attached {
		for id := range s.unsettled {
			lost = append(lost, id)
		}
		clear(s.unsettled)
	}
	s.mu.Unlock()

	for _, id := range lost {
		v := s.versions.Bump(id)
		logger.Debug("Version of %s bumped to %d, stream detached before its outcome", id, v)
	}
}

// SplitSettled marks the outcome of a split on id as pushed.
func (s *ReviewService) SplitSettled(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.unsettled, id)
}

func (s *ReviewService) checkAction(id string) error {
	if s.backend == nil {
		return domain.ErrBackendUnavailable
	}
	if id == "" {
		return fmt.Errorf("%w: ayah id is required", domain.ErrInvalidInput)
	}
	return nil
}

// splitAccepted bumps the version for a split the backend has completed.
// While the stream is attached the split_finished push does this instead,
// so each completion is counted once.
func (s *ReviewService) splitAccepted(id string) {
	s.mu.Lock()
	if s.liveAttached.Load() {
		s.unsettled[id] = struct{}{}
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	v := s.versions.Bump(id)
	logger.Debug("Version of %s bumped to %d after local split", id, v)
}

func (s *ReviewService) actionFailed(ctx context.Context, id string, err error) {
	logger.Warn("Action on %s failed: %v", id, err)
	record(ctx, s.journal, domain.JournalEntry{
		ItemID: id,
		Kind:   domain.JournalActionFailed,
		Detail: err.Error(),
	})
}
