package services

import (
	"context"
	"time"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driving"
	"github.com/custodia-labs/ayah-review/internal/logger"
)

// Ensure PlaybackService implements the interface.
var _ driving.PlaybackService = (*PlaybackService)(nil)

// PlaybackService plays and probes an ayah's tracks. Every URL handed to
// the audio tools goes through the review service's cache-busting.
type PlaybackService struct {
	review driving.ReviewService
	probe  driven.AudioProbe
	player driven.AudioPlayer
}

// NewPlaybackService creates a playback service. probe and player may be
// nil when no audio tooling is available.
func NewPlaybackService(
	review driving.ReviewService,
	probe driven.AudioProbe,
	player driven.AudioPlayer,
) *PlaybackService {
	return &PlaybackService{review: review, probe: probe, player: player}
}

// Duration returns the length of a track in seconds.
func (s *PlaybackService) Duration(ctx context.Context, item domain.Ayah, track domain.Track) (float64, error) {
	if s.probe == nil {
		return 0, domain.ErrNotImplemented
	}
	url, err := s.review.MediaURL(item, track)
	if err != nil {
		return 0, err
	}
	logger.Debug("Probing %s", url)
	return s.probe.Duration(ctx, url)
}

// Play starts a track from offset.
func (s *PlaybackService) Play(
	ctx context.Context,
	item domain.Ayah,
	track domain.Track,
	offset time.Duration,
) (driven.Playback, error) {
	if s.player == nil {
		return nil, domain.ErrNotImplemented
	}
	url, err := s.review.MediaURL(item, track)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	logger.Debug("Playing %s from %s", url, offset)
	return s.player.Play(ctx, url, offset)
}
