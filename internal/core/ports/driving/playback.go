package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
)

// PlaybackService probes and plays an ayah's audio tracks.
type PlaybackService interface {
	// Duration returns the length of a track in seconds.
	Duration(ctx context.Context, item domain.Ayah, track domain.Track) (float64, error)

	// Play starts a track from offset.
	Play(ctx context.Context, item domain.Ayah, track domain.Track, offset time.Duration) (driven.Playback, error)
}
