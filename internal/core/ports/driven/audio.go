package driven

import (
	"context"
	"time"
)

// AudioProbe reads media metadata.
type AudioProbe interface {
	// Duration returns the clip length in seconds.
	Duration(ctx context.Context, url string) (float64, error)
}

// AudioPlayer plays media.
type AudioPlayer interface {
	// Play starts playback of url from offset. It returns once playback
	// has started.
	Play(ctx context.Context, url string, offset time.Duration) (Playback, error)
}

// Playback is a running playback.
type Playback interface {
	// Stop ends playback. It is safe to call more than once.
	Stop() error

	// Done is closed when playback ends for any reason.
	Done() <-chan struct{}
}
