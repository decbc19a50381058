package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ayah-review/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ayah-review/internal/core/domain"
)

func newLiveFixture(reconnect time.Duration) (*LiveService, *fakeBackend, *fakeEventSource, *VersionCache, *ReviewService) {
	backend := newFakeBackend(domain.Ayah{ID: "2_5"})
	versions := NewVersionCache()
	review := NewReviewService(backend, versions, nil)
	source := &fakeEventSource{}
	live := NewLiveService(source, review, versions, nil, reconnect)
	return live, backend, source, versions, review
}

func TestLiveService_Handle_SplitFinished(t *testing.T) {
	live, backend, _, versions, _ := newLiveFixture(0)
	notifier := newRecordingNotifier()

	live.Handle(context.Background(), domain.Event{Type: domain.EventSplitFinished, ItemID: "2_5"}, notifier)

	assert.Equal(t, 1, backend.calls())
	assert.Equal(t, uint64(1), versions.VersionOf("2_5"))
	require.Equal(t, []string{"2_5"}, notifier.completed)
	assert.Len(t, notifier.snapshots[0].Items, 1)
}

func TestLiveService_Handle_SplitFailed(t *testing.T) {
	live, backend, _, versions, _ := newLiveFixture(0)
	notifier := newRecordingNotifier()

	live.Handle(context.Background(), domain.Event{
		Type:   domain.EventSplitFailed,
		ItemID: "2_5",
		Error:  "x",
	}, notifier)

	assert.Equal(t, 0, backend.calls())
	assert.Equal(t, uint64(0), versions.VersionOf("2_5"))
	assert.Equal(t, "x", notifier.failed["2_5"])
	assert.Empty(t, notifier.completed)
}

func TestLiveService_Run_StreamDropAfterLocalSplit(t *testing.T) {
	live, _, source, versions, review := newLiveFixture(0)
	stream := make(chan domain.Event)
	source.streams = []chan domain.Event{stream}
	notifier := newRecordingNotifier()

	done := make(chan error, 1)
	go func() { done <- live.Run(context.Background(), notifier) }()

	require.Eventually(t, func() bool {
		log := notifier.connectionLog()
		return len(log) == 1 && log[0]
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, review.Split(context.Background(), "2_5"))
	assert.Equal(t, uint64(0), versions.VersionOf("2_5"))

	close(stream)
	require.ErrorIs(t, <-done, domain.ErrStreamClosed)

	assert.Equal(t, uint64(1), versions.VersionOf("2_5"))
	url, err := review.MediaURL(domain.Ayah{ID: "2_5", CombinedURL: strPtr("http://h/a.wav")}, domain.TrackCombined)
	require.NoError(t, err)
	assert.Equal(t, "http://h/a.wav?v=1", url)
}

func TestLiveService_Run_PushedOutcomeCountedOnce(t *testing.T) {
	live, _, source, versions, review := newLiveFixture(0)
	stream := make(chan domain.Event)
	source.streams = []chan domain.Event{stream}
	notifier := newRecordingNotifier()

	done := make(chan error, 1)
	go func() { done <- live.Run(context.Background(), notifier) }()

	require.Eventually(t, func() bool {
		return len(notifier.connectionLog()) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, review.Split(context.Background(), "2_5"))
	require.NoError(t, review.Split(context.Background(), "2_6"))
	stream <- domain.Event{Type: domain.EventSplitFinished, ItemID: "2_5"}
	stream <- domain.Event{Type: domain.EventSplitFailed, ItemID: "2_6", Error: "x"}
	close(stream)
	require.ErrorIs(t, <-done, domain.ErrStreamClosed)

	assert.Equal(t, uint64(1), versions.VersionOf("2_5"))
	assert.Equal(t, uint64(0), versions.VersionOf("2_6"))
}

func TestLiveService_Handle_UnknownTypeIgnored(t *testing.T) {
	live, backend, _, _, _ := newLiveFixture(0)
	notifier := newRecordingNotifier()

	live.Handle(context.Background(), domain.Event{Type: "progress", ItemID: "2_5"}, notifier)

	assert.Equal(t, 0, backend.calls())
	assert.Empty(t, notifier.completed)
	assert.Empty(t, notifier.failed)
}

func TestLiveService_Handle_NilNotifier(t *testing.T) {
	live, backend, _, _, _ := newLiveFixture(0)

	assert.NotPanics(t, func() {
		live.Handle(context.Background(), domain.Event{Type: domain.EventSplitFinished, ItemID: "2_5"}, nil)
	})
	assert.Equal(t, 1, backend.calls())
}

func TestLiveService_Handle_Journals(t *testing.T) {
	backend := newFakeBackend()
	journal := memory.NewJournalStore()
	review := NewReviewService(backend, nil, journal)
	live := NewLiveService(&fakeEventSource{}, review, nil, journal, 0)
	ctx := context.Background()

	live.Handle(ctx, domain.Event{Type: domain.EventSplitFinished, ItemID: "1_1"}, nil)
	live.Handle(ctx, domain.Event{Type: domain.EventSplitFailed, ItemID: "1_1", Error: "no speech"}, nil)

	entries, err := journal.ForItem(ctx, "1_1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.JournalSplitFailed, entries[0].Kind)
	assert.Equal(t, "no speech", entries[0].Detail)
	assert.Equal(t, domain.JournalSplitFinished, entries[1].Kind)
}

func TestLiveService_Run_DispatchesUntilStreamCloses(t *testing.T) {
	live, backend, source, versions, review := newLiveFixture(0)
	stream := make(chan domain.Event, 2)
	stream <- domain.Event{Type: domain.EventSplitFinished, ItemID: "2_5"}
	stream <- domain.Event{Type: domain.EventSplitFailed, ItemID: "2_6", Error: "boom"}
	close(stream)
	source.streams = []chan domain.Event{stream}
	notifier := newRecordingNotifier()

	err := live.Run(context.Background(), notifier)

	assert.ErrorIs(t, err, domain.ErrStreamClosed)
	assert.Equal(t, 1, backend.calls())
	assert.Equal(t, uint64(1), versions.VersionOf("2_5"))
	assert.Equal(t, "boom", notifier.failed["2_6"])
	assert.Equal(t, []bool{true, false}, notifier.connectionLog())
	assert.Equal(t, 1, source.subscribeCalls())

	// Detached again, so local splits bump once more.
	require.NoError(t, review.Split(context.Background(), "2_5"))
	assert.Equal(t, uint64(2), versions.VersionOf("2_5"))
}

func TestLiveService_Run_LocalSplitWhileAttachedCountsOnce(t *testing.T) {
	live, _, source, versions, review := newLiveFixture(0)
	stream := make(chan domain.Event)
	source.streams = []chan domain.Event{stream}
	notifier := newRecordingNotifier()

	done := make(chan error, 1)
	go func() { done <- live.Run(context.Background(), notifier) }()
	require.Eventually(t, func() bool { return len(notifier.connectionLog()) == 1 }, time.Second, time.Millisecond)

	require.NoError(t, review.Split(context.Background(), "2_5"))
	assert.Equal(t, uint64(0), versions.VersionOf("2_5"))

	stream <- domain.Event{Type: domain.EventSplitFinished, ItemID: "2_5"}
	close(stream)

	assert.ErrorIs(t, <-done, domain.ErrStreamClosed)
	assert.Equal(t, uint64(1), versions.VersionOf("2_5"))
}

func TestLiveService_Run_SubscribeErrorWithoutReconnect(t *testing.T) {
	live, _, source, _, _ := newLiveFixture(0)
	source.errs = []error{errors.New("connection refused")}

	err := live.Run(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLiveService_Run_ReconnectsAndResyncs(t *testing.T) {
	live, backend, source, _, _ := newLiveFixture(5 * time.Millisecond)
	first := make(chan domain.Event)
	close(first)
	source.errs = []error{nil, errors.New("temporarily down")}
	source.streams = []chan domain.Event{first, nil, make(chan domain.Event)}
	notifier := newRecordingNotifier()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- live.Run(ctx, notifier) }()

	require.Eventually(t, func() bool { return source.subscribeCalls() >= 3 }, 2*time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return notifier.resynced == 1
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, 1, backend.calls())

	cancel()
	// The third stream never closes on its own; Run stays attached until
	// the source closes it, so close it the way a cancelled request would.
	close(source.streams[2])
	assert.NoError(t, <-done)
	assert.Equal(t, []bool{true, false, true, false}, notifier.connectionLog())
}

func TestLiveService_Run_NoSource(t *testing.T) {
	live := NewLiveService(nil, nil, nil, nil, 0)

	err := live.Run(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}
