package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
)

// fakeBackend is a scripted ReviewBackend.
type fakeBackend struct {
	mu sync.Mutex

	items    []domain.Ayah
	listErr  error
	splitErr error

	// listGates, when set, make the n-th ListAyahs call block until
	// listGates[n] delivers its result.
	listGates []chan []domain.Ayah

	listCalls    int
	splits       []string
	splitAts     map[string]int64
	approvals    []string
	approvalsErr error
}

func newFakeBackend(items ...domain.Ayah) *fakeBackend {
	return &fakeBackend{items: items, splitAts: make(map[string]int64)}
}

func (b *fakeBackend) ListAyahs(ctx context.Context) ([]domain.Ayah, error) {
	b.mu.Lock()
	var gate chan []domain.Ayah
	if b.listCalls < len(b.listGates) {
		gate = b.listGates[b.listCalls]
	}
	b.listCalls++
	items, err := b.items, b.listErr
	b.mu.Unlock()

	if gate != nil {
		select {
		case gated := <-gate:
			return gated, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return items, err
}

func (b *fakeBackend) Split(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.splitErr != nil {
		return b.splitErr
	}
	b.splits = append(b.splits, id)
	return nil
}

func (b *fakeBackend) SplitAt(_ context.Context, id string, ms int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.splitErr != nil {
		return b.splitErr
	}
	b.splitAts[id] = ms
	return nil
}

func (b *fakeBackend) Approve(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.approvalsErr != nil {
		return b.approvalsErr
	}
	b.approvals = append(b.approvals, id)
	return nil
}

func (b *fakeBackend) setItems(items ...domain.Ayah) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = items
	b.listErr = nil
}

func (b *fakeBackend) setListErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listErr = err
}

func (b *fakeBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listCalls
}

// fakeEventSource hands out one scripted stream per Subscribe call.
type fakeEventSource struct {
	mu      sync.Mutex
	streams []chan domain.Event
	errs    []error
	calls   int
}

func (f *fakeEventSource) Subscribe(_ context.Context) (<-chan domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.streams) {
		return f.streams[i], nil
	}
	// Further subscriptions never deliver anything.
	return make(chan domain.Event), nil
}

func (f *fakeEventSource) subscribeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recordingNotifier captures notifier callbacks.
type recordingNotifier struct {
	mu          sync.Mutex
	completed   []string
	snapshots   []domain.ListSnapshot
	failed      map[string]string
	resynced    int
	connections []bool
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{failed: make(map[string]string)}
}

func (n *recordingNotifier) SplitCompleted(itemID string, snapshot domain.ListSnapshot, _ error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, itemID)
	n.snapshots = append(n.snapshots, snapshot)
}

func (n *recordingNotifier) SplitFailed(itemID, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed[itemID] = reason
}

func (n *recordingNotifier) Resynced(_ domain.ListSnapshot, _ error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resynced++
}

func (n *recordingNotifier) ConnectionChanged(connected bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.connections = append(n.connections, connected)
}

func (n *recordingNotifier) connectionLog() []bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]bool(nil), n.connections...)
}

// fakeProbe returns a fixed duration and remembers the URL it probed.
type fakeProbe struct {
	duration float64
	err      error
	url      string
}

func (p *fakeProbe) Duration(_ context.Context, url string) (float64, error) {
	p.url = url
	return p.duration, p.err
}

// fakePlayer records play requests.
type fakePlayer struct {
	url    string
	offset time.Duration
	err    error
}

func (p *fakePlayer) Play(_ context.Context, url string, offset time.Duration) (driven.Playback, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.url = url
	p.offset = offset
	return &fakePlayback{done: make(chan struct{})}, nil
}

type fakePlayback struct {
	once sync.Once
	done chan struct{}
}

func (p *fakePlayback) Stop() error {
	p.once.Do(func() { close(p.done) })
	return nil
}

func (p *fakePlayback) Done() <-chan struct{} { return p.done }

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}
