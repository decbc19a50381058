package domain

// ListPhase is the state of the ayah collection fetch.
type ListPhase int

const (
	// PhaseIdle means no fetch has started.
	PhaseIdle ListPhase = iota
	// PhaseLoading means the first fetch is in flight and there is nothing to show.
	PhaseLoading
	// PhaseLoaded means a collection is available (possibly refreshing).
	PhaseLoaded
	// PhaseError means the collection is empty and the last fetch failed.
	PhaseError
)

// String returns the string representation of the phase.
func (p ListPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Listing is the state machine behind the ayah table.
//
// Transitions are driven by Begin, Succeed and Fail. Background refreshes
// never blank existing rows: a fetch started with rows present keeps the
// phase at loaded, and a failure with rows present leaves them visible
// and records the failure in RefreshErr instead of Err.
//
// Overlapping fetches resolve last-request-wins: each Begin hands out a
// sequence number and a completion is applied only if it is newer than
// the last one applied.
//
// Listing is not safe for concurrent use; callers serialise access.
type Listing struct {
	phase      ListPhase
	items      []Ayah
	err        string
	refreshErr string
	inFlight   int
	issued     uint64
	applied    uint64
}

// Begin records the start of a fetch and returns its sequence number.
func (l *Listing) Begin() uint64 {
	l.issued++
	l.inFlight++
	if len(l.items) == 0 {
		l.phase = PhaseLoading
	}
	return l.issued
}

// Succeed applies a fetched collection. It returns false when the
// response is older than one already applied and was discarded.
func (l *Listing) Succeed(seq uint64, items []Ayah) bool {
	l.finish()
	if seq <= l.applied {
		return false
	}
	l.applied = seq
	l.items = items
	if l.items == nil {
		l.items = []Ayah{}
	}
	l.phase = PhaseLoaded
	l.err = ""
	l.refreshErr = ""
	return true
}

// Fail applies a fetch failure. It returns false when the failure is
// older than a result already applied and was discarded.
func (l *Listing) Fail(seq uint64, err error) bool {
	l.finish()
	if seq <= l.applied {
		return false
	}
	l.applied = seq

	msg := "request failed"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}

	if len(l.items) == 0 {
		l.phase = PhaseError
		l.err = msg
		return true
	}
	l.phase = PhaseLoaded
	l.refreshErr = msg
	return true
}

func (l *Listing) finish() {
	if l.inFlight > 0 {
		l.inFlight--
	}
}

// Phase returns the current phase.
func (l *Listing) Phase() ListPhase {
	return l.phase
}

// Loading reports whether the loading indicator should show. It is only
// true while the collection is empty.
func (l *Listing) Loading() bool {
	return l.phase == PhaseLoading
}

// Refreshing reports whether a background fetch is in flight.
func (l *Listing) Refreshing() bool {
	return l.inFlight > 0 && len(l.items) > 0
}

// Items returns the current collection.
func (l *Listing) Items() []Ayah {
	return l.items
}

// Err returns the error shown in place of the table. It is only set
// when a fetch failed with no rows to show.
func (l *Listing) Err() string {
	return l.err
}

// RefreshErr returns the last background refresh failure, if any.
func (l *Listing) RefreshErr() string {
	return l.refreshErr
}

// Snapshot returns an immutable copy of the listing state.
func (l *Listing) Snapshot() ListSnapshot {
	items := make([]Ayah, len(l.items))
	copy(items, l.items)
	return ListSnapshot{
		Phase:      l.phase,
		Items:      items,
		Err:        l.err,
		RefreshErr: l.refreshErr,
		Refreshing: l.Refreshing(),
	}
}

// ListSnapshot is a point-in-time copy of a Listing.
type ListSnapshot struct {
	Phase      ListPhase
	Items      []Ayah
	Err        string
	RefreshErr string
	Refreshing bool
}

// Loading reports whether the loading indicator should show.
func (s ListSnapshot) Loading() bool {
	return s.Phase == PhaseLoading
}
