package domain

import "math"

// SplitPoint is the operator's working selection in the split-point modal.
// Position stays unset until the audio engine (or a seek) reports one.
type SplitPoint struct {
	// ItemID is the ayah being re-split.
	ItemID string

	// Duration is the clip length in seconds; zero until probed.
	Duration float64

	position *float64
}

// NewSplitPoint starts a selection for an item.
func NewSplitPoint(itemID string) *SplitPoint {
	return &SplitPoint{ItemID: itemID}
}

// SetDuration records the probed clip length and re-clamps the position.
func (p *SplitPoint) SetDuration(seconds float64) {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	p.Duration = seconds
	if p.position != nil {
		p.Report(*p.position)
	}
}

// Report records a playback position in seconds, clamped to the clip.
func (p *SplitPoint) Report(seconds float64) {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	if p.Duration > 0 && seconds > p.Duration {
		seconds = p.Duration
	}
	p.position = &seconds
}

// Nudge seeks by delta seconds from the current position (or the start).
func (p *SplitPoint) Nudge(delta float64) {
	current := 0.0
	if p.position != nil {
		current = *p.position
	}
	p.Report(current + delta)
}

// Position returns the reported position and whether one exists.
func (p *SplitPoint) Position() (float64, bool) {
	if p.position == nil {
		return 0, false
	}
	return *p.position, true
}

// ConfirmMS returns the split time in integer milliseconds. ok is false
// when no position has been reported, in which case confirming is a no-op.
func (p *SplitPoint) ConfirmMS() (ms int64, ok bool) {
	if p.position == nil {
		return 0, false
	}
	return int64(math.Round(*p.position * 1000)), true
}

// Fraction returns the position as a fraction of the duration, for
// drawing a scrubber. It is zero when either is unknown.
func (p *SplitPoint) Fraction() float64 {
	if p.position == nil || p.Duration <= 0 {
		return 0
	}
	return *p.position / p.Duration
}
