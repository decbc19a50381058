package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPoint_ConfirmWithoutPositionIsNoop(t *testing.T) {
	p := NewSplitPoint("2_5")
	p.SetDuration(20)

	ms, ok := p.ConfirmMS()

	assert.False(t, ok)
	assert.Zero(t, ms)
}

func TestSplitPoint_ConfirmMilliseconds(t *testing.T) {
	p := NewSplitPoint("2_5")
	p.SetDuration(30)
	p.Report(12.345)

	ms, ok := p.ConfirmMS()

	assert.True(t, ok)
	assert.Equal(t, int64(12345), ms)
}

func TestSplitPoint_ConfirmRoundsFloatNoise(t *testing.T) {
	p := NewSplitPoint("2_5")
	p.Report(4.35)

	ms, _ := p.ConfirmMS()

	assert.Equal(t, int64(4350), ms)
}

func TestSplitPoint_ReportClamps(t *testing.T) {
	p := NewSplitPoint("2_5")
	p.SetDuration(10)

	p.Report(-1)
	pos, ok := p.Position()
	assert.True(t, ok)
	assert.Zero(t, pos)

	p.Report(11)
	pos, _ = p.Position()
	assert.Equal(t, 10.0, pos)

	p.Report(math.NaN())
	pos, _ = p.Position()
	assert.Zero(t, pos)
}

func TestSplitPoint_SetDurationReclamps(t *testing.T) {
	p := NewSplitPoint("2_5")
	p.Report(8)

	p.SetDuration(5)

	pos, _ := p.Position()
	assert.Equal(t, 5.0, pos)
}

func TestSplitPoint_Nudge(t *testing.T) {
	p := NewSplitPoint("2_5")
	p.SetDuration(3)

	p.Nudge(0.1)
	pos, ok := p.Position()
	assert.True(t, ok)
	assert.InDelta(t, 0.1, pos, 1e-9)

	p.Nudge(1)
	pos, _ = p.Position()
	assert.InDelta(t, 1.1, pos, 1e-9)

	p.Nudge(-5)
	pos, _ = p.Position()
	assert.Zero(t, pos)
}

func TestSplitPoint_Fraction(t *testing.T) {
	p := NewSplitPoint("2_5")
	assert.Zero(t, p.Fraction())

	p.SetDuration(10)
	p.Report(2.5)

	assert.InDelta(t, 0.25, p.Fraction(), 1e-9)
}
