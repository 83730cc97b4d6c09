package tonal

import (
	"math"

	"github.com/solenne-ai/cadenza/algorithms/common"
)

// PitchStabilizer smooths a stream of raw pitch estimates into a slowly
// moving stable value. It keeps a short window of recent non-zero
// estimates and emits the window median only when it moves far enough
// from the last emitted value, suppressing jitter between ticks.
type PitchStabilizer struct {
	window        []float64
	windowSize    int
	emitThreshold float64 // relative change required to emit
	lastStable    float64
}

// NewPitchStabilizer creates a stabilizer with a 5-estimate window and
// a 10% relative change gate.
func NewPitchStabilizer() *PitchStabilizer {
	return NewPitchStabilizerWithParams(5, 0.10)
}

// NewPitchStabilizerWithParams creates a stabilizer with custom window
// size and emit threshold.
func NewPitchStabilizerWithParams(windowSize int, emitThreshold float64) *PitchStabilizer {
	if windowSize < 1 {
		windowSize = 5
	}
	if emitThreshold <= 0 {
		emitThreshold = 0.10
	}
	return &PitchStabilizer{
		window:        make([]float64, 0, windowSize),
		windowSize:    windowSize,
		emitThreshold: emitThreshold,
	}
}

// Process feeds one raw estimate and returns the current stable pitch
// and whether it changed on this call. A zero estimate means silence:
// the window and the stable value reset, so the next voiced stretch
// emits immediately instead of being gated against a stale value.
func (ps *PitchStabilizer) Process(pitch float64) (float64, bool) {
	if pitch <= 0 {
		ps.window = ps.window[:0]
		ps.lastStable = 0
		return 0, false
	}

	ps.window = append(ps.window, pitch)
	if len(ps.window) > ps.windowSize {
		ps.window = ps.window[len(ps.window)-ps.windowSize:]
	}

	median := common.Median(ps.window)

	if ps.lastStable == 0 {
		ps.lastStable = median
		return median, true
	}

	relativeChange := math.Abs(median-ps.lastStable) / ps.lastStable
	if relativeChange > ps.emitThreshold {
		ps.lastStable = median
		return median, true
	}

	return ps.lastStable, false
}

// Current returns the last emitted stable pitch, 0 when silent
func (ps *PitchStabilizer) Current() float64 {
	return ps.lastStable
}

// Stability measures how steady the recent estimates are: 1 minus the
// coefficient of variation of the window, clamped to [0,1]. An empty
// window (silence) reports 0.
func (ps *PitchStabilizer) Stability() float64 {
	if len(ps.window) == 0 {
		return 0
	}

	mean := common.Mean(ps.window)
	if mean <= 0 {
		return 0
	}

	cv := common.StandardDeviation(ps.window) / mean
	return common.Clamp(1.0-cv, 0, 1)
}

// Reset clears the window and the stable value
func (ps *PitchStabilizer) Reset() {
	ps.window = ps.window[:0]
	ps.lastStable = 0
}
