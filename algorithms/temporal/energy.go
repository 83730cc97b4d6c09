package temporal

import (
	"math"

	"github.com/solenne-ai/cadenza/algorithms/common"
)

// Energy computes frame-level energy measures for streaming analysis
type Energy struct {
	sampleRate int
}

// NewEnergy creates a new energy calculator
func NewEnergy(sampleRate int) *Energy {
	return &Energy{sampleRate: sampleRate}
}

// ComputeRMS calculates root mean square energy of a frame
func (e *Energy) ComputeRMS(frame []float64) float64 {
	return common.RMS(frame)
}

// ComputePeak returns the largest absolute sample value in the frame
func (e *Energy) ComputePeak(frame []float64) float64 {
	peak := 0.0
	for _, sample := range frame {
		if abs := math.Abs(sample); abs > peak {
			peak = abs
		}
	}
	return peak
}

// ComputeLogEnergy converts an RMS level to dB with a floor to avoid
// log of zero
func (e *Energy) ComputeLogEnergy(rms, floor float64) float64 {
	if rms < floor {
		rms = floor
	}
	return 20.0 * math.Log10(rms)
}

// CrestFactor returns peak over RMS, a rough transient measure.
// Returns 0 for a silent frame.
func (e *Energy) CrestFactor(frame []float64) float64 {
	rms := e.ComputeRMS(frame)
	if rms < 1e-10 {
		return 0.0
	}
	return e.ComputePeak(frame) / rms
}
