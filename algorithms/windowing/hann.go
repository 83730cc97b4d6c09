// Package windowing provides the taper applied to analysis frames
// ahead of the FFT.
package windowing

import "math"

// Hann is a precomputed Hann window in its periodic (DFT-even) form,
// the variant meant for spectral analysis.
type Hann struct {
	coefficients []float64
}

// NewHann precomputes a periodic Hann window of the given length.
// A single-sample window is the identity.
func NewHann(size int) *Hann {
	if size < 1 {
		return &Hann{}
	}

	coefficients := make([]float64, size)
	if size == 1 {
		coefficients[0] = 1.0
		return &Hann{coefficients: coefficients}
	}

	for i := range coefficients {
		coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/float64(size)))
	}
	return &Hann{coefficients: coefficients}
}

// Apply returns a windowed copy of frame, or nil when the frame length
// does not match the window.
func (h *Hann) Apply(frame []float64) []float64 {
	if len(frame) != len(h.coefficients) {
		return nil
	}

	windowed := make([]float64, len(frame))
	for i, s := range frame {
		windowed[i] = s * h.coefficients[i]
	}
	return windowed
}

// Size returns the window length.
func (h *Hann) Size() int {
	return len(h.coefficients)
}
