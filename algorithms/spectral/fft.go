package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// MagnitudeSpectrum computes the single-sided magnitude spectrum of a
// real frame. The result has len(frame)/2+1 bins running DC through
// Nyquist; an empty frame yields nil.
func MagnitudeSpectrum(frame []float64) []float64 {
	if len(frame) == 0 {
		return nil
	}

	spectrum := fft.FFTReal(frame)

	bins := make([]float64, len(frame)/2+1)
	for i := range bins {
		bins[i] = cmplx.Abs(spectrum[i])
	}
	return bins
}
