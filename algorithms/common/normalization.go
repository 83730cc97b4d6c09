package common

import (
	"math"
)

// NormalizePeak scales values in place so the largest absolute value
// becomes 1.0. Near-zero input is left untouched instead of being
// divided toward NaN.
func NormalizePeak(values []float64) {
	peak := 0.0
	for _, v := range values {
		if abs := math.Abs(v); abs > peak {
			peak = abs
		}
	}

	if peak < 1e-10 {
		return
	}
	for i := range values {
		values[i] /= peak
	}
}
