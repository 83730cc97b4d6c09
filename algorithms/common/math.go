package common

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Shared numeric helpers. Statistics lean on gonum rather than
// hand-rolled accumulators.

// Mean returns the arithmetic mean, 0 for empty input.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// Variance returns the sample variance, 0 when fewer than two values.
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// StandardDeviation returns the sample standard deviation.
func StandardDeviation(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// RMS returns the root mean square of data, 0 for empty input.
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(data, data) / float64(len(data)))
}

// Median returns the middle value of data, leaving data untouched.
// Even-length input yields the mean of the two middle values.
func Median(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := slices.Clone(data)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// ArgMax returns the index of the largest value, -1 for empty input.
func ArgMax(data []float64) int {
	if len(data) == 0 {
		return -1
	}
	return floats.MaxIdx(data)
}

// Clamp constrains value to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	return math.Min(math.Max(value, lo), hi)
}

// PrevPowerOfTwo returns the largest power of two at most n, 0 when
// n < 1.
func PrevPowerOfTwo(n int) int {
	if n < 1 {
		return 0
	}
	power := 1
	for power <= n/2 {
		power <<= 1
	}
	return power
}
