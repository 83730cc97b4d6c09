package spectral

import "math"

// hzPerBin returns the width in Hz of one bin of a single-sided
// spectrum of the given length.
func hzPerBin(bins, sampleRate int) float64 {
	if bins < 2 {
		return 0
	}
	return float64(sampleRate) / float64((bins-1)*2)
}

// Centroid returns the magnitude-weighted mean frequency of a
// single-sided spectrum, 0 when the spectrum is empty or all zero.
func Centroid(magnitude []float64, sampleRate int) float64 {
	width := hzPerBin(len(magnitude), sampleRate)

	weighted, total := 0.0, 0.0
	for i, m := range magnitude {
		weighted += float64(i) * width * m
		total += m
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// Rolloff returns the lowest frequency below which the given fraction
// of the spectrum's energy sits. An all-zero spectrum rolls off at 0;
// a fraction of 1 rolls off at Nyquist.
func Rolloff(magnitude []float64, sampleRate int, fraction float64) float64 {
	if len(magnitude) == 0 {
		return 0
	}
	width := hzPerBin(len(magnitude), sampleRate)

	total := 0.0
	for _, m := range magnitude {
		total += m * m
	}
	if total == 0 {
		return 0
	}

	target := fraction * total
	sum := 0.0
	for i, m := range magnitude {
		sum += m * m
		if sum >= target {
			return float64(i) * width
		}
	}
	return float64(len(magnitude)-1) * width
}

// Bandwidth returns the spread of a spectrum around its centroid: the
// square root of the magnitude-weighted second moment of frequency.
func Bandwidth(magnitude []float64, sampleRate int, centroid float64) float64 {
	width := hzPerBin(len(magnitude), sampleRate)

	weighted, total := 0.0, 0.0
	for i, m := range magnitude {
		d := float64(i)*width - centroid
		weighted += d * d * m
		total += m
	}
	if total == 0 {
		return 0
	}
	return math.Sqrt(weighted / total)
}
