package spectral

import "math"

// HzToMel maps a frequency in Hz onto the mel scale.
func HzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// MelToHz maps a mel value back to frequency in Hz.
func MelToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// MelFilterBank builds numFilters triangular filters spaced evenly on
// the mel scale between lowHz and highHz. Each filter is a weight
// vector over the fftSize/2+1 bins of a single-sided spectrum; weights
// peak at 1 on the center bin and fall to 0 at the neighboring
// centers. Returns nil when the parameters cannot describe a bank.
func MelFilterBank(numFilters, fftSize, sampleRate int, lowHz, highHz float64) [][]float64 {
	if numFilters <= 0 || fftSize <= 0 || sampleRate <= 0 || highHz <= lowHz {
		return nil
	}

	// Filter edges: numFilters+2 points equally spaced in mel, snapped
	// to spectrum bins.
	lowMel := HzToMel(lowHz)
	step := (HzToMel(highHz) - lowMel) / float64(numFilters+1)

	edges := make([]int, numFilters+2)
	for i := range edges {
		hz := MelToHz(lowMel + float64(i)*step)
		bin := int(math.Round(float64(fftSize+1) * hz / float64(sampleRate)))
		if bin > fftSize/2 {
			bin = fftSize / 2
		}
		edges[i] = bin
	}

	bank := make([][]float64, numFilters)
	for m := range bank {
		left, center, right := edges[m], edges[m+1], edges[m+2]

		weights := make([]float64, fftSize/2+1)
		for k := left; k <= right && k < len(weights); k++ {
			switch {
			case k == center:
				weights[k] = 1.0
			case k < center && center > left:
				weights[k] = float64(k-left) / float64(center-left)
			case k > center && right > center:
				weights[k] = float64(right-k) / float64(right-center)
			}
		}
		bank[m] = weights
	}
	return bank
}

// ApplyMelFilterBank reduces a power spectrum to one energy per filter.
func ApplyMelFilterBank(power []float64, bank [][]float64) []float64 {
	energies := make([]float64, len(bank))
	for i, weights := range bank {
		n := len(weights)
		if len(power) < n {
			n = len(power)
		}
		sum := 0.0
		for k := 0; k < n; k++ {
			sum += power[k] * weights[k]
		}
		energies[i] = sum
	}
	return energies
}
