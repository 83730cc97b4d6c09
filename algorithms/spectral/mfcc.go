package spectral

import (
	"fmt"
	"math"
)

const (
	melFilterCount = 26
	lifterStrength = 22.0

	// logFloor keeps log() finite on empty mel bands.
	logFloor = 1e-10
)

// MFCCResult carries one frame of cepstral analysis.
type MFCCResult struct {
	MFCC        []float64 `json:"mfcc"`
	MelSpectrum []float64 `json:"mel_spectrum"`
	LogEnergy   float64   `json:"log_energy"`
}

// MFCC computes mel-frequency cepstral coefficients from magnitude
// spectra. The filter bank and DCT basis are rebuilt lazily whenever
// the incoming spectrum implies a new FFT size, so one instance can
// follow a source whose frame length moves.
type MFCC struct {
	sampleRate   int
	coefficients int

	fftSize    int
	filterBank [][]float64
	dctBasis   [][]float64
}

// NewMFCC creates a computer producing the given number of
// coefficients, 13 when non-positive.
func NewMFCC(sampleRate, coefficients int) *MFCC {
	if coefficients <= 0 {
		coefficients = 13
	}
	return &MFCC{
		sampleRate:   sampleRate,
		coefficients: coefficients,
	}
}

// Compute derives cepstral coefficients from a single-sided magnitude
// spectrum. C0 escapes liftering and doubles as the log energy.
func (m *MFCC) Compute(magnitude []float64) (*MFCCResult, error) {
	if len(magnitude) == 0 {
		return nil, fmt.Errorf("empty magnitude spectrum")
	}

	fftSize := (len(magnitude) - 1) * 2
	if m.filterBank == nil || m.fftSize != fftSize {
		if err := m.prepare(fftSize); err != nil {
			return nil, err
		}
	}

	power := make([]float64, len(magnitude))
	for i, mag := range magnitude {
		power[i] = mag * mag
	}

	melSpectrum := ApplyMelFilterBank(power, m.filterBank)

	logMel := make([]float64, len(melSpectrum))
	for i, e := range melSpectrum {
		logMel[i] = math.Log(math.Max(e, logFloor))
	}

	coeffs := make([]float64, m.coefficients)
	for k, basis := range m.dctBasis {
		sum := 0.0
		for n, b := range basis {
			sum += logMel[n] * b
		}
		coeffs[k] = sum
	}

	logEnergy := coeffs[0]
	for i := 1; i < len(coeffs); i++ {
		coeffs[i] *= 1.0 + (lifterStrength/2.0)*math.Sin(math.Pi*float64(i)/lifterStrength)
	}

	return &MFCCResult{
		MFCC:        coeffs,
		MelSpectrum: melSpectrum,
		LogEnergy:   logEnergy,
	}, nil
}

// prepare rebuilds the filter bank and orthonormal DCT-II basis for a
// new FFT size.
func (m *MFCC) prepare(fftSize int) error {
	bank := MelFilterBank(melFilterCount, fftSize, m.sampleRate, 0, float64(m.sampleRate)/2.0)
	if bank == nil {
		return fmt.Errorf("mel filter bank for fft size %d", fftSize)
	}

	basis := make([][]float64, m.coefficients)
	scale0 := math.Sqrt(1.0 / melFilterCount)
	scale := math.Sqrt(2.0 / melFilterCount)
	for k := range basis {
		row := make([]float64, melFilterCount)
		for n := range row {
			row[n] = math.Cos(math.Pi * float64(k) * (float64(n) + 0.5) / melFilterCount)
			if k == 0 {
				row[n] *= scale0
			} else {
				row[n] *= scale
			}
		}
		basis[k] = row
	}

	m.fftSize = fftSize
	m.filterBank = bank
	m.dctBasis = basis
	return nil
}

// FilterBank exposes the current mel filter bank, nil before the first
// Compute.
func (m *MFCC) FilterBank() [][]float64 {
	return m.filterBank
}
