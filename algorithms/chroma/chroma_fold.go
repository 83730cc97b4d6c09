package chroma

import (
	"math"

	"github.com/solenne-ai/cadenza/algorithms/common"
)

// ChromaFold folds a magnitude spectrum into a 12-bin pitch class vector.
// Bin 0 is C; all octaves of a note land in the same bin. Frequencies are
// mapped through MIDI note numbers with adjustable tuning (default A4=440Hz).
type ChromaFold struct {
	sampleRate int
	tuningFreq float64 // A4 frequency (default 440 Hz)
	minFreq    float64 // Minimum frequency to consider
	maxFreq    float64 // Maximum frequency to consider
}

// NewChromaFold creates a fold with standard A4=440Hz tuning
func NewChromaFold(sampleRate int) *ChromaFold {
	return &ChromaFold{
		sampleRate: sampleRate,
		tuningFreq: 440.0,
		minFreq:    80.0,   // Approximate E2
		maxFreq:    8000.0, // High enough for harmonics
	}
}

// NewChromaFoldWithRange creates a fold with a custom frequency range
func NewChromaFoldWithRange(sampleRate int, tuningFreq, minFreq, maxFreq float64) *ChromaFold {
	return &ChromaFold{
		sampleRate: sampleRate,
		tuningFreq: tuningFreq,
		minFreq:    minFreq,
		maxFreq:    maxFreq,
	}
}

// Compute folds a single-sided magnitude spectrum into 12 pitch class
// bins and peak-normalizes so the strongest bin is 1.0. An empty or
// all-zero spectrum yields an all-zero vector.
func (cf *ChromaFold) Compute(magnitudeSpectrum []float64) []float64 {
	chromaVector := make([]float64, 12)
	if len(magnitudeSpectrum) < 2 {
		return chromaVector
	}

	fftSize := (len(magnitudeSpectrum) - 1) * 2
	freqResolution := float64(cf.sampleRate) / float64(fftSize)

	for f := 1; f < len(magnitudeSpectrum); f++ {
		frequency := float64(f) * freqResolution

		if frequency < cf.minFreq || frequency > cf.maxFreq {
			continue
		}

		// Map to chroma bin (0-11) via MIDI note number
		midiNote := cf.frequencyToMIDI(frequency)
		chromaBin := ((int(math.Round(midiNote)) % 12) + 12) % 12

		// Use magnitude squared for energy
		magnitude := magnitudeSpectrum[f]
		chromaVector[chromaBin] += magnitude * magnitude
	}

	common.NormalizePeak(chromaVector)
	return chromaVector
}

// frequencyToMIDI converts frequency to MIDI note number
// A4 (440 Hz) = MIDI note 69
func (cf *ChromaFold) frequencyToMIDI(frequency float64) float64 {
	if frequency <= 0 {
		return 0
	}
	return 69.0 + 12.0*math.Log2(frequency/cf.tuningFreq)
}
