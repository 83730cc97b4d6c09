package tonal

import (
	"github.com/solenne-ai/cadenza/algorithms/common"
)

// PitchDetectionParams contains parameters for pitch detection
type PitchDetectionParams struct {
	MinFreq           float64 `json:"min_freq"`           // Minimum detectable frequency (Hz)
	MaxFreq           float64 `json:"max_freq"`           // Maximum detectable frequency (Hz)
	AutocorrThreshold float64 `json:"autocorr_threshold"` // Minimum normalized correlation for a voiced result
}

// PitchDetectionResult contains pitch detection results
type PitchDetectionResult struct {
	Pitch      float64 `json:"pitch"`      // Best pitch estimate (Hz), 0 when unvoiced
	Confidence float64 `json:"confidence"` // Normalized correlation at the best lag (0-1)
	Lag        int     `json:"lag"`        // Winning lag in samples, 0 when unvoiced
}

// PitchDetector estimates fundamental frequency by normalized
// autocorrelation over a bounded lag range.
//
// References:
// - Rabiner, L.R. (1977). "On the use of autocorrelation analysis for pitch detection"
// - de Cheveigné, A., Kawahara, H. (2002). "YIN, a fundamental frequency estimator for speech and music"
type PitchDetector struct {
	sampleRate int
	params     PitchDetectionParams
}

// NewPitchDetector creates a detector tuned for voice and melodic
// instruments (80-800 Hz).
func NewPitchDetector(sampleRate int) *PitchDetector {
	return NewPitchDetectorWithParams(sampleRate, PitchDetectionParams{
		MinFreq:           80.0,
		MaxFreq:           800.0,
		AutocorrThreshold: 0.3,
	})
}

// NewPitchDetectorWithParams creates a detector with custom parameters
func NewPitchDetectorWithParams(sampleRate int, params PitchDetectionParams) *PitchDetector {
	if params.MinFreq <= 0 {
		params.MinFreq = 80.0
	}
	if params.MaxFreq <= params.MinFreq {
		params.MaxFreq = 800.0
	}
	if params.AutocorrThreshold <= 0 {
		params.AutocorrThreshold = 0.3
	}
	return &PitchDetector{
		sampleRate: sampleRate,
		params:     params,
	}
}

// Detect estimates the fundamental frequency of a frame. Returns a zero
// pitch when the frame is silent, too short for the lag range, or no
// lag clears the correlation threshold.
func (pd *PitchDetector) Detect(samples []float64) PitchDetectionResult {
	minLag := int(float64(pd.sampleRate) / pd.params.MaxFreq)
	maxLag := int(float64(pd.sampleRate) / pd.params.MinFreq)

	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(samples) {
		maxLag = len(samples) - 1
	}
	if maxLag <= minLag {
		return PitchDetectionResult{}
	}

	// Zero-lag energy normalizes all correlations
	energy := 0.0
	for _, s := range samples {
		energy += s * s
	}
	if energy < 1e-10 {
		return PitchDetectionResult{}
	}

	bestLag := 0
	bestCorr := 0.0

	for lag := minLag; lag <= maxLag; lag++ {
		corr := 0.0
		for i := 0; i < len(samples)-lag; i++ {
			corr += samples[i] * samples[i+lag]
		}
		corr /= energy

		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr < pd.params.AutocorrThreshold {
		return PitchDetectionResult{Confidence: common.Clamp(bestCorr, 0, 1)}
	}

	return PitchDetectionResult{
		Pitch:      float64(pd.sampleRate) / float64(bestLag),
		Confidence: common.Clamp(bestCorr, 0, 1),
		Lag:        bestLag,
	}
}

// GetParams returns the current detection parameters
func (pd *PitchDetector) GetParams() PitchDetectionParams {
	return pd.params
}
