package companion

import (
	"github.com/solenne-ai/cadenza/algorithms/chroma"
	"github.com/solenne-ai/cadenza/algorithms/spectral"
	"github.com/solenne-ai/cadenza/algorithms/temporal"
	"github.com/solenne-ai/cadenza/algorithms/windowing"
	"github.com/solenne-ai/cadenza/audio"
)

// FeatureExtractor turns one audio frame into a FeatureVector. It is a
// pure per-frame computation; the only state is cached calculators and
// the reusable Hann window sized to the last frame seen.
type FeatureExtractor struct {
	sampleRate int

	mfcc   *spectral.MFCC
	fold   *chroma.ChromaFold
	energy *temporal.Energy

	window *windowing.Hann
}

// rolloffEnergyFraction is the cumulative-energy cut for rolloff
const rolloffEnergyFraction = 0.85

// NewFeatureExtractor creates an extractor for the given sample rate
func NewFeatureExtractor(sampleRate int) *FeatureExtractor {
	return &FeatureExtractor{
		sampleRate: sampleRate,
		mfcc:       spectral.NewMFCC(sampleRate, 13),
		fold:       chroma.NewChromaFold(sampleRate),
		energy:     temporal.NewEnergy(sampleRate),
	}
}

// Extract computes the feature vector for a frame. ok is false for an
// empty frame, which callers treat as a skipped tick rather than
// silence.
func (fe *FeatureExtractor) Extract(frame audio.AudioFrame) (FeatureVector, bool) {
	samples := frame.Samples
	if len(samples) == 0 {
		return FeatureVector{}, false
	}

	// Time-domain features come from the raw samples
	fv := FeatureVector{
		RMS:              fe.energy.ComputeRMS(samples),
		ZeroCrossingRate: spectral.ZeroCrossingRate(samples),
	}

	// Spectral features come from the windowed magnitude spectrum
	if fe.window == nil || fe.window.Size() != len(samples) {
		fe.window = windowing.NewHann(len(samples))
	}
	windowed := fe.window.Apply(samples)
	if windowed == nil {
		return FeatureVector{}, false
	}

	magnitude := spectral.MagnitudeSpectrum(windowed)

	fv.SpectralCentroid = spectral.Centroid(magnitude, fe.sampleRate)
	fv.SpectralRolloff = spectral.Rolloff(magnitude, fe.sampleRate, rolloffEnergyFraction)
	fv.SpectralBandwidth = spectral.Bandwidth(magnitude, fe.sampleRate, fv.SpectralCentroid)
	fv.Chroma = fe.fold.Compute(magnitude)

	if result, err := fe.mfcc.Compute(magnitude); err == nil {
		fv.MFCC = result.MFCC
	} else {
		fv.MFCC = make([]float64, 13)
	}

	return fv, true
}
