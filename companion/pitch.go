package companion

import (
	"github.com/solenne-ai/cadenza/algorithms/tonal"
	"github.com/solenne-ai/cadenza/companion/config"
)

// PitchEstimate is one tick's pitch tracking output
type PitchEstimate struct {
	Raw        float64 `json:"raw"`        // this tick's detector output, Hz
	Stable     float64 `json:"stable"`     // debounced pitch, Hz, 0 when silent
	Changed    bool    `json:"changed"`    // stable value moved this tick
	Stability  float64 `json:"stability"`  // 0-1 steadiness of the window
	Confidence float64 `json:"confidence"` // detector correlation
}

// PitchTracker couples the autocorrelation detector with the median
// stabilizer so the rest of the pipeline sees one debounced pitch
// stream instead of raw per-tick jitter.
type PitchTracker struct {
	detector   *tonal.PitchDetector
	stabilizer *tonal.PitchStabilizer
}

// NewPitchTracker creates a tracker from pitch configuration
func NewPitchTracker(sampleRate int, cfg config.PitchConfig) *PitchTracker {
	detector := tonal.NewPitchDetectorWithParams(sampleRate, tonal.PitchDetectionParams{
		MinFreq:           cfg.MinFreq,
		MaxFreq:           cfg.MaxFreq,
		AutocorrThreshold: cfg.AutocorrThreshold,
	})
	return &PitchTracker{
		detector:   detector,
		stabilizer: tonal.NewPitchStabilizerWithParams(cfg.StabilizerWindow, cfg.EmitThreshold),
	}
}

// Track runs detection on a frame and feeds the stabilizer
func (pt *PitchTracker) Track(samples []float64) PitchEstimate {
	detection := pt.detector.Detect(samples)
	stable, changed := pt.stabilizer.Process(detection.Pitch)

	return PitchEstimate{
		Raw:        detection.Pitch,
		Stable:     stable,
		Changed:    changed,
		Stability:  pt.stabilizer.Stability(),
		Confidence: detection.Confidence,
	}
}

// Reset clears the stabilizer, used when a session restarts
func (pt *PitchTracker) Reset() {
	pt.stabilizer.Reset()
}
