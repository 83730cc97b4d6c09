package companion

import (
	"github.com/solenne-ai/cadenza/algorithms/temporal"
	"github.com/solenne-ai/cadenza/audio"
	"github.com/solenne-ai/cadenza/companion/config"
)

// Review summarizes a whole recorded clip after an offline pass through
// the same analysis chain the live engine runs per tick.
type Review struct {
	DurationSeconds  float64                    `json:"duration_seconds"`
	Windows          int                        `json:"windows"`
	ActiveWindows    int                        `json:"active_windows"`
	DominantContent  config.ContentType         `json:"dominant_content"`
	ContentWindows   map[config.ContentType]int `json:"content_windows"`
	PeakVolume       float64                    `json:"peak_volume"`    // largest absolute sample
	AverageVolume    float64                    `json:"average_volume"` // mean per-window RMS
	AveragePitchHz   float64                    `json:"average_pitch_hz"` // pitched windows only
	ChordProgression []string                   `json:"chord_progression"`
	Assessment       CompanionAnalysis          `json:"assessment"` // session state at clip end
}

// Reviewer replays recorded audio through the live analysis chain,
// window by window at the engine tick size, and aggregates the results.
type Reviewer struct {
	cfg *config.Config
}

// NewReviewer creates a reviewer; a nil config uses the defaults
func NewReviewer(cfg *config.Config) *Reviewer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Reviewer{cfg: cfg}
}

// Review analyzes one clip. The tail shorter than one tick window is
// never analyzed, same as the live loop where no tick fires after it.
// A clip without a single full window reports zero windows and no
// assessment.
func (r *Reviewer) Review(samples []float64, sampleRate int) Review {
	review := Review{
		DominantContent: config.ContentSilence,
		ContentWindows:  map[config.ContentType]int{},
	}
	if sampleRate <= 0 {
		return review
	}
	review.DurationSeconds = float64(len(samples)) / float64(sampleRate)

	window := sampleRate * r.cfg.Engine.TickIntervalMS / 1000
	if window < 1 {
		window = 1
	}

	source := audio.NewFrameSource(sampleRate)
	extractor := NewFeatureExtractor(sampleRate)
	tracker := NewPitchTracker(sampleRate, r.cfg.Pitch)
	classifier := NewContentClassifier()
	analyzer := NewCompanionAnalyzer()
	energy := temporal.NewEnergy(sampleRate)

	var volumeSum, pitchSum float64
	var pitched int
	var last Classification
	var assessment CompanionAnalysis

	for start := 0; start+window <= len(samples); start += window {
		raw := samples[start : start+window]
		source.Push(raw)
		frame, ok := source.Frame()
		if !ok {
			continue
		}
		fv, ok := extractor.Extract(frame)
		if !ok {
			continue
		}
		pitch := tracker.Track(frame.Samples)
		classification := classifier.Classify(fv, pitch)
		assessment = analyzer.Analyze(fv, classification)

		review.Windows++
		review.ContentWindows[classification.Type]++
		volumeSum += fv.RMS
		if peak := energy.ComputePeak(raw); peak > review.PeakVolume {
			review.PeakVolume = peak
		}
		if fv.RMS > r.cfg.Activity.VolumeThreshold {
			review.ActiveWindows++
		}
		if classification.Voice.Pitch > 0 {
			pitchSum += classification.Voice.Pitch
			pitched++
		}
		last = classification
	}

	if review.Windows == 0 {
		return review
	}

	review.AverageVolume = volumeSum / float64(review.Windows)
	if pitched > 0 {
		review.AveragePitchHz = pitchSum / float64(pitched)
	}
	review.ChordProgression = last.Instrument.ChordProgression
	review.Assessment = assessment
	review.DominantContent = dominantContent(review.ContentWindows)
	return review
}

// dominantContent picks the most frequent label, breaking ties in a
// fixed order so the result is deterministic
func dominantContent(counts map[config.ContentType]int) config.ContentType {
	order := []config.ContentType{
		config.ContentSilence, config.ContentVoice, config.ContentSinging,
		config.ContentMusic, config.ContentUnknown,
	}

	best := config.ContentSilence
	bestCount := -1
	for _, label := range order {
		if counts[label] > bestCount {
			best = label
			bestCount = counts[label]
		}
	}
	return best
}
