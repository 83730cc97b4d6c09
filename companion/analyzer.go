package companion

import (
	"fmt"

	"github.com/solenne-ai/cadenza/algorithms/chroma"
	"github.com/solenne-ai/cadenza/algorithms/tonal"
	"github.com/solenne-ai/cadenza/companion/config"
)

// Quality score contributions. The rubric is fixed: 5 points read as
// excellent, 3 as good, anything less needs work.
const (
	scoreInKey      = 2
	scoreConsonant  = 2
	scoreStability  = 1
	scoreChord      = 1
	scoreNonDefault = 1

	qualityExcellentMin = 5
	qualityGoodMin      = 3
)

// CompanionAnalyzer composes the per-tick voice and instrument reads
// into a session assessment. It owns the running statistics behind
// the session key estimate and the observed vocal range.
type CompanionAnalyzer struct {
	keyEstimator *tonal.KeyEstimator
	chromaSum    []float64
	chromaTicks  int
	vocalMinHz   float64
	vocalMaxHz   float64
}

// NewCompanionAnalyzer creates an analyzer with fresh session state
func NewCompanionAnalyzer() *CompanionAnalyzer {
	return &CompanionAnalyzer{
		keyEstimator: tonal.NewKeyEstimator(),
	}
}

// Analyze folds one tick into the session statistics and scores the
// current musical state against the quality rubric
func (ca *CompanionAnalyzer) Analyze(fv FeatureVector, c Classification) CompanionAnalysis {
	ca.observe(fv, c.Voice)

	key := ca.keyEstimator.EstimateKey(ca.averageChroma())

	inKey := false
	if c.Voice.Detected && c.Voice.Pitch > 0 {
		inKey = tonal.IsDiatonic(key.Key, key.Mode, chroma.PitchClass(c.Voice.Pitch))
	}

	// A confirmed triad on a scale degree of the session key reads as
	// consonant; a bare root is too ambiguous to count.
	consonant := c.Chord.Detected && c.Chord.Quality != "" &&
		tonal.IsDiatonic(key.Key, key.Mode, c.Chord.Root)

	score := 0
	if inKey {
		score += scoreInKey
	}
	if consonant {
		score += scoreConsonant
	}
	if c.Voice.Stability > config.PitchStabilityThreshold {
		score += scoreStability
	}
	if c.Chord.Detected || len(c.Instrument.ChordProgression) > 0 {
		score += scoreChord
	}
	if c.Instrument.Key != config.DefaultKeyName {
		score += scoreNonDefault
	}

	quality := QualityNeedsWork
	switch {
	case score >= qualityExcellentMin:
		quality = QualityExcellent
	case score >= qualityGoodMin:
		quality = QualityGood
	}

	return CompanionAnalysis{
		MusicType:       musicTypeFor(c.Voice, c.Instrument),
		Quality:         quality,
		Score:           score,
		Suggestions:     ca.suggestions(key, c, inKey),
		Key:             key.KeyName,
		InKey:           inKey,
		VocalRangeMinHz: ca.vocalMinHz,
		VocalRangeMaxHz: ca.vocalMaxHz,
	}
}

// Reset clears the session statistics, used when a session restarts
func (ca *CompanionAnalyzer) Reset() {
	ca.chromaSum = nil
	ca.chromaTicks = 0
	ca.vocalMinHz = 0
	ca.vocalMaxHz = 0
}

// observe accumulates the running chroma average and vocal range
func (ca *CompanionAnalyzer) observe(fv FeatureVector, voice VoiceAnalysis) {
	if len(fv.Chroma) == 12 && hasEnergy(fv.Chroma) {
		if ca.chromaSum == nil {
			ca.chromaSum = make([]float64, 12)
		}
		for i, v := range fv.Chroma {
			ca.chromaSum[i] += v
		}
		ca.chromaTicks++
	}

	if voice.Detected && voice.Pitch > 0 {
		if ca.vocalMinHz == 0 || voice.Pitch < ca.vocalMinHz {
			ca.vocalMinHz = voice.Pitch
		}
		if voice.Pitch > ca.vocalMaxHz {
			ca.vocalMaxHz = voice.Pitch
		}
	}
}

// averageChroma returns the session-mean chroma vector, all zeros
// before any pitched content arrives
func (ca *CompanionAnalyzer) averageChroma() []float64 {
	average := make([]float64, 12)
	if ca.chromaTicks == 0 {
		return average
	}
	for i, v := range ca.chromaSum {
		average[i] = v / float64(ca.chromaTicks)
	}
	return average
}

// suggestions walks the fixed rule list, falling back to a generic
// encouragement so the list is never empty
func (ca *CompanionAnalyzer) suggestions(key tonal.KeyEstimationResult, c Classification, inKey bool) []string {
	var out []string

	if c.Voice.Detected && c.Voice.Pitch > 0 && !inKey {
		out = append(out, fmt.Sprintf("Try singing in %s", key.KeyName))
	}
	if c.Voice.Detected && c.Voice.Stability <= config.PitchStabilityThreshold {
		out = append(out, "Hold your notes a little longer for a steadier melody")
	}
	if c.Instrument.Detected && !c.Chord.Detected && len(c.Instrument.ChordProgression) == 0 {
		out = append(out, "Add some chords to back the melody")
	}
	if len(out) == 0 {
		out = append(out, "Sounding good, keep going")
	}
	return out
}

// musicTypeFor labels what kind of performance this tick looks like
func musicTypeFor(voice VoiceAnalysis, instrument InstrumentAnalysis) string {
	switch {
	case voice.Detected && instrument.Detected:
		return MusicTypeMixed
	case voice.Detected:
		return MusicTypeVocal
	default:
		return MusicTypeInstrumental
	}
}

// hasEnergy reports whether any bin carries signal
func hasEnergy(values []float64) bool {
	for _, v := range values {
		if v > 0 {
			return true
		}
	}
	return false
}
