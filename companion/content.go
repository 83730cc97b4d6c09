package companion

import (
	"math"

	"github.com/solenne-ai/cadenza/algorithms/chroma"
	"github.com/solenne-ai/cadenza/algorithms/common"
	"github.com/solenne-ai/cadenza/algorithms/tonal"
	"github.com/solenne-ai/cadenza/companion/config"
)

// Classification is the combined per-tick content decision
type Classification struct {
	Type       config.ContentType `json:"type"`
	Voice      VoiceAnalysis      `json:"voice"`
	Instrument InstrumentAnalysis `json:"instrument"`
	Chord      tonal.ChordResult  `json:"chord"` // raw read behind Instrument.Chords
}

// ContentClassifier maps a feature vector and the stabilized pitch to
// content labels. All decisions are threshold tables over the features
// of the current tick; the only state carried across ticks is the
// recent chord progression.
type ContentClassifier struct {
	chordDetector *tonal.ChordDetector
	progression   []string
}

// progressionLength bounds the chord history carried across ticks
const progressionLength = 4

// NewContentClassifier creates a classifier with default thresholds
func NewContentClassifier() *ContentClassifier {
	return &ContentClassifier{
		chordDetector: tonal.NewChordDetectorWithThreshold(config.ChordChromaThreshold),
	}
}

// Classify labels one tick of audio
func (cc *ContentClassifier) Classify(fv FeatureVector, pitch PitchEstimate) Classification {
	voice := cc.classifyVoice(fv, pitch)
	instrument, chord := cc.classifyInstrument(fv)

	return Classification{
		Type:       resolveContentType(fv, voice, instrument),
		Voice:      voice,
		Instrument: instrument,
		Chord:      chord,
	}
}

// Reset drops the chord progression, used when a session restarts
func (cc *ContentClassifier) Reset() {
	cc.progression = nil
}

// classifyVoice scores the voice indicators. Each satisfied indicator
// adds its fixed weight; two of three clear the detection threshold.
func (cc *ContentClassifier) classifyVoice(fv FeatureVector, pitch PitchEstimate) VoiceAnalysis {
	confidence := 0.0
	if fv.SpectralCentroid >= config.VoiceCentroidMinHz && fv.SpectralCentroid <= config.VoiceCentroidMaxHz {
		confidence += config.VoiceCentroidWeight
	}
	if fv.ZeroCrossingRate >= config.VoiceZCRMin && fv.ZeroCrossingRate <= config.VoiceZCRMax {
		confidence += config.VoiceZCRWeight
	}
	if fv.RMS > config.VolumeActivationThreshold {
		confidence += config.VoiceEnergyWeight
	}

	detected := confidence >= config.DetectionThreshold
	singing := detected &&
		fv.ZeroCrossingRate <= config.SingingZCRMax &&
		pitch.Stability > config.PitchStabilityThreshold

	return VoiceAnalysis{
		Detected:   detected,
		Singing:    singing,
		Confidence: confidence,
		Pitch:      pitch.Stable,
		Stability:  pitch.Stability,
	}
}

// classifyInstrument scores the music indicators and fills in the
// coarse label tables
func (cc *ContentClassifier) classifyInstrument(fv FeatureVector) (InstrumentAnalysis, tonal.ChordResult) {
	brightness := 0.0
	if fv.SpectralRolloff > 0 {
		brightness = fv.SpectralCentroid / fv.SpectralRolloff
	}

	confidence := 0.0
	if brightness >= config.MusicBrightnessRatioMin && brightness <= config.MusicBrightnessRatioMax {
		confidence += config.MusicBrightnessWeight
	}
	if fv.RMS > config.VolumeActivationThreshold {
		confidence += config.MusicEnergyWeight
	}
	if fv.ZeroCrossingRate > config.MusicZCRComplexityMin {
		confidence += config.MusicComplexityWeight
	}
	if fv.SpectralBandwidth > config.MusicBandwidthMinHz {
		confidence += config.MusicBandwidthWeight
	}
	detected := confidence >= config.DetectionThreshold

	tempo := common.Clamp(config.TempoMinBPM+fv.ZeroCrossingRate*config.TempoZCRGain,
		config.TempoMinBPM, config.TempoMaxBPM)

	mfccVariance := 0.0
	if len(fv.MFCC) > 1 {
		// Coefficient 0 carries overall energy, not spectral shape
		mfccVariance = common.Variance(fv.MFCC[1:])
	}

	chord := cc.chordDetector.Detect(fv.Chroma)
	var chords []string
	if chord.Detected {
		chords = []string{chord.Label}
		cc.pushChord(chord.Label)
	}

	key := config.DefaultKeyName
	if idx := common.ArgMax(fv.Chroma); idx >= 0 {
		key = chroma.NoteName(idx)
	}

	return InstrumentAnalysis{
		Detected:         detected,
		Confidence:       confidence,
		TempoBPM:         int(math.Round(tempo)),
		Key:              key,
		TimeSignature:    config.DefaultTimeSignature,
		Genre:            genreFor(tempo, brightness),
		Mood:             moodFor(tempo, brightness),
		Structure:        structureFor(chord.Detected, mfccVariance, detected),
		Instruments:      instrumentsFor(fv.SpectralCentroid, mfccVariance),
		Chords:           chords,
		ChordProgression: append([]string(nil), cc.progression...),
	}, chord
}

// pushChord appends a chord to the progression, skipping immediate
// repeats and evicting the oldest entry past the window
func (cc *ContentClassifier) pushChord(label string) {
	if n := len(cc.progression); n > 0 && cc.progression[n-1] == label {
		return
	}
	cc.progression = append(cc.progression, label)
	if len(cc.progression) > progressionLength {
		cc.progression = cc.progression[len(cc.progression)-progressionLength:]
	}
}

// resolveContentType applies the music-over-voice priority rule: a
// confident instrumental read wins even when a vocal line is present
// on top of it, and voice handling is the low-music fallback.
func resolveContentType(fv FeatureVector, voice VoiceAnalysis, instrument InstrumentAnalysis) config.ContentType {
	switch {
	case instrument.Detected && instrument.Confidence >= config.MusicPriorityThreshold:
		return config.ContentMusic
	case voice.Detected && voice.Singing:
		return config.ContentSinging
	case voice.Detected:
		return config.ContentVoice
	case instrument.Detected:
		return config.ContentMusic
	case fv.RMS < config.VolumeActivationThreshold:
		return config.ContentSilence
	default:
		return config.ContentUnknown
	}
}

// genreFor picks from the tempo-band by brightness table
func genreFor(tempo, brightness float64) string {
	bright := brightness >= config.BrightnessDarkSplit
	switch {
	case tempo < config.TempoSlowMaxBPM:
		if bright {
			return "folk"
		}
		return "ambient"
	case tempo < config.TempoFastMinBPM:
		if bright {
			return "pop"
		}
		return "blues"
	default:
		if bright {
			return "electronic"
		}
		return "rock"
	}
}

// moodFor picks from the tempo-band by brightness table
func moodFor(tempo, brightness float64) string {
	bright := brightness >= config.BrightnessDarkSplit
	switch {
	case tempo < config.TempoSlowMaxBPM:
		if bright {
			return "mellow"
		}
		return "calm"
	case tempo < config.TempoFastMinBPM:
		if bright {
			return "upbeat"
		}
		return "warm"
	default:
		if bright {
			return "energetic"
		}
		return "intense"
	}
}

// instrumentsFor guesses instrument labels from spectral placement.
// Silence matches no band and falls back to unknown.
func instrumentsFor(centroid, mfccVariance float64) []string {
	var labels []string
	switch {
	case centroid >= config.InstrumentBrightCentroidHz:
		labels = append(labels, "strings")
	case centroid > config.InstrumentWarmCentroidHz:
		labels = append(labels, "piano")
	case centroid > 0:
		labels = append(labels, "bass")
	}
	if mfccVariance > config.PercussionMFCCVariance {
		labels = append(labels, "percussion")
	}
	if len(labels) == 0 {
		labels = []string{"unknown"}
	}
	return labels
}

// structureFor names the dominant character of the current tick
func structureFor(hasChord bool, mfccVariance float64, musicDetected bool) string {
	switch {
	case hasChord:
		return "harmonic"
	case mfccVariance > config.PercussionMFCCVariance:
		return "rhythmic"
	case musicDetected:
		return "melodic"
	default:
		return "unknown"
	}
}
