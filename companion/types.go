package companion

import (
	"time"

	"github.com/solenne-ai/cadenza/companion/config"
)

// FeatureVector is one tick's worth of frame features. All values are
// plain numbers; empty input produces zeros, never NaN.
type FeatureVector struct {
	RMS               float64   `json:"rms"`
	SpectralCentroid  float64   `json:"spectral_centroid"`
	SpectralRolloff   float64   `json:"spectral_rolloff"`
	SpectralBandwidth float64   `json:"spectral_bandwidth"`
	ZeroCrossingRate  float64   `json:"zero_crossing_rate"`
	Chroma            []float64 `json:"chroma"` // 12 bins, index 0 = C
	MFCC              []float64 `json:"mfcc"`   // 13 coefficients
}

// VoiceAnalysis is the voice-side classification for one tick
type VoiceAnalysis struct {
	Detected   bool    `json:"detected"`
	Singing    bool    `json:"singing"`
	Confidence float64 `json:"confidence"`
	Pitch      float64 `json:"pitch"`     // stabilized, Hz, 0 when unvoiced
	Stability  float64 `json:"stability"` // 0-1, steadiness of recent pitch
}

// InstrumentAnalysis is the music-side classification for one tick
type InstrumentAnalysis struct {
	Detected         bool     `json:"detected"`
	Confidence       float64  `json:"confidence"`
	TempoBPM         int      `json:"tempo_bpm"`
	Key              string   `json:"key"` // strongest pitch class this tick
	TimeSignature    string   `json:"time_signature"`
	Genre            string   `json:"genre"`
	Mood             string   `json:"mood"`
	Structure        string   `json:"structure"`         // harmonic, melodic, rhythmic or unknown
	Instruments      []string `json:"instruments"`       // guesses, never empty when detected
	Chords           []string `json:"chords"`            // chords heard this tick
	ChordProgression []string `json:"chord_progression"` // recent distinct chords, newest last
}

// AudioAnalysis is the full per-tick result pushed to history and the
// presentation stream.
type AudioAnalysis struct {
	Timestamp   time.Time          `json:"timestamp"`
	Volume      float64            `json:"volume"` // frame RMS
	Features    FeatureVector      `json:"features"`
	Pitch       float64            `json:"pitch"` // stabilized, Hz
	ContentType config.ContentType `json:"content_type"`
	Voice       VoiceAnalysis      `json:"voice"`
	Instrument  InstrumentAnalysis `json:"instrument"`
}

// Clone returns a deep copy safe to hand across goroutine boundaries
func (a AudioAnalysis) Clone() AudioAnalysis {
	out := a
	out.Features.Chroma = append([]float64(nil), a.Features.Chroma...)
	out.Features.MFCC = append([]float64(nil), a.Features.MFCC...)
	out.Instrument.Instruments = append([]string(nil), a.Instrument.Instruments...)
	out.Instrument.Chords = append([]string(nil), a.Instrument.Chords...)
	out.Instrument.ChordProgression = append([]string(nil), a.Instrument.ChordProgression...)
	return out
}

// Music type labels for CompanionAnalysis
const (
	MusicTypeVocal        = "vocal"
	MusicTypeInstrumental = "instrumental"
	MusicTypeMixed        = "mixed"
)

// Quality labels for CompanionAnalysis
const (
	QualityExcellent = "excellent"
	QualityGood      = "good"
	QualityNeedsWork = "needs_work"
)

// CompanionAnalysis is the session-level musical assessment
type CompanionAnalysis struct {
	MusicType       string   `json:"music_type"`
	Quality         string   `json:"quality"`
	Score           int      `json:"score"`
	Suggestions     []string `json:"suggestions"` // never empty
	Key             string   `json:"key"`         // session key estimate
	InKey           bool     `json:"in_key"`
	VocalRangeMinHz float64  `json:"vocal_range_min_hz"`
	VocalRangeMaxHz float64  `json:"vocal_range_max_hz"`
}

// Clone returns a deep copy safe to hand across goroutine boundaries
func (c CompanionAnalysis) Clone() CompanionAnalysis {
	out := c
	out.Suggestions = append([]string(nil), c.Suggestions...)
	return out
}

// Emotion is one of the fixed presentation emotions
type Emotion string

const (
	EmotionNeutral     Emotion = "neutral"
	EmotionListening   Emotion = "listening"
	EmotionThinking    Emotion = "thinking"
	EmotionTalking     Emotion = "talking"
	EmotionHappy       Emotion = "happy"
	EmotionExcited     Emotion = "excited"
	EmotionCurious     Emotion = "curious"
	EmotionSurprised   Emotion = "surprised"
	EmotionConcerned   Emotion = "concerned"
	EmotionSleepy      Emotion = "sleepy"
	EmotionProud       Emotion = "proud"
	EmotionPlayful     Emotion = "playful"
	EmotionLoving      Emotion = "loving"
	EmotionCelebrating Emotion = "celebrating"
	EmotionSinging     Emotion = "singing"
	EmotionDancing     Emotion = "dancing"
)

// allEmotions is the closed set accepted from directives and requests
var allEmotions = map[Emotion]bool{
	EmotionNeutral: true, EmotionListening: true, EmotionThinking: true,
	EmotionTalking: true, EmotionHappy: true, EmotionExcited: true,
	EmotionCurious: true, EmotionSurprised: true, EmotionConcerned: true,
	EmotionSleepy: true, EmotionProud: true, EmotionPlayful: true,
	EmotionLoving: true, EmotionCelebrating: true, EmotionSinging: true,
	EmotionDancing: true,
}

// IsValid reports whether e is in the fixed emotion set
func (e Emotion) IsValid() bool {
	return allEmotions[e]
}

// EmotionState is a snapshot of the state machine's current emotion
type EmotionState struct {
	Emotion Emotion   `json:"emotion"`
	Since   time.Time `json:"since"`
	Pending Emotion   `json:"pending,omitempty"` // parked until the dwell expires
}
