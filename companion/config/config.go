package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ContentType labels what the classifier currently hears
type ContentType string

const (
	ContentSilence ContentType = "silence"
	ContentVoice   ContentType = "voice"
	ContentSinging ContentType = "singing"
	ContentMusic   ContentType = "music"
	ContentUnknown ContentType = "unknown"
)

// Classification weights and thresholds. These are empirical values;
// they are contracts to reproduce, not knobs to tune per deployment,
// so they live here as named constants rather than in the yaml file.
const (
	// Voice indicator weights (additive confidence)
	VoiceCentroidWeight = 0.4
	VoiceZCRWeight      = 0.3
	VoiceEnergyWeight   = 0.3

	// Music indicator weights (additive confidence)
	MusicBrightnessWeight = 0.4
	MusicEnergyWeight     = 0.3
	MusicComplexityWeight = 0.2
	MusicBandwidthWeight  = 0.1

	// RMS level that counts as audible activity
	VolumeActivationThreshold = 0.15

	// Chroma energy a pitch class needs to join a chord
	ChordChromaThreshold = 0.30

	// Voice indicator bounds
	VoiceCentroidMinHz = 300.0
	VoiceCentroidMaxHz = 3000.0
	VoiceZCRMin        = 0.05
	VoiceZCRMax        = 0.25

	// Singing: voiced, unusually smooth, with a held pitch
	SingingZCRMax           = 0.10
	PitchStabilityThreshold = 0.7

	// Music indicator bounds
	MusicBrightnessRatioMin = 0.15
	MusicBrightnessRatioMax = 0.60
	MusicZCRComplexityMin   = 0.02
	MusicBandwidthMinHz     = 500.0

	// A classification counts once its additive confidence reaches this
	DetectionThreshold = 0.5

	// Music beats simultaneous voice at or above this confidence
	MusicPriorityThreshold = 0.5

	// Tempo mapped linearly from normalized ZCR, clamped to this range
	TempoMinBPM  = 60.0
	TempoMaxBPM  = 200.0
	TempoZCRGain = 350.0

	// Genre/mood table bands
	TempoSlowMaxBPM     = 90.0
	TempoFastMinBPM     = 140.0
	BrightnessDarkSplit = 0.30

	// Instrument guesses from spectral placement
	InstrumentBrightCentroidHz = 2500.0
	InstrumentWarmCentroidHz   = 800.0
	PercussionMFCCVariance     = 15.0

	// Defaults reported when nothing better is known
	DefaultKeyName       = "C"
	DefaultTimeSignature = "4/4"
)

// EngineConfig drives the analysis loop
type EngineConfig struct {
	TickIntervalMS int `json:"tick_interval_ms" yaml:"tick_interval_ms"`
	HistorySize    int `json:"history_size" yaml:"history_size"`
	SampleRate     int `json:"sample_rate" yaml:"sample_rate"`
}

// TickInterval returns the loop period as a duration
func (c EngineConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// DefaultEngineConfig returns the 10 Hz loop defaults
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TickIntervalMS: 100, // 10 Hz
		HistorySize:    100, // last 100 analyses kept
		SampleRate:     44100,
	}
}

// ActivityConfig parameterizes utterance segmentation
type ActivityConfig struct {
	VolumeThreshold  float64 `json:"volume_threshold" yaml:"volume_threshold"`
	SilenceTimeoutMS int     `json:"silence_timeout_ms" yaml:"silence_timeout_ms"`
}

// SilenceTimeout returns the cooldown as a duration
func (c ActivityConfig) SilenceTimeout() time.Duration {
	return time.Duration(c.SilenceTimeoutMS) * time.Millisecond
}

// DefaultActivityConfig returns segmentation defaults. The timeout is
// deployment-tunable; observed useful range is 1500-4000ms.
func DefaultActivityConfig() ActivityConfig {
	return ActivityConfig{
		VolumeThreshold:  VolumeActivationThreshold,
		SilenceTimeoutMS: 2000,
	}
}

// PitchConfig parameterizes pitch tracking and stabilization
type PitchConfig struct {
	MinFreq           float64 `json:"min_freq" yaml:"min_freq"`
	MaxFreq           float64 `json:"max_freq" yaml:"max_freq"`
	AutocorrThreshold float64 `json:"autocorr_threshold" yaml:"autocorr_threshold"`
	StabilizerWindow  int     `json:"stabilizer_window" yaml:"stabilizer_window"`
	EmitThreshold     float64 `json:"emit_threshold" yaml:"emit_threshold"`
}

// DefaultPitchConfig returns voice-range tracking defaults
func DefaultPitchConfig() PitchConfig {
	return PitchConfig{
		MinFreq:           80.0,
		MaxFreq:           800.0,
		AutocorrThreshold: 0.3,
		StabilizerWindow:  5,
		EmitThreshold:     0.10, // 10% relative change re-emits
	}
}

// EmotionConfig parameterizes the emotion state machine
type EmotionConfig struct {
	MinimumDwellMS int `json:"minimum_dwell_ms" yaml:"minimum_dwell_ms"`
}

// MinimumDwell returns the dwell as a duration
func (c EmotionConfig) MinimumDwell() time.Duration {
	return time.Duration(c.MinimumDwellMS) * time.Millisecond
}

// DefaultEmotionConfig returns the 3s dwell default
func DefaultEmotionConfig() EmotionConfig {
	return EmotionConfig{MinimumDwellMS: 3000}
}

// CollabConfig points at the transcription and chat collaborators
type CollabConfig struct {
	TranscriptionURL   string `json:"transcription_url" yaml:"transcription_url"`
	ChatURL            string `json:"chat_url" yaml:"chat_url"`
	TokenSecret        string `json:"token_secret" yaml:"token_secret"`
	TokenTTLSeconds    int    `json:"token_ttl_seconds" yaml:"token_ttl_seconds"`
	ConversationWindow int    `json:"conversation_window" yaml:"conversation_window"`
}

// TokenTTL returns the session token lifetime
func (c CollabConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSeconds) * time.Second
}

// DefaultCollabConfig returns collaborator defaults; URLs and the
// token secret come from the yaml file or environment.
func DefaultCollabConfig() CollabConfig {
	return CollabConfig{
		TokenTTLSeconds:    300,
		ConversationWindow: 20, // turns kept for chat context
	}
}

// PresentationConfig configures the outbound WebSocket hub
type PresentationConfig struct {
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
}

// DefaultPresentationConfig returns the local hub default
func DefaultPresentationConfig() PresentationConfig {
	return PresentationConfig{ListenAddr: ":8787"}
}

// Config is the full engine configuration
type Config struct {
	Engine       EngineConfig       `json:"engine" yaml:"engine"`
	Activity     ActivityConfig     `json:"activity" yaml:"activity"`
	Pitch        PitchConfig        `json:"pitch" yaml:"pitch"`
	Emotion      EmotionConfig      `json:"emotion" yaml:"emotion"`
	Collab       CollabConfig       `json:"collab" yaml:"collab"`
	Presentation PresentationConfig `json:"presentation" yaml:"presentation"`
}

// DefaultConfig assembles all component defaults
func DefaultConfig() *Config {
	return &Config{
		Engine:       DefaultEngineConfig(),
		Activity:     DefaultActivityConfig(),
		Pitch:        DefaultPitchConfig(),
		Emotion:      DefaultEmotionConfig(),
		Collab:       DefaultCollabConfig(),
		Presentation: DefaultPresentationConfig(),
	}
}

// Load reads a yaml file over the defaults. A missing path returns
// pure defaults rather than an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with
func (c *Config) Validate() error {
	if c.Engine.TickIntervalMS <= 0 {
		return fmt.Errorf("engine.tick_interval_ms must be positive, got %d", c.Engine.TickIntervalMS)
	}
	if c.Engine.HistorySize <= 0 {
		return fmt.Errorf("engine.history_size must be positive, got %d", c.Engine.HistorySize)
	}
	if c.Engine.SampleRate <= 0 {
		return fmt.Errorf("engine.sample_rate must be positive, got %d", c.Engine.SampleRate)
	}
	if c.Activity.VolumeThreshold <= 0 || c.Activity.VolumeThreshold >= 1 {
		return fmt.Errorf("activity.volume_threshold must be in (0,1), got %g", c.Activity.VolumeThreshold)
	}
	if c.Activity.SilenceTimeoutMS <= 0 {
		return fmt.Errorf("activity.silence_timeout_ms must be positive, got %d", c.Activity.SilenceTimeoutMS)
	}
	if c.Pitch.MinFreq <= 0 || c.Pitch.MaxFreq <= c.Pitch.MinFreq {
		return fmt.Errorf("pitch range [%g,%g] is invalid", c.Pitch.MinFreq, c.Pitch.MaxFreq)
	}
	if c.Emotion.MinimumDwellMS <= 0 {
		return fmt.Errorf("emotion.minimum_dwell_ms must be positive, got %d", c.Emotion.MinimumDwellMS)
	}
	if c.Collab.ConversationWindow <= 0 {
		return fmt.Errorf("collab.conversation_window must be positive, got %d", c.Collab.ConversationWindow)
	}
	return nil
}
