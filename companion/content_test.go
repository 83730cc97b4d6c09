package companion

import (
	"math"
	"testing"

	"github.com/solenne-ai/cadenza/companion/config"
)

// chromaTriad builds a 12-bin chroma vector with the triad's pitch
// classes lit at descending strengths, root loudest.
func chromaTriad(root, third, fifth int) []float64 {
	v := make([]float64, 12)
	v[root] = 1.0
	v[third] = 0.8
	v[fifth] = 0.9
	return v
}

func TestClassifySinging(t *testing.T) {
	t.Parallel()

	cc := NewContentClassifier()
	fv := FeatureVector{
		RMS:              0.1,
		SpectralCentroid: 800,
		SpectralRolloff:  900,
		ZeroCrossingRate: 0.08,
	}
	res := cc.Classify(fv, PitchEstimate{Stable: 440, Stability: 0.9})

	if !res.Voice.Detected {
		t.Fatal("Voice.Detected = false, want true")
	}
	if !res.Voice.Singing {
		t.Error("Voice.Singing = false, want true")
	}
	if math.Abs(res.Voice.Confidence-0.7) > 1e-9 {
		t.Errorf("Voice.Confidence = %v, want 0.7", res.Voice.Confidence)
	}
	if res.Voice.Pitch != 440 {
		t.Errorf("Voice.Pitch = %v, want 440", res.Voice.Pitch)
	}
	if res.Voice.Stability != 0.9 {
		t.Errorf("Voice.Stability = %v, want 0.9", res.Voice.Stability)
	}
	if res.Type != config.ContentSinging {
		t.Errorf("Type = %q, want %q", res.Type, config.ContentSinging)
	}
}

func TestClassifyVoiceNotSingingOnRoughSignal(t *testing.T) {
	t.Parallel()

	cc := NewContentClassifier()
	fv := FeatureVector{
		RMS:              0.1,
		SpectralCentroid: 800,
		SpectralRolloff:  900,
		ZeroCrossingRate: 0.15, // too rough for a held vowel
	}
	res := cc.Classify(fv, PitchEstimate{Stable: 440, Stability: 0.9})

	if !res.Voice.Detected {
		t.Fatal("Voice.Detected = false, want true")
	}
	if res.Voice.Singing {
		t.Error("Voice.Singing = true, want false")
	}
	if res.Type != config.ContentVoice {
		t.Errorf("Type = %q, want %q", res.Type, config.ContentVoice)
	}
}

func TestClassifyVoiceNotSingingOnUnsteadyPitch(t *testing.T) {
	t.Parallel()

	cc := NewContentClassifier()
	fv := FeatureVector{
		RMS:              0.1,
		SpectralCentroid: 800,
		SpectralRolloff:  900,
		ZeroCrossingRate: 0.08,
	}
	res := cc.Classify(fv, PitchEstimate{Stable: 440, Stability: 0.5})

	if !res.Voice.Detected {
		t.Fatal("Voice.Detected = false, want true")
	}
	if res.Voice.Singing {
		t.Error("Voice.Singing = true, want false")
	}
	if res.Type != config.ContentVoice {
		t.Errorf("Type = %q, want %q", res.Type, config.ContentVoice)
	}
}

func TestClassifyMusicBeatsSimultaneousVoice(t *testing.T) {
	t.Parallel()

	cc := NewContentClassifier()
	fv := FeatureVector{
		RMS:               0.4,
		SpectralCentroid:  1500,
		SpectralRolloff:   3000,
		SpectralBandwidth: 1500,
		ZeroCrossingRate:  0.12,
	}
	res := cc.Classify(fv, PitchEstimate{Stable: 330, Stability: 0.8})

	if !res.Voice.Detected {
		t.Fatal("Voice.Detected = false, want true")
	}
	if !res.Instrument.Detected {
		t.Fatal("Instrument.Detected = false, want true")
	}
	if math.Abs(res.Instrument.Confidence-1.0) > 1e-9 {
		t.Errorf("Instrument.Confidence = %v, want 1.0", res.Instrument.Confidence)
	}
	if res.Type != config.ContentMusic {
		t.Errorf("Type = %q, want %q", res.Type, config.ContentMusic)
	}
	if res.Instrument.TempoBPM != 102 {
		t.Errorf("TempoBPM = %d, want 102", res.Instrument.TempoBPM)
	}
	if res.Instrument.Structure != "melodic" {
		t.Errorf("Structure = %q, want %q", res.Instrument.Structure, "melodic")
	}
	if res.Instrument.Key != "C" {
		t.Errorf("Key = %q, want %q", res.Instrument.Key, "C")
	}
}

func TestClassifySilence(t *testing.T) {
	t.Parallel()

	cc := NewContentClassifier()
	res := cc.Classify(FeatureVector{}, PitchEstimate{})

	if res.Type != config.ContentSilence {
		t.Fatalf("Type = %q, want %q", res.Type, config.ContentSilence)
	}
	if res.Voice.Detected || res.Instrument.Detected {
		t.Error("detected voice or instrument in silence")
	}
	inst := res.Instrument
	if len(inst.Instruments) != 1 || inst.Instruments[0] != "unknown" {
		t.Errorf("Instruments = %v, want [unknown]", inst.Instruments)
	}
	if inst.Structure != "unknown" {
		t.Errorf("Structure = %q, want %q", inst.Structure, "unknown")
	}
	if inst.Key != "C" {
		t.Errorf("Key = %q, want %q", inst.Key, "C")
	}
	if inst.TempoBPM != 60 {
		t.Errorf("TempoBPM = %d, want 60", inst.TempoBPM)
	}
	if inst.TimeSignature != "4/4" {
		t.Errorf("TimeSignature = %q, want 4/4", inst.TimeSignature)
	}
}

func TestClassifyUnknownOnLoudUnmatchedSignal(t *testing.T) {
	t.Parallel()

	cc := NewContentClassifier()
	fv := FeatureVector{
		RMS:               0.2,
		SpectralCentroid:  5000, // above the vocal band
		SpectralBandwidth: 400,
		ZeroCrossingRate:  0.01,
	}
	res := cc.Classify(fv, PitchEstimate{})

	if res.Voice.Detected || res.Instrument.Detected {
		t.Fatal("detected voice or instrument, want neither")
	}
	if res.Type != config.ContentUnknown {
		t.Errorf("Type = %q, want %q", res.Type, config.ContentUnknown)
	}
}

func TestClassifyTempoFromZCR(t *testing.T) {
	t.Parallel()

	tests := []struct {
		zcr  float64
		want int
	}{
		{0, 60},
		{0.2, 130},
		{0.5, 200}, // clamped
		{1.0, 200},
	}
	for _, tt := range tests {
		cc := NewContentClassifier()
		res := cc.Classify(FeatureVector{ZeroCrossingRate: tt.zcr}, PitchEstimate{})
		if res.Instrument.TempoBPM != tt.want {
			t.Errorf("zcr %v: TempoBPM = %d, want %d", tt.zcr, res.Instrument.TempoBPM, tt.want)
		}
	}
}

func TestClassifyGenreMoodTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		zcr       float64
		centroid  float64
		rolloff   float64
		wantGenre string
		wantMood  string
	}{
		{"slow bright", 0, 3000, 6000, "folk", "mellow"},
		{"slow dark", 0, 500, 5000, "ambient", "calm"},
		{"mid bright", 0.2, 3000, 6000, "pop", "upbeat"},
		{"mid dark", 0.2, 500, 5000, "blues", "warm"},
		{"fast bright", 0.4, 3000, 6000, "electronic", "energetic"},
		{"fast dark", 0.4, 500, 5000, "rock", "intense"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewContentClassifier()
			fv := FeatureVector{
				SpectralCentroid: tt.centroid,
				SpectralRolloff:  tt.rolloff,
				ZeroCrossingRate: tt.zcr,
			}
			res := cc.Classify(fv, PitchEstimate{})
			if res.Instrument.Genre != tt.wantGenre {
				t.Errorf("Genre = %q, want %q", res.Instrument.Genre, tt.wantGenre)
			}
			if res.Instrument.Mood != tt.wantMood {
				t.Errorf("Mood = %q, want %q", res.Instrument.Mood, tt.wantMood)
			}
		})
	}
}

func TestClassifyInstrumentGuesses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		centroid float64
		mfcc     []float64
		want     []string
	}{
		{"bright strings", 3000, nil, []string{"strings"}},
		{"warm piano", 1500, nil, []string{"piano"}},
		{"low bass", 200, nil, []string{"bass"}},
		{"strings with percussion", 3000, []float64{0, 10, -10}, []string{"strings", "percussion"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewContentClassifier()
			fv := FeatureVector{SpectralCentroid: tt.centroid, MFCC: tt.mfcc}
			got := cc.Classify(fv, PitchEstimate{}).Instrument.Instruments
			if len(got) != len(tt.want) {
				t.Fatalf("Instruments = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Instruments = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestClassifyRhythmicStructure(t *testing.T) {
	t.Parallel()

	cc := NewContentClassifier()
	// High MFCC variance without a chord or a confident instrument read
	fv := FeatureVector{MFCC: []float64{0, 10, -10}}
	res := cc.Classify(fv, PitchEstimate{})

	if res.Instrument.Structure != "rhythmic" {
		t.Errorf("Structure = %q, want %q", res.Instrument.Structure, "rhythmic")
	}
}

func TestClassifyChordProgression(t *testing.T) {
	t.Parallel()

	cc := NewContentClassifier()

	res := cc.Classify(FeatureVector{Chroma: chromaTriad(0, 4, 7)}, PitchEstimate{})
	if !res.Chord.Detected || res.Chord.Label != "Cmaj" {
		t.Fatalf("Chord = %+v, want detected Cmaj", res.Chord)
	}
	if len(res.Instrument.Chords) != 1 || res.Instrument.Chords[0] != "Cmaj" {
		t.Fatalf("Chords = %v, want [Cmaj]", res.Instrument.Chords)
	}
	if res.Instrument.Structure != "harmonic" {
		t.Errorf("Structure = %q, want %q", res.Instrument.Structure, "harmonic")
	}
	if res.Instrument.Key != "C" {
		t.Errorf("Key = %q, want %q", res.Instrument.Key, "C")
	}

	// The same chord again must not duplicate the progression entry.
	res = cc.Classify(FeatureVector{Chroma: chromaTriad(0, 4, 7)}, PitchEstimate{})
	if len(res.Instrument.ChordProgression) != 1 {
		t.Fatalf("progression after repeat = %v, want one entry", res.Instrument.ChordProgression)
	}

	// A chordless tick keeps the progression but reports no chord.
	res = cc.Classify(FeatureVector{}, PitchEstimate{})
	if len(res.Instrument.Chords) != 0 {
		t.Errorf("Chords on silent tick = %v, want none", res.Instrument.Chords)
	}
	if len(res.Instrument.ChordProgression) != 1 || res.Instrument.ChordProgression[0] != "Cmaj" {
		t.Fatalf("progression after silent tick = %v, want [Cmaj]", res.Instrument.ChordProgression)
	}

	cc.Classify(FeatureVector{Chroma: chromaTriad(9, 0, 4)}, PitchEstimate{})  // Amin
	cc.Classify(FeatureVector{Chroma: chromaTriad(5, 9, 0)}, PitchEstimate{})  // Fmaj
	cc.Classify(FeatureVector{Chroma: chromaTriad(7, 11, 2)}, PitchEstimate{}) // Gmaj
	res = cc.Classify(FeatureVector{Chroma: chromaTriad(0, 4, 7)}, PitchEstimate{})

	want := []string{"Amin", "Fmaj", "Gmaj", "Cmaj"}
	got := res.Instrument.ChordProgression
	if len(got) != len(want) {
		t.Fatalf("progression = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("progression = %v, want %v", got, want)
		}
	}
}

func TestClassifierReset(t *testing.T) {
	t.Parallel()

	cc := NewContentClassifier()
	cc.Classify(FeatureVector{Chroma: chromaTriad(0, 4, 7)}, PitchEstimate{})
	cc.Reset()

	res := cc.Classify(FeatureVector{}, PitchEstimate{})
	if len(res.Instrument.ChordProgression) != 0 {
		t.Errorf("progression after reset = %v, want empty", res.Instrument.ChordProgression)
	}
}

func TestClassifyKeyFromStrongestPitchClass(t *testing.T) {
	t.Parallel()

	chroma := make([]float64, 12)
	for i := range chroma {
		chroma[i] = 0.1
	}
	chroma[7] = 0.25 // G strongest, still below the chord threshold

	cc := NewContentClassifier()
	res := cc.Classify(FeatureVector{Chroma: chroma}, PitchEstimate{})

	if res.Chord.Detected {
		t.Fatal("Chord.Detected = true, want false")
	}
	if res.Instrument.Key != "G" {
		t.Errorf("Key = %q, want %q", res.Instrument.Key, "G")
	}
}
