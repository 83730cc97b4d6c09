package chroma

import (
	"math"
)

// pitchClassNames maps pitch class numbers to note names, index 0 = C
var pitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the name of a pitch class (0=C, 1=C#, ..., 11=B).
// Values outside 0-11 are folded into range.
func NoteName(pitchClass int) string {
	return pitchClassNames[((pitchClass%12)+12)%12]
}

// PitchClass folds a frequency onto its pitch class (0=C) assuming
// standard A4=440Hz tuning. Non-positive frequencies return 0.
func PitchClass(frequency float64) int {
	if frequency <= 0 {
		return 0
	}
	midiNote := 69.0 + 12.0*math.Log2(frequency/440.0)
	return ((int(math.Round(midiNote)) % 12) + 12) % 12
}

// Interval offsets in semitones used for triad analysis
const (
	IntervalMinorThird = 3
	IntervalMajorThird = 4
	IntervalFifth      = 7
)
