package chroma

import (
	"testing"
)

func TestNoteName(t *testing.T) {
	t.Parallel()

	cases := map[int]string{
		0:  "C",
		9:  "A",
		11: "B",
		12: "C",
		-1: "B",
		-3: "A",
	}
	for pc, want := range cases {
		if got := NoteName(pc); got != want {
			t.Fatalf("NoteName(%d) = %q, want %q", pc, got, want)
		}
	}
}

func TestPitchClass(t *testing.T) {
	t.Parallel()

	cases := []struct {
		freq float64
		want int
	}{
		{440.0, 9},    // A4
		{880.0, 9},    // A5, octave equivalence
		{220.0, 9},    // A3
		{261.626, 0},  // C4
		{329.628, 4},  // E4
		{196.0, 7},    // G3
		{466.164, 10}, // A#4
	}
	for _, tc := range cases {
		if got := PitchClass(tc.freq); got != tc.want {
			t.Fatalf("PitchClass(%v) = %d, want %d", tc.freq, got, tc.want)
		}
	}
}

func TestPitchClassNonPositive(t *testing.T) {
	t.Parallel()

	if got := PitchClass(0); got != 0 {
		t.Fatalf("PitchClass(0) = %d, want 0", got)
	}
	if got := PitchClass(-42); got != 0 {
		t.Fatalf("PitchClass(-42) = %d, want 0", got)
	}
}

func TestPitchClassNearMiss(t *testing.T) {
	t.Parallel()

	// Slightly sharp or flat frequencies still land on the nearest note.
	if got := PitchClass(445.0); got != 9 {
		t.Fatalf("PitchClass(445) = %d, want 9", got)
	}
	if got := PitchClass(435.0); got != 9 {
		t.Fatalf("PitchClass(435) = %d, want 9", got)
	}
}
