package companion

import (
	"math"
	"testing"

	"github.com/solenne-ai/cadenza/companion/config"
)

func scaledSamples(samples []float64, gain float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s * gain
	}
	return out
}

func TestReviewEmptyClip(t *testing.T) {
	t.Parallel()

	r := NewReviewer(nil)

	review := r.Review(nil, 8000)
	if review.Windows != 0 {
		t.Fatalf("Windows = %d, want 0", review.Windows)
	}
	if review.DominantContent != config.ContentSilence {
		t.Fatalf("DominantContent = %q, want %q", review.DominantContent, config.ContentSilence)
	}
	if review.DurationSeconds != 0 {
		t.Fatalf("DurationSeconds = %v, want 0", review.DurationSeconds)
	}

	review = r.Review(make([]float64, 4000), 0)
	if review.Windows != 0 {
		t.Fatalf("Windows with zero rate = %d, want 0", review.Windows)
	}
}

func TestReviewSilentClip(t *testing.T) {
	t.Parallel()

	r := NewReviewer(nil)
	review := r.Review(make([]float64, 16000), 8000)

	if review.DurationSeconds != 2.0 {
		t.Fatalf("DurationSeconds = %v, want 2.0", review.DurationSeconds)
	}
	if review.Windows != 20 {
		t.Fatalf("Windows = %d, want 20", review.Windows)
	}
	if review.ActiveWindows != 0 {
		t.Fatalf("ActiveWindows = %d, want 0", review.ActiveWindows)
	}
	if review.DominantContent != config.ContentSilence {
		t.Fatalf("DominantContent = %q, want %q", review.DominantContent, config.ContentSilence)
	}
	if got := review.ContentWindows[config.ContentSilence]; got != 20 {
		t.Fatalf("silence windows = %d, want 20", got)
	}
	if review.AveragePitchHz != 0 {
		t.Fatalf("AveragePitchHz = %v, want 0", review.AveragePitchHz)
	}
	if review.PeakVolume != 0 {
		t.Fatalf("PeakVolume = %v, want 0", review.PeakVolume)
	}
	if review.Assessment.Quality != QualityNeedsWork {
		t.Fatalf("Quality = %q, want %q", review.Assessment.Quality, QualityNeedsWork)
	}
	if review.Assessment.Key != "C major" {
		t.Fatalf("Key = %q, want C major", review.Assessment.Key)
	}
	if len(review.Assessment.Suggestions) == 0 {
		t.Fatal("expected at least one suggestion")
	}
}

func TestReviewSteadyToneClip(t *testing.T) {
	t.Parallel()

	r := NewReviewer(nil)
	clip := scaledSamples(sineSamples(440.0, 8000, 24000), 0.4)
	review := r.Review(clip, 8000)

	if review.DurationSeconds != 3.0 {
		t.Fatalf("DurationSeconds = %v, want 3.0", review.DurationSeconds)
	}
	if review.Windows != 30 {
		t.Fatalf("Windows = %d, want 30", review.Windows)
	}
	if review.ActiveWindows != 30 {
		t.Fatalf("ActiveWindows = %d, want 30", review.ActiveWindows)
	}

	if math.Abs(review.PeakVolume-0.4) > 0.01 {
		t.Fatalf("PeakVolume = %v, want about 0.4", review.PeakVolume)
	}
	wantRMS := 0.4 / math.Sqrt2
	if math.Abs(review.AverageVolume-wantRMS) > 0.02 {
		t.Fatalf("AverageVolume = %v, want about %v", review.AverageVolume, wantRMS)
	}

	// Warmup frames are resampled while the rolling buffer fills, so
	// the session average sits near the tone rather than exactly on it.
	if review.AveragePitchHz < 330 || review.AveragePitchHz > 480 {
		t.Fatalf("AveragePitchHz = %v, want within [330, 480]", review.AveragePitchHz)
	}

	total := 0
	for _, n := range review.ContentWindows {
		total += n
	}
	if total != review.Windows {
		t.Fatalf("content window counts sum to %d, want %d", total, review.Windows)
	}
	if got := review.ContentWindows[config.ContentSilence]; got != 0 {
		t.Fatalf("silence windows = %d, want 0", got)
	}
}

func TestReviewDropsShortTail(t *testing.T) {
	t.Parallel()

	r := NewReviewer(nil)
	review := r.Review(make([]float64, 1900), 8000)

	if review.Windows != 2 {
		t.Fatalf("Windows = %d, want 2", review.Windows)
	}
	if review.DurationSeconds != 1900.0/8000.0 {
		t.Fatalf("DurationSeconds = %v, want %v", review.DurationSeconds, 1900.0/8000.0)
	}
}
