package audio

import (
	"testing"
	"time"
)

func ramp(n int) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = float64(i)
	}
	return samples
}

func TestFrameSourceEmpty(t *testing.T) {
	t.Parallel()

	fs := NewFrameSource(8000)
	if _, ok := fs.Frame(); ok {
		t.Fatal("empty source should report ok=false")
	}
}

func TestFrameSourcePowerOfTwoPassesThrough(t *testing.T) {
	t.Parallel()

	fs := NewFrameSourceWithCapacity(8000, 2048)
	fs.Push(ramp(1024))

	frame, ok := fs.Frame()
	if !ok {
		t.Fatal("expected a frame")
	}
	if len(frame.Samples) != 1024 {
		t.Fatalf("len(samples) = %d, want 1024", len(frame.Samples))
	}
	for i, s := range frame.Samples {
		if s != float64(i) {
			t.Fatalf("samples[%d] = %v, want %v", i, s, float64(i))
		}
	}
	if frame.SampleRate != 8000 {
		t.Fatalf("sample rate = %d, want 8000", frame.SampleRate)
	}
	if frame.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}
}

func TestFrameSourceResamplesUpToNearerPower(t *testing.T) {
	t.Parallel()

	fs := NewFrameSourceWithCapacity(8000, 2048)
	fs.Push(ramp(1000))

	frame, ok := fs.Frame()
	if !ok {
		t.Fatal("expected a frame")
	}
	// 1000 sits closer to 1024 than to 512.
	if len(frame.Samples) != 1024 {
		t.Fatalf("len(samples) = %d, want 1024", len(frame.Samples))
	}
	if frame.Samples[0] != 0 {
		t.Fatalf("samples[0] = %v, want 0", frame.Samples[0])
	}
	if got := frame.Samples[1023]; got != 999 {
		t.Fatalf("samples[1023] = %v, want 999", got)
	}
	if got := frame.Samples[511]; got != float64(511*1000/1024) {
		t.Fatalf("samples[511] = %v, want %v", got, float64(511*1000/1024))
	}
}

func TestFrameSourceResamplesDownToNearerPower(t *testing.T) {
	t.Parallel()

	fs := NewFrameSourceWithCapacity(8000, 2048)
	fs.Push(ramp(600))

	frame, ok := fs.Frame()
	if !ok {
		t.Fatal("expected a frame")
	}
	// 600 sits closer to 512 than to 1024.
	if len(frame.Samples) != 512 {
		t.Fatalf("len(samples) = %d, want 512", len(frame.Samples))
	}
	if got := frame.Samples[511]; got != float64(511*600/512) {
		t.Fatalf("samples[511] = %v, want %v", got, float64(511*600/512))
	}
}

func TestFrameSourceKeepsFreshestSamples(t *testing.T) {
	t.Parallel()

	fs := NewFrameSourceWithCapacity(8000, 1024)

	ones := make([]float64, 1024)
	twos := make([]float64, 512)
	for i := range ones {
		ones[i] = 1
	}
	for i := range twos {
		twos[i] = 2
	}
	fs.Push(ones)
	fs.Push(twos)

	frame, ok := fs.Frame()
	if !ok {
		t.Fatal("expected a frame")
	}
	if len(frame.Samples) != 1024 {
		t.Fatalf("len(samples) = %d, want 1024", len(frame.Samples))
	}
	if frame.Samples[0] != 1 {
		t.Fatalf("oldest kept sample = %v, want 1", frame.Samples[0])
	}
	if frame.Samples[1023] != 2 {
		t.Fatalf("newest sample = %v, want 2", frame.Samples[1023])
	}
}

func TestFrameSourceCapsFrameSize(t *testing.T) {
	t.Parallel()

	fs := NewFrameSource(44100)
	fs.Push(make([]float64, 40000))

	frame, ok := fs.Frame()
	if !ok {
		t.Fatal("expected a frame")
	}
	if len(frame.Samples) != MaxFrameSamples {
		t.Fatalf("len(samples) = %d, want %d", len(frame.Samples), MaxFrameSamples)
	}
}

func TestFrameSourceDefaultCapacityPassesThrough(t *testing.T) {
	t.Parallel()

	fs := NewFrameSource(44100)
	fs.Push(ramp(40000))

	if got := fs.Available(); got != MaxFrameSamples {
		t.Fatalf("Available = %d, want %d", got, MaxFrameSamples)
	}

	frame, ok := fs.Frame()
	if !ok {
		t.Fatal("expected a frame")
	}
	// A full default buffer is already a power of two, so the newest
	// samples come back exactly as pushed.
	if got := frame.Samples[0]; got != float64(40000-MaxFrameSamples) {
		t.Fatalf("oldest sample = %v, want %v", got, float64(40000-MaxFrameSamples))
	}
	if got := frame.Samples[MaxFrameSamples-1]; got != 39999 {
		t.Fatalf("newest sample = %v, want 39999", got)
	}
}

func TestFrameSourceReset(t *testing.T) {
	t.Parallel()

	fs := NewFrameSource(8000)
	fs.Push(ramp(100))
	fs.Reset()

	if fs.Available() != 0 {
		t.Fatalf("Available after Reset = %d, want 0", fs.Available())
	}
	if _, ok := fs.Frame(); ok {
		t.Fatal("Frame after Reset should report ok=false")
	}
}

func TestAudioFrameDuration(t *testing.T) {
	t.Parallel()

	frame := AudioFrame{Samples: make([]float64, 8000), SampleRate: 8000}
	if got := frame.Duration(); got != time.Second {
		t.Fatalf("Duration = %v, want 1s", got)
	}

	frame.SampleRate = 0
	if got := frame.Duration(); got != 0 {
		t.Fatalf("Duration with zero rate = %v, want 0", got)
	}
}
