package audio

import (
	"sync"
	"time"

	"github.com/solenne-ai/cadenza/algorithms/common"
)

// MaxFrameSamples caps analysis frames so a single FFT stays cheap
// enough for a 100ms tick budget.
const MaxFrameSamples = 16384

// AudioFrame is one snapshot of recent samples handed to the analysis
// loop. Samples are owned by the frame; the source never reuses the
// backing array.
type AudioFrame struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
	Timestamp  time.Time `json:"timestamp"`
}

// Duration returns the time span the frame covers
func (f AudioFrame) Duration() time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(f.Samples)) / float64(f.SampleRate) * float64(time.Second))
}

// FrameSource owns the rolling sample buffer between the capture
// callback and the analysis loop. Capture goroutines Push; the loop
// calls Frame once per tick and receives a power-of-two sized copy of
// the freshest audio, or ok=false when nothing has arrived yet.
type FrameSource struct {
	mu         sync.Mutex
	buffer     *common.RollingBuffer
	sampleRate int
}

// NewFrameSource creates a source whose buffer is the largest
// power-of-two window the analysis loop accepts. A full buffer then
// passes through the size mapping untouched; only warmup frames, while
// the buffer is still filling, get resampled.
func NewFrameSource(sampleRate int) *FrameSource {
	capacity := sampleRate
	if capacity > MaxFrameSamples {
		capacity = MaxFrameSamples
	}
	return NewFrameSourceWithCapacity(sampleRate, common.PrevPowerOfTwo(capacity))
}

// NewFrameSourceWithCapacity creates a source with an explicit rolling
// buffer capacity in samples
func NewFrameSourceWithCapacity(sampleRate, capacity int) *FrameSource {
	if capacity < 1 {
		capacity = MaxFrameSamples
	}
	return &FrameSource{
		buffer:     common.NewRollingBuffer(capacity),
		sampleRate: sampleRate,
	}
}

// Push appends captured samples, overwriting the oldest when full
func (fs *FrameSource) Push(samples []float64) {
	if len(samples) == 0 {
		return
	}
	fs.mu.Lock()
	fs.buffer.Push(samples)
	fs.mu.Unlock()
}

// Frame returns the freshest audio as a power-of-two sized frame.
// The raw window of n available samples is mapped onto the bracketing
// power of two nearest to n (the doubled candidate only when it stays
// under MaxFrameSamples) by nearest-neighbor resampling. ok is false
// when the buffer is empty; callers skip the tick rather than analyze
// a zeroed frame.
func (fs *FrameSource) Frame() (AudioFrame, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	n := fs.buffer.Len()
	if n == 0 {
		return AudioFrame{}, false
	}

	raw := make([]float64, n)
	fs.buffer.Latest(raw)

	target := frameTarget(n)

	samples := raw
	if target != n {
		samples = common.ResampleNearest(raw, target)
	}

	return AudioFrame{
		Samples:    samples,
		SampleRate: fs.sampleRate,
		Timestamp:  time.Now(),
	}, true
}

// frameTarget picks the power-of-two frame length for n raw samples
func frameTarget(n int) int {
	lower := common.PrevPowerOfTwo(n)
	if lower > MaxFrameSamples {
		lower = MaxFrameSamples
	}

	target := lower
	upper := lower * 2
	if upper <= MaxFrameSamples && upper-n < n-lower {
		target = upper
	}
	return target
}

// Available returns the number of buffered samples
func (fs *FrameSource) Available() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.buffer.Len()
}

// SampleRate returns the source sample rate
func (fs *FrameSource) SampleRate() int {
	return fs.sampleRate
}

// Reset discards all buffered samples
func (fs *FrameSource) Reset() {
	fs.mu.Lock()
	fs.buffer.Reset()
	fs.mu.Unlock()
}
