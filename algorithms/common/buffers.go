package common

// RollingBuffer keeps the most recent samples of an unbounded stream in
// a fixed-size ring. Pushes never block; once the ring is full each new
// sample displaces the oldest one.
type RollingBuffer struct {
	data  []float64
	head  int // next write index
	count int
}

// NewRollingBuffer creates a ring holding at most size samples.
func NewRollingBuffer(size int) *RollingBuffer {
	if size < 0 {
		size = 0
	}
	return &RollingBuffer{data: make([]float64, size)}
}

// Push appends samples in order, displacing the oldest entries once the
// ring is full.
func (rb *RollingBuffer) Push(samples []float64) {
	size := len(rb.data)
	if size == 0 || len(samples) == 0 {
		return
	}

	// A push at least as large as the ring replaces its entire content.
	if len(samples) >= size {
		copy(rb.data, samples[len(samples)-size:])
		rb.head = 0
		rb.count = size
		return
	}

	n := copy(rb.data[rb.head:], samples)
	copy(rb.data, samples[n:])

	rb.head = (rb.head + len(samples)) % size
	if rb.count += len(samples); rb.count > size {
		rb.count = size
	}
}

// Latest copies the newest samples into out, oldest first, and reports
// how many were copied. Fewer than len(out) are copied when the ring
// holds fewer. The ring is left untouched.
func (rb *RollingBuffer) Latest(out []float64) int {
	n := len(out)
	if n > rb.count {
		n = rb.count
	}
	if n == 0 {
		return 0
	}

	start := rb.head - n
	if start < 0 {
		start += len(rb.data)
	}
	if m := copy(out, rb.data[start:]); m < n {
		copy(out[m:], rb.data)
	}
	return n
}

// Len returns the number of samples currently held.
func (rb *RollingBuffer) Len() int {
	return rb.count
}

// Reset discards all held samples.
func (rb *RollingBuffer) Reset() {
	rb.head = 0
	rb.count = 0
}
