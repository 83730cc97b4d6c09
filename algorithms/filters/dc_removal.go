package filters

// DCBlocker is a first-order high-pass filter that strips the DC
// component from a sample stream:
//
//	y[n] = x[n] - x[n-1] + R*y[n-1]
//
// Microphone input often carries a small constant offset that would
// shift every zero crossing and leak into the RMS volume reading.
type DCBlocker struct {
	pole float64

	x1 float64
	y1 float64
}

// NewDCBlocker creates a blocker with the standard audio pole of 0.995,
// roughly an 8 Hz cutoff at 44.1 kHz.
func NewDCBlocker() *DCBlocker {
	return &DCBlocker{pole: 0.995}
}

// NewDCBlockerWithPole creates a blocker with an explicit pole location.
// The pole must sit in (0, 1); closer to 1 lowers the cutoff. Values
// outside the range fall back to the default.
func NewDCBlockerWithPole(pole float64) *DCBlocker {
	if pole <= 0 || pole >= 1 {
		pole = 0.995
	}
	return &DCBlocker{pole: pole}
}

// Process filters a single sample and advances the filter state
func (b *DCBlocker) Process(input float64) float64 {
	output := input - b.x1 + b.pole*b.y1
	b.x1 = input
	b.y1 = output
	return output
}

// ProcessBuffer filters samples in place and returns the slice
func (b *DCBlocker) ProcessBuffer(samples []float64) []float64 {
	for i, s := range samples {
		samples[i] = b.Process(s)
	}
	return samples
}

// Reset clears the filter state. Call between discontinuous segments
// so the previous stream's tail does not bleed into the next.
func (b *DCBlocker) Reset() {
	b.x1 = 0
	b.y1 = 0
}
