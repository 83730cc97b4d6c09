package common

// ResampleNearest maps data onto a slice of the given length by integer
// index scaling: out[i] = data[i*len(data)/length]. For the sub-octave
// length changes the frame pipeline makes this preserves the waveform
// shape well enough for spectral features; no filtering is applied.
func ResampleNearest(data []float64, length int) []float64 {
	if length <= 0 || len(data) == 0 {
		return nil
	}

	out := make([]float64, length)
	if length == len(data) {
		copy(out, data)
		return out
	}

	n := len(data)
	for i := range out {
		out[i] = data[i*n/length]
	}
	return out
}
