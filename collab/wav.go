package collab

import (
	"encoding/binary"
	"math"
)

const wavHeaderSize = 44

// EncodeWAV wraps float64 samples in a mono 16-bit PCM WAV payload.
// Samples are clipped to [-1, 1] before quantization.
func EncodeWAV(samples []float64, sampleRate int) []byte {
	const (
		bitsPerSample = 16
		channels      = 1
	)

	dataLen := len(samples) * channels * bitsPerSample / 8
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	out := make([]byte, wavHeaderSize+dataLen)

	// RIFF chunk descriptor
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataLen))
	copy(out[8:12], "WAVE")

	// fmt sub-chunk, 16 bytes for plain PCM
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1)
	binary.LittleEndian.PutUint16(out[22:24], channels)
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], bitsPerSample)

	// data sub-chunk
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataLen))

	for i, sample := range samples {
		clipped := math.Max(-1.0, math.Min(1.0, sample))
		pcm := int16(clipped * 32767.0)
		binary.LittleEndian.PutUint16(out[wavHeaderSize+i*2:], uint16(pcm))
	}

	return out
}
