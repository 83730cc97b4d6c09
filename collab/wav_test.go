package collab

import (
	"encoding/binary"
	"testing"
)

func TestEncodeWAVHeader(t *testing.T) {
	t.Parallel()

	out := EncodeWAV([]float64{0, 0, 0, 0}, 8000)
	if len(out) != 44+8 {
		t.Fatalf("len = %d, want 52", len(out))
	}

	if string(out[0:4]) != "RIFF" || string(out[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE magic")
	}
	if got := binary.LittleEndian.Uint32(out[4:8]); got != 44 {
		t.Errorf("riff size = %d, want 44", got)
	}
	if string(out[12:16]) != "fmt " {
		t.Error("missing fmt sub-chunk")
	}
	if got := binary.LittleEndian.Uint32(out[16:20]); got != 16 {
		t.Errorf("fmt size = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint16(out[20:22]); got != 1 {
		t.Errorf("audio format = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint16(out[22:24]); got != 1 {
		t.Errorf("channels = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(out[24:28]); got != 8000 {
		t.Errorf("sample rate = %d, want 8000", got)
	}
	if got := binary.LittleEndian.Uint32(out[28:32]); got != 16000 {
		t.Errorf("byte rate = %d, want 16000", got)
	}
	if got := binary.LittleEndian.Uint16(out[32:34]); got != 2 {
		t.Errorf("block align = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint16(out[34:36]); got != 16 {
		t.Errorf("bits per sample = %d, want 16", got)
	}
	if string(out[36:40]) != "data" {
		t.Error("missing data sub-chunk")
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != 8 {
		t.Errorf("data size = %d, want 8", got)
	}
}

func TestEncodeWAVQuantization(t *testing.T) {
	t.Parallel()

	out := EncodeWAV([]float64{0, 0.5, -0.5, 1.0}, 8000)
	want := []int16{0, 16383, -16383, 32767}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(out[44+i*2:]))
		if got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestEncodeWAVClipsOutOfRange(t *testing.T) {
	t.Parallel()

	out := EncodeWAV([]float64{2.0, -3.5}, 8000)
	if got := int16(binary.LittleEndian.Uint16(out[44:])); got != 32767 {
		t.Errorf("clipped high = %d, want 32767", got)
	}
	if got := int16(binary.LittleEndian.Uint16(out[46:])); got != -32767 {
		t.Errorf("clipped low = %d, want -32767", got)
	}
}

func TestEncodeWAVEmpty(t *testing.T) {
	t.Parallel()

	out := EncodeWAV(nil, 44100)
	if len(out) != 44 {
		t.Fatalf("len = %d, want bare 44-byte header", len(out))
	}
	if got := binary.LittleEndian.Uint32(out[4:8]); got != 36 {
		t.Errorf("riff size = %d, want 36", got)
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != 0 {
		t.Errorf("data size = %d, want 0", got)
	}
}
