// Package transcode decodes recorded practice audio into the mono
// float64 PCM the analysis pipeline consumes. It shells out to ffmpeg,
// so any format the local install can read can be reviewed.
package transcode

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"time"

	"github.com/solenne-ai/cadenza/logging"
)

// Config holds the decoder settings
type Config struct {
	FFmpegPath  string        `json:"ffmpeg_path" yaml:"ffmpeg_path"`
	FFprobePath string        `json:"ffprobe_path" yaml:"ffprobe_path"`
	SampleRate  int           `json:"sample_rate" yaml:"sample_rate"`
	MaxDuration time.Duration `json:"max_duration" yaml:"max_duration"` // 0 decodes the whole file
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
}

// DefaultConfig returns decoder defaults matching the live engine rate
func DefaultConfig() Config {
	return Config{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		SampleRate:  44100,
		Timeout:     60 * time.Second,
	}
}

// ClipInfo describes the source file's first audio stream
type ClipInfo struct {
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Codec      string  `json:"codec"`
	Duration   float64 `json:"duration"` // seconds, 0 when the container does not say
	Bitrate    int     `json:"bitrate"`
}

// Clip is a decoded recording, mono at the configured rate
type Clip struct {
	Samples    []float64     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Duration   time.Duration `json:"duration"`
	Codec      string        `json:"codec"`
}

// Decoder turns audio files into analysis-ready clips via ffmpeg. The
// signal is decoded as recorded; level normalization would defeat the
// energy thresholds the classifiers run on.
type Decoder struct {
	cfg    Config
	logger logging.Logger
}

// NewDecoder creates a decoder, filling missing settings from defaults
func NewDecoder(cfg Config, logger logging.Logger) *Decoder {
	def := DefaultConfig()
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = def.FFmpegPath
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = def.FFprobePath
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Decoder{cfg: cfg, logger: logger}
}

// Probe reads the first audio stream's properties without decoding
func (d *Decoder) Probe(ctx context.Context, path string) (*ClipInfo, error) {
	probeCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "a:0",
		path,
	}

	output, err := exec.CommandContext(probeCtx, d.cfg.FFprobePath, args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("probe %s: %w, stderr: %s", path, err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}

	return parseProbeOutput(output)
}

// Decode probes and decodes the whole file into a mono clip
func (d *Decoder) Decode(ctx context.Context, path string) (*Clip, error) {
	info, err := d.Probe(ctx, path)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("decoding practice clip", logging.Fields{
		"path":        path,
		"codec":       info.Codec,
		"sample_rate": info.SampleRate,
		"channels":    info.Channels,
		"duration":    info.Duration,
	})

	decodeCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	args := d.buildDecodeArgs(path)
	output, err := exec.CommandContext(decodeCtx, d.cfg.FFmpegPath, args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("decode %s: %w, stderr: %s", path, err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	samples := samplesFromBytes(output)
	if len(samples) == 0 {
		return nil, fmt.Errorf("decode %s: no audio samples", path)
	}

	duration := time.Duration(len(samples)) * time.Second / time.Duration(d.cfg.SampleRate)
	d.logger.Debug("practice clip decoded", logging.Fields{
		"samples":  len(samples),
		"duration": duration.Seconds(),
	})

	return &Clip{
		Samples:    samples,
		SampleRate: d.cfg.SampleRate,
		Duration:   duration,
		Codec:      info.Codec,
	}, nil
}

// buildDecodeArgs assembles the ffmpeg invocation for one file
func (d *Decoder) buildDecodeArgs(path string) []string {
	args := []string{
		"-v", "error",
		"-i", path,
		"-vn",
		"-map", "0:a:0",
		"-f", "f64le",
		"-ac", "1",
		"-ar", strconv.Itoa(d.cfg.SampleRate),
	}
	if d.cfg.MaxDuration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", d.cfg.MaxDuration.Seconds()))
	}
	return append(args, "pipe:1")
}

// parseProbeOutput extracts the first audio stream from ffprobe JSON
func parseProbeOutput(data []byte) (*ClipInfo, error) {
	var probe struct {
		Streams []struct {
			CodecType  string `json:"codec_type"`
			CodecName  string `json:"codec_name"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
			Duration   string `json:"duration"`
			BitRate    string `json:"bit_rate"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse probe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("no audio streams found")
	}

	stream := probe.Streams[0]
	if stream.CodecType != "audio" {
		return nil, fmt.Errorf("first stream is %s, not audio", stream.CodecType)
	}
	if stream.Channels <= 0 || stream.Channels > 8 {
		return nil, fmt.Errorf("invalid channel count: %d", stream.Channels)
	}

	info := &ClipInfo{
		Channels: stream.Channels,
		Codec:    stream.CodecName,
	}
	// Container metadata is advisory; unreadable numbers degrade to
	// zero values rather than failing the decode.
	info.SampleRate, _ = strconv.Atoi(stream.SampleRate)
	info.Duration, _ = strconv.ParseFloat(stream.Duration, 64)
	info.Bitrate, _ = strconv.Atoi(stream.BitRate)
	return info, nil
}

// samplesFromBytes reinterprets ffmpeg's raw f64le output. A trailing
// partial sample is dropped.
func samplesFromBytes(data []byte) []float64 {
	data = data[:len(data)-len(data)%8]
	if len(data) == 0 {
		return nil
	}

	samples := make([]float64, len(data)/8)
	for i := range samples {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}
	return samples
}
