package capture

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/solenne-ai/cadenza/algorithms/filters"
	"github.com/solenne-ai/cadenza/audio"
	"github.com/solenne-ai/cadenza/logging"
)

// Config holds microphone stream parameters
type Config struct {
	SampleRate int `json:"sample_rate" yaml:"sample_rate"`
	Channels   int `json:"channels" yaml:"channels"`
	BufferSize int `json:"buffer_size" yaml:"buffer_size"`
}

// DefaultConfig returns mono 44.1kHz capture with a 1024-sample buffer
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		Channels:   1,
		BufferSize: 1024,
	}
}

// Microphone streams the default input device into a FrameSource.
// The portaudio callback runs on its own thread; samples are downmixed
// to mono float64, DC-blocked, and pushed without blocking. The filter
// state is only touched from the callback thread.
type Microphone struct {
	config Config
	source *audio.FrameSource
	dc     *filters.DCBlocker
	logger logging.Logger

	mu      sync.Mutex
	stream  *portaudio.Stream
	running bool
}

// NewMicrophone creates a microphone feeding the given source
func NewMicrophone(config Config, source *audio.FrameSource) *Microphone {
	if config.SampleRate <= 0 {
		config.SampleRate = 44100
	}
	if config.Channels <= 0 {
		config.Channels = 1
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 1024
	}
	return &Microphone{
		config: config,
		source: source,
		dc:     filters.NewDCBlocker(),
		logger: logging.GetGlobalLogger().WithFields(logging.Fields{"component": "capture"}),
	}
}

// Start initializes portaudio and begins streaming input
func (m *Microphone) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("capture already running")
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}

	m.dc.Reset()

	stream, err := portaudio.OpenDefaultStream(
		m.config.Channels,
		0,
		float64(m.config.SampleRate),
		m.config.BufferSize,
		m.onInput,
	)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open input stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start input stream: %w", err)
	}

	m.stream = stream
	m.running = true
	m.logger.Info("microphone capture started", logging.Fields{
		"sample_rate": m.config.SampleRate,
		"channels":    m.config.Channels,
		"buffer_size": m.config.BufferSize,
	})
	return nil
}

// onInput converts the callback buffer to mono float64, removes any DC
// offset, and pushes the result
func (m *Microphone) onInput(in []float32) {
	channels := m.config.Channels
	if channels <= 1 {
		samples := make([]float64, len(in))
		for i, v := range in {
			samples[i] = float64(v)
		}
		m.source.Push(m.dc.ProcessBuffer(samples))
		return
	}

	// Downmix interleaved channels by averaging
	frames := len(in) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(in[i*channels+c])
		}
		samples[i] = sum / float64(channels)
	}
	m.source.Push(m.dc.ProcessBuffer(samples))
}

// Stop halts the stream and releases portaudio
func (m *Microphone) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}
	m.running = false

	var firstErr error
	if err := m.stream.Stop(); err != nil {
		firstErr = fmt.Errorf("stop input stream: %w", err)
	}
	if err := m.stream.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close input stream: %w", err)
	}
	m.stream = nil

	if err := portaudio.Terminate(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("terminate portaudio: %w", err)
	}

	m.logger.Info("microphone capture stopped")
	return firstErr
}

// Running reports whether the stream is active
func (m *Microphone) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
