package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts rs/zerolog to the Logger interface. Library code
// keeps talking to the facade and never imports zerolog directly.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger creates a structured logger writing to w at info
// level. When pretty is true, output goes through a console writer with
// kitchen timestamps instead of raw JSON.
func NewZerologLogger(w io.Writer, pretty bool) *ZerologLogger {
	if w == nil {
		w = os.Stderr
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	zl := zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

func (z *ZerologLogger) event(e *zerolog.Event, fields ...Fields) *zerolog.Event {
	for _, f := range fields {
		e = e.Fields(map[string]any(f))
	}
	return e
}

func (z *ZerologLogger) Debug(msg string, fields ...Fields) {
	z.event(z.zl.Debug(), fields...).Msg(msg)
}

func (z *ZerologLogger) Info(msg string, fields ...Fields) {
	z.event(z.zl.Info(), fields...).Msg(msg)
}

func (z *ZerologLogger) Warn(msg string, fields ...Fields) {
	z.event(z.zl.Warn(), fields...).Msg(msg)
}

func (z *ZerologLogger) Error(err error, msg string, fields ...Fields) {
	z.event(z.zl.Error().Err(err), fields...).Msg(msg)
}

func (z *ZerologLogger) WithFields(fields Fields) Logger {
	zl := z.zl.With().Fields(map[string]any(fields)).Logger()
	return &ZerologLogger{zl: zl}
}

func (z *ZerologLogger) SetLevel(level Level) {
	switch level {
	case DebugLevel:
		z.zl = z.zl.Level(zerolog.DebugLevel)
	case InfoLevel:
		z.zl = z.zl.Level(zerolog.InfoLevel)
	case WarnLevel:
		z.zl = z.zl.Level(zerolog.WarnLevel)
	case ErrorLevel:
		z.zl = z.zl.Level(zerolog.ErrorLevel)
	}
}
