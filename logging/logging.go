// Package logging is the structured logging facade shared by every
// package in the module. Library code talks to the Logger interface
// and the binary picks the backend once at startup.
package logging

import "os"

// Fields carries structured key/value pairs attached to a log entry.
type Fields map[string]any

// Level is the minimum severity a logger emits.
type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Logger is the logging surface library code depends on.
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)

	// WithFields returns a logger whose entries all carry fields.
	WithFields(fields Fields) Logger

	// SetLevel drops entries below level.
	SetLevel(level Level)
}

var globalLogger Logger = NewZerologLogger(os.Stderr, true)

// SetGlobalLogger installs the process-wide logger. A nil logger
// silences everything.
func SetGlobalLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	globalLogger = logger
}

// GetGlobalLogger returns the process-wide logger. Components fall back
// to it when constructed without one.
func GetGlobalLogger() Logger {
	return globalLogger
}

// NopLogger discards every entry.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Fields)        {}
func (NopLogger) Info(string, ...Fields)         {}
func (NopLogger) Warn(string, ...Fields)         {}
func (NopLogger) Error(error, string, ...Fields) {}
func (n NopLogger) WithFields(Fields) Logger     { return n }
func (NopLogger) SetLevel(Level)                 {}
