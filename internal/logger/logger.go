package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger interface for structured logging
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Fatal(msg string, err error, fields ...interface{})
}

// ZerologLogger implements Logger on top of zerolog
type ZerologLogger struct {
	log zerolog.Logger
}

// New creates a logger writing JSON lines to stderr
func New() Logger {
	return &ZerologLogger{
		log: zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}
}

// NewWithLevel creates a logger with an explicit minimum level ("debug", "info", ...)
func NewWithLevel(level string) Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return &ZerologLogger{
		log: zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger(),
	}
}

// withFields attaches alternating key/value pairs to an event
func withFields(e *zerolog.Event, fields []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, fields[i+1])
	}
	return e
}

// Info logs an info message
func (l *ZerologLogger) Info(msg string, fields ...interface{}) {
	withFields(l.log.Info(), fields).Msg(msg)
}

// Error logs an error message
func (l *ZerologLogger) Error(msg string, err error, fields ...interface{}) {
	withFields(l.log.Error().Err(err), fields).Msg(msg)
}

// Warn logs a warning message
func (l *ZerologLogger) Warn(msg string, fields ...interface{}) {
	withFields(l.log.Warn(), fields).Msg(msg)
}

// Debug logs a debug message
func (l *ZerologLogger) Debug(msg string, fields ...interface{}) {
	withFields(l.log.Debug(), fields).Msg(msg)
}

// Fatal logs a fatal error and exits
func (l *ZerologLogger) Fatal(msg string, err error, fields ...interface{}) {
	withFields(l.log.Fatal().Err(err), fields).Msg(msg)
}
