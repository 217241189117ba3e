// Package logger provides structured logging for proptree
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nainya/proptree/pkg/property"
)

// Logger wraps zerolog with proptree-specific functionality
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Pretty     bool   // pretty-print for development
	Output     io.Writer
	WithCaller bool
}

// ParseLevel maps a level name to zerolog, defaulting to info
func ParseLevel(name string) zerolog.Level {
	switch name {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	}
	return zerolog.InfoLevel
}

// NewLogger creates a new structured logger
func NewLogger(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	// Pretty printing for development
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "proptree").
		Logger()

	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// GetZerolog returns the underlying zerolog logger
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}

// Info logs an info message
func (l *Logger) Info(msg string) *zerolog.Event {
	return l.zlog.Info().Str("msg", msg)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) *zerolog.Event {
	return l.zlog.Debug().Str("msg", msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) *zerolog.Event {
	return l.zlog.Warn().Str("msg", msg)
}

// Error logs an error message
func (l *Logger) Error(msg string) *zerolog.Event {
	return l.zlog.Error().Str("msg", msg)
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// TreeLogger returns a logger for events of one named tree
func (l *Logger) TreeLogger(name string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "tree").
			Str("tree", name).
			Logger(),
	}
}

// CodecLogger returns a logger for one wire codec
func (l *Logger) CodecLogger(codec string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "codec").
			Str("codec", codec).
			Logger(),
	}
}

// LogTreeEvent logs a property event at debug level
func (l *Logger) LogTreeEvent(ev property.Event) {
	event := l.zlog.Debug().
		Str("kind", ev.Kind.String()).
		Str("path", ev.Path.String())

	switch ev.Kind {
	case property.PropertyValueChanged:
		event = event.
			Str("old", ev.OldValue.String()).
			Str("new", ev.NewValue.String()).
			Str("type", ev.NewValue.Type().String())
	case property.PropertyIndexChanged:
		event = event.
			Int("old_index", ev.OldIndex).
			Int("new_index", ev.NewIndex)
	}

	event.Msg("Tree changed")
}

// EventListener returns a listener that logs every event it receives
func (l *Logger) EventListener() property.Listener {
	return l.LogTreeEvent
}

// LogDiff logs the outcome of a tree comparison
func (l *Logger) LogDiff(from, to string, d property.Difference, duration time.Duration) {
	l.zlog.Info().
		Str("component", "diff").
		Str("from", from).
		Str("to", to).
		Int("added", len(d.Added)).
		Int("removed", len(d.Removed)).
		Int("modified", len(d.Modified)).
		Dur("duration_ms", duration).
		Msg("Diff completed")
}

// LogCodec logs an encode or decode with structured fields
func (l *Logger) LogCodec(codec, op string, duration time.Duration, size int, err error) {
	event := l.zlog.Debug().
		Str("component", "codec").
		Str("codec", codec).
		Str("op", op).
		Dur("duration_ms", duration).
		Int("bytes", size)

	if err != nil {
		event = l.zlog.Error().
			Str("component", "codec").
			Str("codec", codec).
			Str("op", op).
			Dur("duration_ms", duration).
			Err(err)
	}

	event.Msg("Codec operation completed")
}

// LogServerStart logs server startup
func (l *Logger) LogServerStart(addr string, properties int) {
	l.zlog.Info().
		Str("event", "server_start").
		Str("addr", addr).
		Int("properties", properties).
		Msg("proptree diagnostic server starting")
}

// LogServerShutdown logs server shutdown
func (l *Logger) LogServerShutdown() {
	l.zlog.Info().
		Str("event", "server_shutdown").
		Msg("proptree diagnostic server shutting down")
}

// Global logger instance
var globalLogger *Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(cfg Config) {
	globalLogger = NewLogger(cfg)
	log.Logger = *globalLogger.GetZerolog()
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		// Initialize with defaults if not set
		InitGlobalLogger(Config{
			Level:  "info",
			Pretty: true,
		})
	}
	return globalLogger
}
