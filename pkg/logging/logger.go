// Package logging provides a zerolog-backed logger and a render logger that
// writes engine events through it.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	styles "github.com/goliatone/go-styles"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
}

// Logger wraps zerolog with the small API the engine tooling needs.
type Logger struct {
	base zerolog.Logger
}

// New creates a Logger from opts. An empty level means info.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	var output io.Writer = writer
	if opts.HumanReadable {
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		output = console
	}

	return &Logger{base: zerolog.New(output).Level(level).With().Timestamp().Logger()}, nil
}

// WithFields returns a derived logger that always writes the supplied fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}
	builder := l.base.With()
	for key, value := range fields {
		builder = builder.Interface(key, value)
	}
	return &Logger{base: builder.Logger()}
}

// Zerolog exposes the underlying logger.
func (l *Logger) Zerolog() zerolog.Logger {
	if l == nil {
		return zerolog.Nop()
	}
	return l.base
}

// Info writes an informational entry.
func (l *Logger) Info(msg string) {
	if l == nil {
		return
	}
	l.base.Info().Msg(msg)
}

// Debug writes a debug entry.
func (l *Logger) Debug(msg string) {
	if l == nil {
		return
	}
	l.base.Debug().Msg(msg)
}

// Error writes an error entry including err.
func (l *Logger) Error(err error, msg string) {
	if l == nil {
		return
	}
	event := l.base.Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(msg)
}

// RenderLogger writes engine render events. Hits and misses log at debug,
// flushes at info and failures at error.
type RenderLogger struct {
	logger *Logger
}

// NewRenderLogger adapts logger to styles.RenderLogger.
func NewRenderLogger(logger *Logger) *RenderLogger {
	return &RenderLogger{logger: logger}
}

var _ styles.RenderLogger = (*RenderLogger)(nil)

// LogRender implements styles.RenderLogger.
func (r *RenderLogger) LogRender(event styles.RenderLogEvent) {
	if r == nil || r.logger == nil {
		return
	}
	base := r.logger.base

	var entry *zerolog.Event
	switch {
	case event.Err != nil:
		entry = base.Error().Err(event.Err)
	case event.Flushed:
		entry = base.Info()
	default:
		entry = base.Debug()
	}
	entry = entry.
		Str("engine", event.Engine).
		Int("styles", event.Styles).
		Int("zones", event.Zones).
		Bool("hit", event.Hit).
		Int("entries", event.Entries).
		Dur("duration", event.Duration)
	if event.Flushed {
		entry = entry.Bool("flushed", true)
	}
	if event.ActivityErr != nil {
		entry = entry.AnErr("activity_error", event.ActivityErr)
	}

	switch {
	case event.Err != nil:
		entry.Msg("render failed")
	case event.Flushed:
		entry.Msg("render cache flushed")
	default:
		entry.Msg("render")
	}
}
