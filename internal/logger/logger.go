// =============================================================================
// SmartBill - Application Logger
// =============================================================================
//
// Components depend on the small printf-style Logger interface; the
// implementation is backed by zerolog. Console output goes to stderr so that
// receipts printed on stdout stay clean.
//
// =============================================================================

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the logging interface used across the application.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// ZerologAdapter implements Logger on top of a zerolog.Logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerolog creates an adapter writing to writer at the given level.
func NewZerolog(writer io.Writer, level zerolog.Level) *ZerologAdapter {
	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &ZerologAdapter{logger: logger}
}

// NewConsoleLogger creates a human-readable adapter on stderr.
func NewConsoleLogger(level zerolog.Level) *ZerologAdapter {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return NewZerolog(consoleWriter, level)
}

// Options selects the logger output.
type Options struct {
	// Level is "debug", "info", "warn" or "error".
	Level string

	// Verbose forces debug level.
	Verbose bool

	// File receives JSON lines when set; otherwise the console is used.
	File string
}

// New builds a Logger from options. The returned closer releases the log
// file and is never nil.
func New(opts Options) (*ZerologAdapter, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nopCloser{}, err
	}
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	if opts.File == "" {
		return NewConsoleLogger(level), nopCloser{}, nil
	}

	file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewZerolog(file, level), file, nil
}

// ParseLevel maps a configuration level name to a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// With returns a child adapter that tags every entry with a component.
func (z *ZerologAdapter) With(component string) *ZerologAdapter {
	return &ZerologAdapter{logger: z.logger.With().Str("component", component).Logger()}
}

// Component tags log with a component name when it is backed by zerolog.
// Other Logger implementations are returned as they are.
func Component(log Logger, name string) Logger {
	if z, ok := log.(*ZerologAdapter); ok {
		return z.With(name)
	}
	return log
}

func (z *ZerologAdapter) Debug(msg string, args ...interface{}) {
	z.logger.Debug().Msgf(msg, args...)
}

func (z *ZerologAdapter) Info(msg string, args ...interface{}) {
	z.logger.Info().Msgf(msg, args...)
}

func (z *ZerologAdapter) Warn(msg string, args ...interface{}) {
	z.logger.Warn().Msgf(msg, args...)
}

func (z *ZerologAdapter) Error(msg string, args ...interface{}) {
	z.logger.Error().Msgf(msg, args...)
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &ZerologAdapter{logger: zerolog.Nop()}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
