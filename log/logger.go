package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps a zerolog.Logger together with the closer of its writer.
type Logger struct {
	zerolog.Logger
	closer io.Closer
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
}

// Close releases the underlying writer, if any.
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// newLogger builds a Logger on top of the given writer.
func newLogger(w io.Writer) *Logger {
	return &Logger{
		Logger: zerolog.New(w).With().Timestamp().Logger(),
	}
}

// New creates a Logger writing human-readable output to the console.
func New() *Logger {
	return newLogger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})
}

// NewFile creates a Logger writing JSON lines to a size-rotated file.
func NewFile(c FileConfig) *Logger {
	c.applyDefaults()

	w := &lumberjack.Logger{
		Filename:   c.Filename,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}

	logger := newLogger(w)
	logger.closer = w
	return logger
}

// NewMulti creates a Logger writing to both the console and a rotated file.
func NewMulti(c FileConfig) *Logger {
	c.applyDefaults()

	fw := &lumberjack.Logger{
		Filename:   c.Filename,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}

	multi := zerolog.MultiLevelWriter(
		fw,
		zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime},
	)

	logger := newLogger(multi)
	logger.closer = fw
	return logger
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}
