package log

import (
	"github.com/rs/zerolog"
)

// G is the global logger instance.
var G *Logger

func init() {
	G = New()
}

// SetGlobalLogger replaces the global logger.
func SetGlobalLogger(logger *Logger) {
	G = logger
}

// SetGlobalLevel sets the level of the global logger.
func SetGlobalLevel(level zerolog.Level) {
	G.Logger = G.Logger.Level(level)
}

// Debug returns a debug level log event.
func Debug() *zerolog.Event {
	return G.Debug()
}

// Info returns an info level log event.
func Info() *zerolog.Event {
	return G.Info()
}

// Warn returns a warn level log event.
func Warn() *zerolog.Event {
	return G.Warn()
}

// Error returns an error level log event.
func Error() *zerolog.Event {
	return G.Error()
}

// Fatal returns a fatal level log event.
func Fatal() *zerolog.Event {
	return G.Fatal()
}

// Infof writes a formatted info log.
func Infof(format string, args ...any) {
	G.Info().Msgf(format, args...)
}

// Warnf writes a formatted warn log.
func Warnf(format string, args ...any) {
	G.Warn().Msgf(format, args...)
}

// Errorf writes a formatted error log.
func Errorf(format string, args ...any) {
	G.Error().Msgf(format, args...)
}

// Fatalf writes a formatted fatal log.
func Fatalf(format string, args ...any) {
	G.Fatal().Msgf(format, args...)
}
