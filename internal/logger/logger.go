// Package logger holds the process-wide structured logger backed by zerolog.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var instance = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the logger with the given minimum level. Pretty switches
// to a human-readable console writer for development.
func Init(level string, pretty bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := zerolog.New(os.Stdout)
	if pretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	instance = out.Level(parseLevel(level)).With().Timestamp().Logger()
	return instance
}

// Get returns the process-wide logger.
func Get() *zerolog.Logger {
	return &instance
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
