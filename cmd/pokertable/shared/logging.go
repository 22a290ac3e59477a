package shared

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel returns the named zerolog level, falling back to info. debug
// overrides the name.
func ParseLevel(name string, debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}
	return level
}

// NewLogger returns the server logger writing to stderr: one JSON object per
// line when structured is set, otherwise the console format.
func NewLogger(level zerolog.Level, structured bool) zerolog.Logger {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	if structured {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		out = os.Stderr
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
