// Package logging configures the zerolog logger of the chaincode process.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | console
}

// New builds the process logger. The peer collects chaincode output from
// stderr, so that is where it writes unless w is given.
func New(cfg Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Str("component", "product-passport").
		Logger().
		Level(ParseLevel(cfg.Level))
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
