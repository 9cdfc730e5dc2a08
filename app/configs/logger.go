package configs

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger writes human-readable output in development and JSON lines
// everywhere else.
func NewLogger(env ENV) zerolog.Logger {
	var out io.Writer = os.Stderr
	level := zerolog.InfoLevel

	if !env.IsProduction() {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", env.AppName).
		Logger()
}
