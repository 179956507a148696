// Package logging configures the progress logger. All progress goes to
// stderr; stdout is reserved for the JSON result object.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New creates the structured logger used across a single invocation.
// Quiet mode keeps errors only.
func New(quiet bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if quiet {
		level = zerolog.ErrorLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr}

	return zerolog.New(writer).With().Timestamp().Logger().Level(level)
}
