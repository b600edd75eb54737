// Package logging configures the process-wide zerolog logger. Diagnostics
// go to stdout; logs always go to stderr so piped output stays clean.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger. Quiet raises the threshold to errors only;
// verbose lowers it to debug.
func New(quiet, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case quiet:
		level = zerolog.ErrorLevel
	case verbose:
		level = zerolog.DebugLevel
	}
	return NewWriter(os.Stderr, level)
}

// NewWriter builds a logger against an arbitrary writer, for tests.
func NewWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}
