// Package logging builds the diagnostic logger handed to extraction calls.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a human-readable debug logger on w when debug is set and a
// disabled logger otherwise.
func New(w io.Writer, debug bool) zerolog.Logger {
	if !debug || w == nil {
		return zerolog.Nop()
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	return zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}
