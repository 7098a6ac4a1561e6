// Package logging builds the charmbracelet loggers used across mathblocks.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New returns a timestamped logger writing to stderr with the given prefix.
// The level is taken from level ("debug", "info", "warn", "error"); unknown
// values fall back to info.
func New(prefix, level string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, prefix, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
