// Package log builds the process logger. Logs always go to stderr;
// stdout carries command output.
package log

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w, at debug level when verbose.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
