package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a structured logger writing to stderr.
// If verbose == true, level = Debug, else Info.
// format "text" selects the key=value handler, anything else JSON.
func NewLogger(verbose bool, format string) *slog.Logger {
	return New(os.Stderr, verbose, format)
}

// New is NewLogger with an explicit destination.
func New(w io.Writer, verbose bool, format string) *slog.Logger {
	level := new(slog.LevelVar)
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}
