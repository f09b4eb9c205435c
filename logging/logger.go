// Package logging builds the zerolog logger used across lang_portal.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lang_portal/config"
)

// New creates a logger from cfg. Format "auto" picks console output on a
// terminal and JSON otherwise. The returned close func releases a log file
// opened for a path output and is a no-op for the standard streams.
func New(cfg config.LogConfig) (zerolog.Logger, func() error) {
	level := ParseLevel(cfg.Level)
	out, closeFn := writer(cfg.Output)

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		format = "json"
		if isTerminal(out) {
			format = "console"
		}
	}
	if format == "console" || format == "pretty" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger, closeFn
}

// ParseLevel maps a level name to zerolog, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func noClose() error { return nil }

func writer(output string) (io.Writer, func() error) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr, noClose
	case "stdout":
		return os.Stdout, noClose
	case "discard", "none":
		return io.Discard, noClose
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return os.Stderr, noClose
		}
		return f, f.Close
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
