// Package logging configures the zerolog logger used across tripplan.
//
// Commands log to stderr (console format on a terminal, JSON otherwise).
// The TUI owns the terminal, so it redirects logging to a file with ToFile.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var defaultLogger = newLogger(os.Stderr, levelFromEnv(""))

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(l zerolog.Logger) {
	defaultLogger = l
}

// Configure rebuilds the default stderr logger with the given level name.
// An empty level falls back to LOG_LEVEL. Unset or unknown levels mean warn.
func Configure(level string) {
	defaultLogger = newLogger(os.Stderr, levelFromEnv(level))
}

// ToFile points the default logger at path (JSON lines, appended) and
// returns the file so the caller can close it on exit.
func ToFile(path, level string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	//nolint:gosec // log path is configured by the local user
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defaultLogger = zerolog.New(f).Level(levelFromEnv(level)).With().Timestamp().Logger()
	return f, nil
}

// Nop returns a logger that discards everything.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func newLogger(out *os.File, level zerolog.Level) zerolog.Logger {
	var w io.Writer = out
	if isTerminal(out) && os.Getenv("LOG_FORMAT") != "json" {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func levelFromEnv(level string) zerolog.Level {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level == "" {
		return zerolog.WarnLevel
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return l
}
