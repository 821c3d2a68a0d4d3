// Package logging builds the zerolog loggers used by roster.
//
// The browser owns the terminal, so it logs JSON lines to a file under the
// data directory. One-shot commands log to stderr through a console writer.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Options selects where and how much to log.
type Options struct {
	// Level is a zerolog level name. Unknown or empty values mean info.
	Level string
	// Path, when set, receives JSON log lines. Parent directories are created.
	Path string
	// Console adds a human-readable writer on Console.
	Console io.Writer
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// New returns a logger for opts and a closer for any file it opened.
// With neither a path nor a console writer the logger is disabled.
func New(opts Options) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }

	var writers []io.Writer
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opts.Console,
			TimeFormat: time.RFC3339,
			NoColor:    !isTerminal(opts.Console),
		})
	}

	closer := noop
	if path := strings.TrimSpace(opts.Path); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("create log dir: %w", err)
		}
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, file)
		closer = file.Close
	}

	if len(writers) == 0 {
		return zerolog.Nop(), noop, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()
	return logger, closer, nil
}

// isTerminal reports whether w is a terminal. Pipes, files and buffers get
// plain text.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
