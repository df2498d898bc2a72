// Package log builds the slog handlers used by the command-line tools. Core
// pipeline packages never log; the CLI and the build cache receive a
// *slog.Logger constructed here from the --log-level/--log-format flags.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects the record encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatPretty
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatPretty:
		return "pretty"
	default:
		return "text"
	}
}

// ParseFormat parses a format name. Valid names are "text", "json", and
// "pretty".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "pretty":
		return FormatPretty, nil
	default:
		return FormatText, fmt.Errorf("unknown log format %q (valid: text, json, pretty)", s)
	}
}

// ParseLevel parses a level name as understood by slog ("debug", "info",
// "warn", "error", optionally with a +N/-N offset).
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", s)
	}
	return l, nil
}

// Config carries the handler settings the CLI resolves from its flags.
type Config struct {
	Level  slog.Level
	Format Format

	// Color applies to the pretty format only; text and json are always
	// plain so they stay machine-readable.
	Color bool
}

// New returns a logger writing records to w per cfg.
func New(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	switch cfg.Format {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts))
	case FormatPretty:
		return slog.New(newPrettyHandler(w, cfg.Level, cfg.Color))
	default:
		return slog.New(slog.NewTextHandler(w, opts))
	}
}
