// SPDX-License-Identifier: MPL-2.0

// Package logging builds the charmbracelet/log loggers shared by the
// resolver, loader and CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// FormatText is the human-readable default.
	FormatText = "text"
	// FormatJSON emits one JSON object per entry.
	FormatJSON = "json"
	// FormatLogfmt emits key=value pairs.
	FormatLogfmt = "logfmt"
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means warn.
	Level string
	// Format is text, json or logfmt. Empty means text.
	Format string
	// Prefix is printed before every message.
	Prefix string
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// New creates a logger from opts.
func New(opts Options) (*log.Logger, error) {
	level := log.WarnLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var formatter log.Formatter
	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		formatter = log.TextFormatter
	case FormatJSON:
		formatter = log.JSONFormatter
	case FormatLogfmt:
		formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("invalid log format %q (expected text, json or logfmt)", opts.Format)
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	return log.NewWithOptions(w, log.Options{
		Level:     level,
		Formatter: formatter,
		Prefix:    opts.Prefix,
	}), nil
}

// Discard returns a logger that drops everything. Library packages use it
// when the caller does not supply one.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
