// Package output provides output formatters for simulated alert timelines.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/alerter/internal/sim"
)

// Formatter formats simulation frames for output.
type Formatter interface {
	// Format writes formatted frames to the writer.
	Format(w io.Writer, frames []sim.Frame) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (FormatType, error) {
	switch f := FormatType(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPlain, FormatJSON, FormatYAML:
		return f, nil
	case "", "text":
		return FormatPlain, nil
	default:
		return "", fmt.Errorf("unknown output format %q (plain, json, yaml)", s)
	}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) (Formatter, error) {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatYAML:
		return NewYAMLFormatter(), nil
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures the plain formatter.
type FormatterOptions struct {
	Template  string // Go template executed per frame
	FinalOnly bool   // only print the last frame
	TextWidth int    // truncate alert text (0 = unlimited)
}

// DefaultFormatterOptions returns sensible defaults for terminal output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{TextWidth: 40}
}
