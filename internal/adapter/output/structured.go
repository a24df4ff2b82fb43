package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/alerter/internal/sim"
)

// JSONFormatter formats frames as a JSON array.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes frames as an indented JSON array.
func (f *JSONFormatter) Format(w io.Writer, frames []sim.Frame) error {
	if frames == nil {
		frames = []sim.Frame{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(frames)
}

// YAMLFormatter formats frames as a YAML sequence.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format writes frames as a YAML document.
func (f *YAMLFormatter) Format(w io.Writer, frames []sim.Frame) error {
	if frames == nil {
		frames = []sim.Frame{}
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(frames); err != nil {
		return err
	}
	return encoder.Close()
}
