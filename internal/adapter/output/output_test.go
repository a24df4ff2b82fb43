package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/alerter/internal/config"
	"github.com/jmylchreest/alerter/internal/sim"
)

func testFrames() []sim.Frame {
	return []sim.Frame{
		{
			At:    0,
			Event: sim.EventShow,
			Alert: 1,
			Stack: []sim.AlertState{
				{Alert: 1, Text: "Download complete\nmyfile.zip", Corner: "bottom-right", Y: 0, Opacity: 100, State: "visible"},
			},
		},
		{
			At:     config.Duration(3500 * time.Millisecond),
			Event:  sim.EventClose,
			Alert:  1,
			Reason: "expired",
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]FormatType{"": FormatPlain, "text": FormatPlain, "JSON": FormatJSON, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("dmenu")
	assert.Error(t, err)
}

func TestPlainFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewPlainFormatter(DefaultFormatterOptions())
	require.NoError(t, err)
	require.NoError(t, f.Format(&buf, testFrames()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "show #1")
	assert.Contains(t, lines[1], "bottom-right")
	assert.Contains(t, lines[1], "Download complete myfile.zip")
	assert.Contains(t, lines[2], "3.5s")
	assert.Contains(t, lines[2], "close #1 (expired)")
	assert.Contains(t, lines[3], "(empty)")
}

func TestPlainFormatter_FinalOnly(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultFormatterOptions()
	opts.FinalOnly = true
	f, err := NewPlainFormatter(opts)
	require.NoError(t, err)
	require.NoError(t, f.Format(&buf, testFrames()))

	assert.NotContains(t, buf.String(), "show")
	assert.Contains(t, buf.String(), "expired")
}

func TestPlainFormatter_Truncates(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewPlainFormatter(FormatterOptions{TextWidth: 10})
	require.NoError(t, err)
	require.NoError(t, f.Format(&buf, testFrames()[:1]))
	assert.Contains(t, buf.String(), "Downloa...")
}

func TestPlainFormatter_CustomTemplate(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultFormatterOptions()
	opts.Template = "{{.Index}} {{at .Frame}} {{.Frame.Event}} {{len .Frame.Stack}}\n"
	f, err := NewPlainFormatter(opts)
	require.NoError(t, err)
	require.NoError(t, f.Format(&buf, testFrames()))

	assert.Equal(t, "1 0s show 1\n2 3.5s close 0\n", buf.String())
}

func TestPlainFormatter_InvalidTemplate(t *testing.T) {
	_, err := NewPlainFormatter(FormatterOptions{Template: "{{.Frame"})
	assert.Error(t, err)
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, testFrames()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "3.5s", decoded[1]["at"])
	assert.Equal(t, "expired", decoded[1]["reason"])
	assert.NotContains(t, decoded[0], "reason")

	buf.Reset()
	require.NoError(t, NewJSONFormatter().Format(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter().Format(&buf, testFrames()))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "show", decoded[0]["event"])
	assert.Equal(t, "3.5s", decoded[1]["at"])
}

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter(FormatJSON, DefaultFormatterOptions())
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)

	f, err = NewFormatter(FormatYAML, DefaultFormatterOptions())
	require.NoError(t, err)
	assert.IsType(t, &YAMLFormatter{}, f)

	f, err = NewFormatter(FormatPlain, DefaultFormatterOptions())
	require.NoError(t, err)
	assert.IsType(t, &PlainFormatter{}, f)
}
