package input

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/alerter/internal/config"
	"github.com/jmylchreest/alerter/internal/model"
)

// maxInputSize bounds how much is read from one source.
const maxInputSize = 10 * 1024 * 1024

// ReaderImporter reads notifications from an io.Reader.
//
// Accepted formats:
//  1. a JSON array of notifications
//  2. a stream of JSON objects, e.g. one per line
//  3. YAML: one notification, a list of them, or several documents
//  4. a bare string, used as the summary
type ReaderImporter struct {
	name   string
	reader io.Reader
}

// NewStdinImporter creates an importer reading os.Stdin.
func NewStdinImporter() *ReaderImporter {
	return &ReaderImporter{name: "stdin", reader: os.Stdin}
}

// NewReaderImporter creates an importer reading r.
func NewReaderImporter(name string, r io.Reader) *ReaderImporter {
	return &ReaderImporter{name: name, reader: r}
}

// Name returns the source identifier.
func (a *ReaderImporter) Name() string {
	return a.name
}

// Import reads and validates every notification. An empty source yields
// no notifications.
func (a *ReaderImporter) Import(ctx context.Context) ([]model.Notification, error) {
	scanner := bufio.NewScanner(a.reader)
	scanner.Buffer(make([]byte, 64*1024), maxInputSize)

	var data []byte
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data = append(data, scanner.Bytes()...)
		data = append(data, '\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, &AdapterError{Source: a.name, Message: "failed to read input", Err: err}
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var (
		entries []entry
		err     error
	)
	switch data[0] {
	case '[':
		err = json.Unmarshal(data, &entries)
	case '{':
		entries, err = decodeJSONStream(data)
	default:
		entries, err = decodeYAML(data)
	}
	if err != nil {
		return nil, &AdapterError{Source: a.name, Message: "failed to parse input", Err: err}
	}

	notifications := make([]model.Notification, 0, len(entries))
	for i, e := range entries {
		n := e.notification()
		if err := n.Validate(); err != nil {
			return nil, &AdapterError{Source: a.name, Message: fmt.Sprintf("notification %d", i+1), Err: err}
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

func decodeJSONStream(data []byte) ([]entry, error) {
	var entries []entry
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var e entry
		if err := dec.Decode(&e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func decodeYAML(data []byte) ([]entry, error) {
	var entries []entry
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			return nil, err
		}
		if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
			continue
		}

		root := doc.Content[0]
		switch root.Kind {
		case yaml.SequenceNode:
			var batch []entry
			if err := root.Decode(&batch); err != nil {
				return nil, err
			}
			entries = append(entries, batch...)
		case yaml.ScalarNode:
			entries = append(entries, entry{Summary: root.Value})
		default:
			var e entry
			if err := root.Decode(&e); err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
	}
}

// entry is the on-disk form of a notification.
type entry struct {
	AppName       string          `json:"app_name" yaml:"app_name"`
	Summary       string          `json:"summary" yaml:"summary"`
	Body          string          `json:"body" yaml:"body"`
	Urgency       urgency         `json:"urgency" yaml:"urgency"`
	Level         string          `json:"level" yaml:"level"`
	Timeout       config.Duration `json:"timeout" yaml:"timeout"`
	Sticky        bool            `json:"sticky" yaml:"sticky"`
	Position      string          `json:"position" yaml:"position"`
	ID            string          `json:"id" yaml:"id"`
	Class         string          `json:"class" yaml:"class"`
	Foreground    string          `json:"foreground" yaml:"foreground"`
	Background    string          `json:"background" yaml:"background"`
	SoundFile     string          `json:"sound_file" yaml:"sound_file"`
	SuppressSound bool            `json:"suppress_sound" yaml:"suppress_sound"`
}

func (e entry) notification() model.Notification {
	level, err := model.ParseLevel(e.Level)
	if err != nil {
		level = model.LevelNone
	}
	return model.Notification{
		AppName:       sanitizeString(e.AppName),
		Summary:       sanitizeString(e.Summary),
		Body:          sanitizeString(e.Body),
		Urgency:       e.Urgency.level(),
		Level:         level,
		Timeout:       e.Timeout.Duration(),
		Sticky:        e.Sticky,
		Position:      strings.TrimSpace(e.Position),
		ID:            strings.TrimSpace(e.ID),
		Class:         strings.TrimSpace(e.Class),
		Foreground:    e.Foreground,
		Background:    e.Background,
		SoundFile:     e.SoundFile,
		SuppressSound: e.SuppressSound,
	}
}

// urgency accepts a level number or name. Unset means normal.
type urgency struct {
	set   bool
	value int
}

func (u urgency) level() int {
	if !u.set {
		return model.UrgencyNormal
	}
	return u.value
}

func (u *urgency) parse(s string) error {
	level, err := model.ParseUrgency(s)
	if err != nil {
		return err
	}
	*u = urgency{set: true, value: level}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *urgency) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	return u.parse(strings.Trim(string(data), `"`))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (u *urgency) UnmarshalYAML(value *yaml.Node) error {
	return u.parse(value.Value)
}

// sanitizeString replaces control characters other than newline and tab.
func sanitizeString(s string) string {
	var result strings.Builder
	for _, r := range s {
		if r < 32 && r != '\n' && r != '\t' {
			result.WriteRune(' ')
		} else {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}
