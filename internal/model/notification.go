package model

import (
	"errors"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrEmptyText       = errors.New("notification needs a summary or body")
	ErrNegativeTimeout = errors.New("timeout must not be negative")
)

// Notification is a request to show an alert.
type Notification struct {
	AppName string `json:"app_name" yaml:"app_name"`
	Summary string `json:"summary" yaml:"summary"`
	Body    string `json:"body,omitempty" yaml:"body,omitempty"`
	Urgency int    `json:"urgency" yaml:"urgency"`
	Level   Level  `json:"level,omitempty" yaml:"level,omitempty"`

	// Timeout overrides the configured duration. Zero keeps the default.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// Sticky disables autohide.
	Sticky bool `json:"sticky,omitempty" yaml:"sticky,omitempty"`

	// Position is a corner name such as "top-left"; empty keeps the default.
	Position string `json:"position,omitempty" yaml:"position,omitempty"`

	// ID and Class select theme rules instead of inline styles.
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Class string `json:"class,omitempty" yaml:"class,omitempty"`

	// Foreground and Background override inline colours.
	Foreground string `json:"foreground,omitempty" yaml:"foreground,omitempty"`
	Background string `json:"background,omitempty" yaml:"background,omitempty"`

	// SoundFile overrides the per-urgency sound; SuppressSound disables it.
	SoundFile     string `json:"sound_file,omitempty" yaml:"sound_file,omitempty"`
	SuppressSound bool   `json:"suppress_sound,omitempty" yaml:"suppress_sound,omitempty"`
}

// Validate checks that the notification can be shown.
func (n *Notification) Validate() error {
	if strings.TrimSpace(n.Summary) == "" && strings.TrimSpace(n.Body) == "" {
		return ErrEmptyText
	}
	if n.Urgency < UrgencyLow || n.Urgency > UrgencyCritical {
		return ErrInvalidUrgency
	}
	if n.Timeout < 0 {
		return ErrNegativeTimeout
	}
	return nil
}

// Text returns the alert text: the summary, then the body on the next line.
func (n *Notification) Text() string {
	summary := strings.TrimSpace(n.Summary)
	body := strings.TrimSpace(n.Body)
	switch {
	case summary == "":
		return body
	case body == "":
		return summary
	default:
		return summary + "\n" + body
	}
}

// Classes returns the class list for the notification: the explicit class
// followed by the level, deduplicated.
func (n *Notification) Classes() string {
	classes := strings.Fields(n.Class)
	if n.Level != LevelNone {
		found := false
		for _, c := range classes {
			if c == string(n.Level) {
				found = true
				break
			}
		}
		if !found {
			classes = append(classes, string(n.Level))
		}
	}
	return strings.Join(classes, " ")
}
