// Package model defines the notification request that alerts are built from,
// independent of where it came from (D-Bus, the CLI or the demo TUI).
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Urgency levels matching the freedesktop notification spec.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// UrgencyNames maps urgency levels to human-readable names.
var UrgencyNames = map[int]string{
	UrgencyLow:      "low",
	UrgencyNormal:   "normal",
	UrgencyCritical: "critical",
}

// ErrInvalidUrgency is returned for urgency names or levels out of range.
var ErrInvalidUrgency = errors.New("urgency must be low, normal or critical")

// ParseUrgency accepts a name ("low", "normal", "critical") or a level ("0".."2").
func ParseUrgency(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for level, name := range UrgencyNames {
		if s == name || s == fmt.Sprint(level) {
			return level, nil
		}
	}
	return UrgencyNormal, fmt.Errorf("%w: %q", ErrInvalidUrgency, s)
}

// UrgencyName returns the name for level, defaulting to "normal".
func UrgencyName(level int) string {
	if name, ok := UrgencyNames[level]; ok {
		return name
	}
	return UrgencyNames[UrgencyNormal]
}

// Level is a presentation category. Levels map to theme classes of the
// same name.
type Level string

const (
	LevelNone    Level = ""
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Levels lists the named levels.
func Levels() []Level {
	return []Level{LevelInfo, LevelSuccess, LevelWarning, LevelError}
}

// ParseLevel accepts a level name; the empty string is LevelNone.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if l == LevelNone {
		return l, nil
	}
	for _, known := range Levels() {
		if l == known {
			return l, nil
		}
	}
	return LevelNone, fmt.Errorf("unknown level %q", s)
}
