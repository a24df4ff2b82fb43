package alert

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"
	"unicode"

	"github.com/jmylchreest/alerter/internal/fade"
	"github.com/jmylchreest/alerter/internal/stack"
	"github.com/jmylchreest/alerter/internal/surface"
)

// Defaults for alerts built without explicit settings.
const (
	DefaultText     = "Default Alert Text"
	DefaultDuration = 3 * time.Second
)

var (
	ErrInvalidOrientation = errors.New("invalid alert orientation")
	ErrInvalidID          = errors.New("invalid alert id")
)

// DefaultStyles returns the inline style map used when no id, class or
// styles are given.
func DefaultStyles() map[string]string {
	return map[string]string{
		"height":          "50px",
		"backgroundColor": "#A200FF",
		"color":           "#FFFFFF",
		"fontFamily":      "Segoe UI",
		"fontSize":        "13px",
		"margin":          "15px",
		"padding":         "5px",
		"minWidth":        "250px",
	}
}

// Presentation, Inline and Identified are the surface styling forms.
type (
	Presentation = surface.Presentation
	Inline       = surface.Inline
	Identified   = surface.Identified
)

// Options is a fully resolved alert configuration.
type Options struct {
	Text         string
	Presentation Presentation
	Duration     time.Duration
	Fade         fade.Config
	Orientation  stack.Orientation
	Autohide     bool
	OnClick      func(*Alert)
	OnClose      func(*Alert)
}

// DefaultOptions returns the built-in defaults: bottom-right, 3s autohide,
// fading 5% every 25ms.
func DefaultOptions() Options {
	return Options{
		Text:         DefaultText,
		Presentation: Inline{Styles: DefaultStyles()},
		Duration:     DefaultDuration,
		Fade:         fade.Config{Step: fade.DefaultStep, Speed: fade.DefaultSpeed},
		Orientation:  stack.BottomRight,
		Autohide:     true,
	}
}

// normalize fills unset numeric fields and coerces out-of-range ones.
func (o Options) normalize() Options {
	if o.Presentation == nil {
		o.Presentation = Inline{Styles: DefaultStyles()}
	}
	if o.Duration <= 0 {
		o.Duration = DefaultDuration
	}
	if o.Fade.Step <= 0 {
		o.Fade.Step = fade.DefaultStep
	}
	if o.Fade.Step > 100 {
		o.Fade.Step = 100
	}
	if o.Fade.Speed <= 0 {
		o.Fade.Speed = fade.DefaultSpeed
	}
	return o
}

// Settings are caller-supplied overrides. Zero values keep the default.
type Settings struct {
	Text string

	// ID and Class select external styling; when either is set Styles is ignored.
	ID    string
	Class string
	// Styles replaces the default inline style map when non-nil.
	Styles map[string]string

	// Duration before the fade starts. Negative values use 3s.
	Duration time.Duration
	// FadeStep is the opacity decrement per tick in percent.
	FadeStep int
	// FadeSpeed is the delay between fade ticks.
	FadeSpeed time.Duration

	XOrientation string // "left" or "right"
	YOrientation string // "top" or "bottom"

	Autohide *bool

	OnClick func(*Alert)
	OnClose func(*Alert)
}

// Bool returns a pointer to b, for Settings.Autohide.
func Bool(b bool) *bool { return &b }

// Resolve merges s over defaults. Invalid orientations and ids are errors;
// out-of-range timings are coerced and logged at debug level.
func (s Settings) Resolve(defaults Options, logger *slog.Logger) (Options, error) {
	if logger == nil {
		logger = slog.Default()
	}
	o := defaults

	if s.Text != "" {
		o.Text = s.Text
	}

	switch {
	case s.ID != "" || s.Class != "":
		if strings.IndexFunc(s.ID, unicode.IsSpace) >= 0 {
			return Options{}, fmt.Errorf("%w: %q contains whitespace", ErrInvalidID, s.ID)
		}
		o.Presentation = Identified{ID: s.ID, Class: strings.Join(strings.Fields(s.Class), " ")}
	case s.Styles != nil:
		o.Presentation = Inline{Styles: maps.Clone(s.Styles)}
	}

	if s.Duration != 0 {
		o.Duration = s.Duration
	}
	if o.Duration <= 0 {
		logger.Debug("alert duration not positive, using default", "duration", o.Duration)
		o.Duration = DefaultDuration
	}

	if s.FadeStep != 0 {
		o.Fade.Step = s.FadeStep
	}
	if o.Fade.Step <= 0 {
		logger.Debug("fade step not positive, using default", "step", o.Fade.Step)
		o.Fade.Step = fade.DefaultStep
	}
	if o.Fade.Step > 100 {
		o.Fade.Step = 100
	}

	if s.FadeSpeed != 0 {
		o.Fade.Speed = s.FadeSpeed
	}
	if o.Fade.Speed <= 0 {
		logger.Debug("fade speed not positive, using default", "speed", o.Fade.Speed)
		o.Fade.Speed = fade.DefaultSpeed
	}

	if s.XOrientation != "" || s.YOrientation != "" {
		x, y := s.XOrientation, s.YOrientation
		if x == "" {
			x = defaults.Orientation.XName()
		}
		if y == "" {
			y = defaults.Orientation.YName()
		}
		orientation, err := stack.NewOrientation(x, y)
		if err != nil {
			return Options{}, fmt.Errorf("%w: %w", ErrInvalidOrientation, err)
		}
		o.Orientation = orientation
	}

	if s.Autohide != nil {
		o.Autohide = *s.Autohide
	}
	if s.OnClick != nil {
		o.OnClick = s.OnClick
	}
	if s.OnClose != nil {
		o.OnClose = s.OnClose
	}

	return o, nil
}
