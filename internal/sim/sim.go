// Package sim replays alerts on an in-memory surface against a virtual
// clock and records the stack after every show and close. It backs the
// simulate command.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmylchreest/alerter/internal/alert"
	"github.com/jmylchreest/alerter/internal/clock"
	"github.com/jmylchreest/alerter/internal/config"
	"github.com/jmylchreest/alerter/internal/model"
	"github.com/jmylchreest/alerter/internal/surface/memsurface"
	"github.com/jmylchreest/alerter/internal/theme"
)

// ErrUnknownAlert is returned for indexes that were never shown or are
// already closed.
var ErrUnknownAlert = errors.New("no visible alert with that index")

// Event names recorded in frames.
const (
	EventShow  = "show"
	EventClose = "close"
)

// AlertState is one visible alert in a frame.
type AlertState struct {
	Alert   int    `json:"alert" yaml:"alert"`
	Text    string `json:"text" yaml:"text"`
	Corner  string `json:"corner" yaml:"corner"`
	X       int    `json:"x" yaml:"x"`
	Y       int    `json:"y" yaml:"y"`
	Opacity int    `json:"opacity" yaml:"opacity"`
	State   string `json:"state" yaml:"state"`
}

// Frame is the stack right after one event.
type Frame struct {
	At     config.Duration `json:"at" yaml:"at"`
	Event  string          `json:"event" yaml:"event"`
	Alert  int             `json:"alert" yaml:"alert"`
	Reason string          `json:"reason,omitempty" yaml:"reason,omitempty"`
	Stack  []AlertState    `json:"stack" yaml:"stack"`
}

// Options configures a Simulator. Zero Extent and Margin keep the
// memsurface defaults.
type Options struct {
	Config *config.Config
	Theme  *theme.Theme
	Extent int
	Margin int
	Logger *slog.Logger
}

type closed struct {
	index  int
	reason alert.CloseReason
}

// Simulator drives one alert stack. It is not safe for concurrent use.
type Simulator struct {
	cfg     *config.Config
	theme   *theme.Theme
	clock   *clock.Manual
	surface *memsurface.Surface
	alerter *alert.Alerter

	shown   int
	visible map[int]*alert.Alert
	closed  []closed
	frames  []Frame
}

// New builds a simulator from the configured alert defaults.
func New(opts Options) (*Simulator, error) {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Theme == nil {
		opts.Theme = theme.NewDefaultTheme()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var surfOpts []memsurface.Option
	if opts.Extent > 0 {
		surfOpts = append(surfOpts, memsurface.WithExtent(opts.Extent))
	}
	if opts.Margin > 0 {
		surfOpts = append(surfOpts, memsurface.WithMargin(opts.Margin))
	}

	defaults, err := opts.Config.AlertDefaults(opts.Theme)
	if err != nil {
		return nil, fmt.Errorf("alert defaults: %w", err)
	}

	s := &Simulator{
		cfg:     opts.Config,
		theme:   opts.Theme,
		clock:   clock.NewManual(),
		surface: memsurface.New(surfOpts...),
		visible: make(map[int]*alert.Alert),
	}
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return start.Add(s.clock.Now()) }
	s.alerter = alert.New(s.surface, s.clock, defaults, opts.Logger, alert.WithNow(now))
	return s, nil
}

// Show displays n and returns its 1-based index.
func (s *Simulator) Show(n *model.Notification) (int, error) {
	if err := n.Validate(); err != nil {
		return 0, err
	}
	s.shown++
	index := s.shown

	settings := s.cfg.Settings(n, s.theme)
	settings.OnClose = func(a *alert.Alert) {
		s.closed = append(s.closed, closed{index: index, reason: a.Reason()})
	}
	settings.OnClick = func(a *alert.Alert) { a.Dismiss() }

	a, err := s.alerter.ShowWith(settings)
	if err != nil {
		return 0, err
	}
	s.visible[index] = a
	s.record(EventShow, index, "")
	return index, nil
}

// Close closes the alert at index.
func (s *Simulator) Close(index int) error {
	a, ok := s.visible[index]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAlert, index)
	}
	a.Close()
	s.flush()
	return nil
}

// Click clicks the alert at index, dismissing it.
func (s *Simulator) Click(index int) error {
	a, ok := s.visible[index]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAlert, index)
	}
	a.Element().(*memsurface.Element).Click()
	s.flush()
	return nil
}

// Advance moves the virtual clock forward by d, recording a frame for every
// alert that closes on the way.
func (s *Simulator) Advance(d time.Duration) {
	target := s.clock.Now() + d
	for {
		next, ok := s.clock.Next()
		if !ok || next > target {
			break
		}
		s.clock.Advance(next - s.clock.Now())
		s.flush()
	}
	s.clock.Advance(target - s.clock.Now())
}

// Drain runs timers until none are pending or limit callbacks have run.
// Sticky alerts stay visible.
func (s *Simulator) Drain(limit int) {
	for ran := 0; ran < limit; ran++ {
		next, ok := s.clock.Next()
		if !ok {
			return
		}
		s.clock.Advance(next - s.clock.Now())
		s.flush()
	}
}

// Now returns the elapsed virtual time.
func (s *Simulator) Now() time.Duration { return s.clock.Now() }

// Frames returns the recorded frames in order.
func (s *Simulator) Frames() []Frame { return s.frames }

// Visible returns the number of visible alerts.
func (s *Simulator) Visible() int { return len(s.visible) }

// Snapshot describes the visible alerts in show order.
func (s *Simulator) Snapshot() []AlertState {
	states := make([]AlertState, 0, len(s.visible))
	for index := 1; index <= s.shown; index++ {
		a, ok := s.visible[index]
		if !ok {
			continue
		}
		pos := a.Position()
		states = append(states, AlertState{
			Alert:   index,
			Text:    a.Text(),
			Corner:  pos.Orientation().String(),
			X:       pos.X(),
			Y:       pos.Y(),
			Opacity: a.Opacity(),
			State:   a.State().String(),
		})
	}
	return states
}

// flush records close frames once the stack has been compacted.
func (s *Simulator) flush() {
	pending := s.closed
	s.closed = nil
	for _, c := range pending {
		delete(s.visible, c.index)
	}
	for _, c := range pending {
		s.record(EventClose, c.index, c.reason.String())
	}
}

func (s *Simulator) record(event string, index int, reason string) {
	s.frames = append(s.frames, Frame{
		At:     config.Duration(s.clock.Now()),
		Event:  event,
		Alert:  index,
		Reason: reason,
		Stack:  s.Snapshot(),
	})
}
