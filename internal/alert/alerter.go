package alert

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/alerter/internal/clock"
	"github.com/jmylchreest/alerter/internal/stack"
	"github.com/jmylchreest/alerter/internal/surface"
)

// Alerter is a stacking context: it owns the registry of visible alerts for
// one surface. Create one per surface; it is not safe for concurrent use, so
// callers post work onto the loop the scheduler delivers callbacks on.
type Alerter struct {
	surface   surface.Surface
	sched     clock.Scheduler
	positions *stack.PositionList
	defaults  Options
	logger    *slog.Logger
	now       func() time.Time

	alerts []*Alert
}

// Option configures an Alerter.
type Option func(*Alerter)

// WithNow overrides the wall clock used for ShownAt.
func WithNow(now func() time.Time) Option {
	return func(a *Alerter) { a.now = now }
}

// New creates a stacking context on surf.
func New(surf surface.Surface, sched clock.Scheduler, defaults Options, logger *slog.Logger, opts ...Option) *Alerter {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Alerter{
		surface:   surf,
		sched:     sched,
		positions: stack.NewPositionList(),
		defaults:  defaults.normalize(),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Show displays text with the default options.
func (a *Alerter) Show(text string) (*Alert, error) {
	return a.ShowWith(Settings{Text: text})
}

// ShowWith displays an alert configured by s. Invalid settings are logged
// and returned without anything being shown.
func (a *Alerter) ShowWith(s Settings) (*Alert, error) {
	opts, err := s.Resolve(a.defaults, a.logger)
	if err != nil {
		a.logger.Warn("invalid alert settings", "error", err)
		return nil, err
	}

	id, err := ulid.New(ulid.Timestamp(a.now()), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating alert id: %w", err)
	}

	el := a.surface.NewElement(surface.ElementSpec{
		Text:         opts.Text,
		Presentation: opts.Presentation,
	})
	al := &Alert{
		id:       id,
		owner:    a,
		opts:     opts,
		element:  el,
		position: stack.NewPosition(el, opts.Orientation),
		state:    StateBuilding,
	}

	if err := al.show(); err != nil {
		a.logger.Warn("failed to show alert", "id", id, "error", err)
		return nil, err
	}
	a.alerts = append(a.alerts, al)
	return al, nil
}

func (a *Alerter) forget(al *Alert) {
	a.alerts = slices.DeleteFunc(a.alerts, func(x *Alert) bool { return x == al })
}

// Visible returns the shown alerts in show order.
func (a *Alerter) Visible() []*Alert {
	return slices.Clone(a.alerts)
}

// Len returns the number of shown alerts.
func (a *Alerter) Len() int { return len(a.alerts) }

// Find returns the shown alert with the given id.
func (a *Alerter) Find(id ulid.ULID) (*Alert, bool) {
	for _, al := range a.alerts {
		if al.id == id {
			return al, true
		}
	}
	return nil, false
}

// Newest returns the most recently shown alert.
func (a *Alerter) Newest() (*Alert, bool) {
	if len(a.alerts) == 0 {
		return nil, false
	}
	return a.alerts[len(a.alerts)-1], true
}

// CloseAll hides every shown alert, newest first.
func (a *Alerter) CloseAll() {
	for i := len(a.alerts) - 1; i >= 0; i-- {
		if i < len(a.alerts) {
			a.alerts[i].Close()
		}
	}
}

// Positions returns the stacking registry.
func (a *Alerter) Positions() *stack.PositionList { return a.positions }

// Defaults returns the options applied to new alerts.
func (a *Alerter) Defaults() Options { return a.defaults }

// SetDefaults replaces the options for alerts shown from now on.
func (a *Alerter) SetDefaults(o Options) {
	a.defaults = o.normalize()
}
