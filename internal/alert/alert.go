// Package alert implements toast alerts: building an element, stacking it in
// its screen corner, hiding it after a delay with a fade, and compacting the
// stack when it leaves.
package alert

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/alerter/internal/fade"
	"github.com/jmylchreest/alerter/internal/stack"
	"github.com/jmylchreest/alerter/internal/surface"
)

// OffscreenOffset is where elements are parked before being stacked, so their
// rendered extent can be measured without a visible jump.
const OffscreenOffset = -9990

// State is the lifecycle phase of an alert.
type State int

const (
	StateBuilding State = iota
	StateVisible
	StateFading
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateVisible:
		return "visible"
	case StateFading:
		return "fading"
	case StateRemoved:
		return "removed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// CloseReason records why an alert was hidden. Values match the
// org.freedesktop.Notifications NotificationClosed reasons.
type CloseReason uint32

const (
	ReasonNone      CloseReason = 0
	ReasonExpired   CloseReason = 1
	ReasonDismissed CloseReason = 2
	ReasonClosed    CloseReason = 3
)

func (r CloseReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonExpired:
		return "expired"
	case ReasonDismissed:
		return "dismissed"
	case ReasonClosed:
		return "closed"
	default:
		return fmt.Sprintf("reason(%d)", uint32(r))
	}
}

// Alert is one toast. All methods must be called on the owning Alerter's loop.
type Alert struct {
	id       ulid.ULID
	owner    *Alerter
	opts     Options
	element  surface.Element
	position *stack.Position
	fader    *fade.Driver
	state    State
	removed  bool
	reason   CloseReason
	shownAt  time.Time
}

// ID returns the alert's unique identifier.
func (a *Alert) ID() ulid.ULID { return a.id }

// Options returns the resolved options the alert was built with.
func (a *Alert) Options() Options { return a.opts }

// Text returns the message.
func (a *Alert) Text() string { return a.opts.Text }

// Element returns the surface element.
func (a *Alert) Element() surface.Element { return a.element }

// Position returns the stack position.
func (a *Alert) Position() *stack.Position { return a.position }

// State returns the lifecycle phase.
func (a *Alert) State() State { return a.state }

// Removed reports whether Hide has run.
func (a *Alert) Removed() bool { return a.removed }

// Reason returns why the alert was hidden, or ReasonNone while it is shown.
func (a *Alert) Reason() CloseReason { return a.reason }

// ShownAt returns when the alert was attached.
func (a *Alert) ShownAt() time.Time { return a.shownAt }

// Opacity returns the current fade opacity in percent.
func (a *Alert) Opacity() int {
	if a.fader == nil {
		return 100
	}
	return a.fader.Opacity()
}

// Hide removes the alert from the stack and the surface. Only the first
// call has any effect; OnClose runs before the stack is compacted.
func (a *Alert) Hide() *Alert {
	a.hide(ReasonClosed)
	return a
}

// Close is Hide.
func (a *Alert) Close() *Alert {
	return a.Hide()
}

// Dismiss hides the alert as a user dismissal.
func (a *Alert) Dismiss() *Alert {
	a.hide(ReasonDismissed)
	return a
}

// show parks the element off-screen, attaches it and stacks it on top of
// its corner, then arms autohide.
func (a *Alert) show() error {
	o := a.opts.Orientation
	a.position.MoveTo(OffscreenOffset, OffscreenOffset)

	if err := a.owner.surface.Attach(a.element); err != nil {
		return fmt.Errorf("attaching alert %s: %w", a.id, err)
	}
	a.owner.positions.Push(a.position)
	a.owner.positions.MoveToTop(a.position)

	if a.opts.OnClick != nil {
		a.element.OnClick(a.click)
	}

	a.state = StateVisible
	a.shownAt = a.owner.now()
	a.owner.logger.Debug("alert shown",
		"id", a.id,
		"orientation", o,
		"x", a.position.X(),
		"y", a.position.Y(),
	)

	if a.opts.Autohide {
		a.owner.sched.AfterFunc(a.opts.Duration, a.startFade)
	}
	return nil
}

func (a *Alert) click() {
	a.element.OnClick(nil)
	if a.removed || a.opts.OnClick == nil {
		return
	}
	a.opts.OnClick(a)
}

func (a *Alert) startFade() {
	if a.removed || a.state != StateVisible {
		return
	}
	a.state = StateFading
	driver, err := fade.Start(a.element, a.opts.Fade, a.owner.sched, a.expire)
	if err != nil {
		a.owner.logger.Warn("fade rejected, hiding immediately", "id", a.id, "error", err)
		a.expire()
		return
	}
	a.fader = driver
}

func (a *Alert) expire() {
	a.hide(ReasonExpired)
}

func (a *Alert) hide(reason CloseReason) {
	if a.removed {
		return
	}
	a.removed = true
	a.reason = reason

	if a.opts.OnClose != nil {
		a.opts.OnClose(a)
	}

	if a.fader != nil {
		a.fader.Stop()
	}
	a.state = StateRemoved
	a.element.OnClick(nil)
	a.owner.positions.Remove(a.position)
	if err := a.owner.surface.Detach(a.element); err != nil {
		a.owner.logger.Warn("failed to detach alert", "id", a.id, "error", err)
	}
	a.owner.forget(a)

	a.owner.logger.Debug("alert hidden", "id", a.id, "reason", reason)
}
