// Package fade drives an element's opacity from fully opaque to transparent
// in fixed steps on a scheduler.
package fade

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmylchreest/alerter/internal/clock"
)

// Defaults used when a configuration leaves a field unset.
const (
	DefaultStep  = 5
	DefaultSpeed = 25 * time.Millisecond
)

var (
	ErrInvalidStep  = errors.New("fade step must be between 1 and 100")
	ErrInvalidSpeed = errors.New("fade speed must be positive")
)

// Target receives opacity updates.
type Target interface {
	SetOpacity(percent int)
}

// Config controls a fade.
type Config struct {
	// Step is the opacity decrement per tick, in percent.
	Step int
	// Speed is the delay between ticks.
	Speed time.Duration
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Step <= 0 || c.Step > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidStep, c.Step)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidSpeed, c.Speed)
	}
	return nil
}

// Updates returns how many opacity updates a full fade with this step performs.
func (c Config) Updates() int {
	if c.Step <= 0 {
		return 0
	}
	return (100 + c.Step - 1) / c.Step
}

// Duration is the time from the first update to completion.
func (c Config) Duration() time.Duration {
	return time.Duration(c.Updates()) * c.Speed
}

// State is the fade phase.
type State int

const (
	StateFading State = iota
	StateDone
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateFading:
		return "fading"
	case StateDone:
		return "done"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Driver is one running fade.
type Driver struct {
	target  Target
	cfg     Config
	sched   clock.Scheduler
	done    func()
	state   State
	opacity int
	updates int
}

// Start begins fading target. The first update is applied before Start
// returns; each following update runs one Speed later. When opacity reaches
// 0, done is called exactly once on the next tick.
func Start(target Target, cfg Config, sched clock.Scheduler, done func()) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Driver{
		target:  target,
		cfg:     cfg,
		sched:   sched,
		done:    done,
		state:   StateFading,
		opacity: 100,
	}
	d.tick()
	return d, nil
}

func (d *Driver) tick() {
	if d.state != StateFading {
		return
	}
	if d.opacity <= 0 {
		d.state = StateDone
		if d.done != nil {
			d.done()
		}
		return
	}

	d.opacity = max(d.opacity-d.cfg.Step, 0)
	d.updates++
	d.target.SetOpacity(d.opacity)
	d.sched.AfterFunc(d.cfg.Speed, d.tick)
}

// Stop halts the fade without calling done. Pending ticks become no-ops.
func (d *Driver) Stop() {
	if d.state == StateFading {
		d.state = StateStopped
	}
}

// State returns the current phase.
func (d *Driver) State() State { return d.state }

// Opacity returns the last applied opacity.
func (d *Driver) Opacity() int { return d.opacity }

// Updates returns the number of opacity updates applied so far.
func (d *Driver) Updates() int { return d.updates }
