// Package memsurface is an in-memory surface. It records every mutation so
// tests and the simulate command can inspect element geometry without a display.
package memsurface

import (
	"errors"
	"sync"

	"github.com/jmylchreest/alerter/internal/surface"
)

// Default geometry matches the classic theme: 50 units tall with a 15 unit margin.
const (
	DefaultExtent = 50
	DefaultMargin = 15
)

var (
	ErrForeignElement = errors.New("element was not created by this surface")
	ErrAttached       = errors.New("element already attached")
	ErrNotAttached    = errors.New("element not attached")
)

// Option configures a Surface.
type Option func(*Surface)

// WithExtent sets the extent every attached element reports.
func WithExtent(extent int) Option {
	return func(s *Surface) { s.extent = func(surface.ElementSpec) int { return extent } }
}

// WithExtentFunc computes the extent per element.
func WithExtentFunc(fn func(surface.ElementSpec) int) Option {
	return func(s *Surface) { s.extent = fn }
}

// WithMargin sets the margin every element reports.
func WithMargin(margin int) Option {
	return func(s *Surface) { s.margin = margin }
}

// Surface is a surface.Surface backed by plain structs.
type Surface struct {
	mu       sync.Mutex
	extent   func(surface.ElementSpec) int
	margin   int
	attached []*Element
	attaches int
	detaches int
}

// New creates an in-memory surface.
func New(opts ...Option) *Surface {
	s := &Surface{
		extent: func(surface.ElementSpec) int { return DefaultExtent },
		margin: DefaultMargin,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewElement implements surface.Surface.
func (s *Surface) NewElement(spec surface.ElementSpec) surface.Element {
	return &Element{
		owner:   s,
		spec:    spec,
		offsets: make(map[surface.Edge]int),
		opacity: 100,
	}
}

// Attach implements surface.Surface.
func (s *Surface) Attach(e surface.Element) error {
	el, ok := e.(*Element)
	if !ok || el.owner != s {
		return &surface.Error{Op: "attach", Err: ErrForeignElement}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if el.attached {
		return &surface.Error{Op: "attach", Err: ErrAttached}
	}
	el.attached = true
	el.detached = false
	s.attached = append(s.attached, el)
	s.attaches++
	return nil
}

// Detach implements surface.Surface.
func (s *Surface) Detach(e surface.Element) error {
	el, ok := e.(*Element)
	if !ok || el.owner != s {
		return &surface.Error{Op: "detach", Err: ErrForeignElement}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !el.attached {
		return &surface.Error{Op: "detach", Err: ErrNotAttached}
	}
	el.attached = false
	el.detached = true
	for i, a := range s.attached {
		if a == el {
			s.attached = append(s.attached[:i], s.attached[i+1:]...)
			break
		}
	}
	s.detaches++
	return nil
}

// Elements returns the attached elements in attach order.
func (s *Surface) Elements() []*Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Element, len(s.attached))
	copy(out, s.attached)
	return out
}

// Attaches returns how many successful attaches happened.
func (s *Surface) Attaches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attaches
}

// Detaches returns how many successful detaches happened.
func (s *Surface) Detaches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detaches
}

// Element is a recorded element.
type Element struct {
	owner    *Surface
	spec     surface.ElementSpec
	offsets  map[surface.Edge]int
	opacity  int
	history  []int
	onClick  func()
	attached bool
	detached bool
}

// Offset implements surface.Element.
func (e *Element) Offset(edge surface.Edge) int {
	return e.offsets[edge]
}

// SetOffset implements surface.Element.
func (e *Element) SetOffset(edge surface.Edge, v int) {
	e.offsets[edge] = v
}

// Extent implements surface.Element.
func (e *Element) Extent() int {
	if !e.attached {
		return 0
	}
	return e.owner.extent(e.spec)
}

// Margin implements surface.Element.
func (e *Element) Margin() int {
	return e.owner.margin
}

// SetOpacity implements surface.Element.
func (e *Element) SetOpacity(percent int) {
	e.opacity = percent
	e.history = append(e.history, percent)
}

// OnClick implements surface.Element.
func (e *Element) OnClick(fn func()) {
	e.onClick = fn
}

// Click simulates a user click. It reports whether a handler ran.
func (e *Element) Click() bool {
	fn := e.onClick
	if fn == nil {
		return false
	}
	fn()
	return true
}

// HasClickHandler reports whether a click handler is installed.
func (e *Element) HasClickHandler() bool { return e.onClick != nil }

// Spec returns the spec the element was created from.
func (e *Element) Spec() surface.ElementSpec { return e.spec }

// Opacity returns the last opacity set.
func (e *Element) Opacity() int { return e.opacity }

// OpacityHistory returns every opacity value set, in order.
func (e *Element) OpacityHistory() []int {
	out := make([]int, len(e.history))
	copy(out, e.history)
	return out
}

// Attached reports whether the element is currently on the surface.
func (e *Element) Attached() bool { return e.attached }

// Detached reports whether the element was attached and later removed.
func (e *Element) Detached() bool { return e.detached }
