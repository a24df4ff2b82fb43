package surface

import "fmt"

// Edge names one side of the surface an element can be anchored to.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// String returns the edge name as used in configuration.
func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	default:
		return fmt.Sprintf("edge(%d)", int(e))
	}
}

// Horizontal reports whether the edge is left or right.
func (e Edge) Horizontal() bool {
	return e == EdgeLeft || e == EdgeRight
}

// Element is one rendered alert box on a surface.
// Offsets are measured inward from the given edge in the surface's native unit
// (pixels for GTK, cells for the terminal).
type Element interface {
	// Offset returns the distance from the edge. Unset edges report 0.
	Offset(edge Edge) int
	// SetOffset anchors the element to edge at distance v.
	SetOffset(edge Edge, v int)
	// Extent is the rendered vertical size. It is 0 while detached.
	Extent() int
	// Margin is the outer spacing along the stacking axis.
	Margin() int
	// SetOpacity sets the opacity as a percentage in [0, 100].
	SetOpacity(percent int)
	// OnClick installs the click handler. A nil fn clears it.
	OnClick(fn func())
}

// Presentation selects how an element is styled.
// Exactly one of the two forms is used per element.
type Presentation interface {
	isPresentation()
}

// Inline styles the element with a map of style properties
// (camelCase keys such as backgroundColor or fontSize).
type Inline struct {
	Styles map[string]string
}

// Identified styles the element through externally defined rules
// keyed by id and class.
type Identified struct {
	ID    string
	Class string
}

func (Inline) isPresentation()     {}
func (Identified) isPresentation() {}

// ElementSpec describes an element to create.
type ElementSpec struct {
	Text         string
	Presentation Presentation
}

// Surface creates, attaches and detaches elements.
type Surface interface {
	NewElement(spec ElementSpec) Element
	Attach(e Element) error
	Detach(e Element) error
}

// Error is returned by surfaces when an operation fails.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}
