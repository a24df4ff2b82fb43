package stack

import "github.com/jmylchreest/alerter/internal/surface"

// Position reads and writes the placement of one element along its
// orientation's anchor edges. Y grows away from the anchored vertical edge,
// so for bottom alerts a larger Y is higher on screen.
type Position struct {
	element     surface.Element
	orientation Orientation
}

// NewPosition binds an element to an orientation.
func NewPosition(e surface.Element, o Orientation) *Position {
	return &Position{element: e, orientation: o}
}

// Element returns the element this position controls.
func (p *Position) Element() surface.Element { return p.element }

// Orientation returns the immutable orientation.
func (p *Position) Orientation() Orientation { return p.orientation }

// X returns the offset from the horizontal anchor edge.
func (p *Position) X() int {
	return p.element.Offset(p.orientation.HorizontalEdge())
}

// Y returns the offset from the vertical anchor edge.
func (p *Position) Y() int {
	return p.element.Offset(p.orientation.VerticalEdge())
}

// Height is the slot size along the stack: rendered extent plus margin.
// It is only meaningful once the element is attached.
func (p *Position) Height() int {
	return p.element.Extent() + p.element.Margin()
}

// IsOnTop reports whether p sits further from the anchor edge than other.
// Orientation is not checked.
func (p *Position) IsOnTop(other *Position) bool {
	return p.Y() > other.Y()
}

// MoveDown shifts p one slot of its own height toward the anchor edge.
func (p *Position) MoveDown() {
	p.element.SetOffset(p.orientation.VerticalEdge(), p.Y()-p.Height())
}

// MoveTo places p at absolute anchor offsets.
func (p *Position) MoveTo(x, y int) {
	p.element.SetOffset(p.orientation.HorizontalEdge(), x)
	p.element.SetOffset(p.orientation.VerticalEdge(), y)
}
