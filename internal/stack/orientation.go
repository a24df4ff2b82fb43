// Package stack implements the geometry of stacked alerts: which screen
// corner an alert is anchored to, where it sits along that corner's stack,
// and how the stack is compacted when an alert leaves it.
package stack

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmylchreest/alerter/internal/surface"
)

// ErrInvalidOrientation is returned when an orientation name is not recognised.
var ErrInvalidOrientation = errors.New("invalid orientation")

// EdgeSide selects the start (left/top) or end (right/bottom) side of an axis.
type EdgeSide int

const (
	Start EdgeSide = iota
	End
)

// Orientation is the screen corner an alert is anchored to.
// It is a comparable value and never changes once an alert is built.
type Orientation struct {
	Horizontal EdgeSide
	Vertical   EdgeSide
}

// Corner orientations.
var (
	TopLeft     = Orientation{Horizontal: Start, Vertical: Start}
	TopRight    = Orientation{Horizontal: End, Vertical: Start}
	BottomLeft  = Orientation{Horizontal: Start, Vertical: End}
	BottomRight = Orientation{Horizontal: End, Vertical: End}
)

// NewOrientation parses the horizontal ("left", "right") and vertical
// ("top", "bottom") names. Empty names take the right/bottom default.
func NewOrientation(x, y string) (Orientation, error) {
	var o Orientation

	switch strings.ToLower(strings.TrimSpace(x)) {
	case "left":
		o.Horizontal = Start
	case "right", "":
		o.Horizontal = End
	default:
		return Orientation{}, fmt.Errorf("%w: x orientation %q", ErrInvalidOrientation, x)
	}

	switch strings.ToLower(strings.TrimSpace(y)) {
	case "top":
		o.Vertical = Start
	case "bottom", "":
		o.Vertical = End
	default:
		return Orientation{}, fmt.Errorf("%w: y orientation %q", ErrInvalidOrientation, y)
	}

	return o, nil
}

// ParseOrientation parses corner names such as "bottom-right" or "top-left".
func ParseOrientation(s string) (Orientation, error) {
	y, x, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "-")
	if !ok {
		return Orientation{}, fmt.Errorf("%w: %q", ErrInvalidOrientation, s)
	}
	return NewOrientation(x, y)
}

// Equals reports whether both edges match.
func (o Orientation) Equals(other Orientation) bool {
	return o == other
}

// Left reports whether the alert is anchored to the left edge.
func (o Orientation) Left() bool { return o.Horizontal == Start }

// Right reports whether the alert is anchored to the right edge.
func (o Orientation) Right() bool { return o.Horizontal == End }

// Top reports whether the alert is anchored to the top edge.
func (o Orientation) Top() bool { return o.Vertical == Start }

// Bottom reports whether the alert is anchored to the bottom edge.
func (o Orientation) Bottom() bool { return o.Vertical == End }

// HorizontalEdge returns the surface edge x offsets are measured from.
func (o Orientation) HorizontalEdge() surface.Edge {
	if o.Left() {
		return surface.EdgeLeft
	}
	return surface.EdgeRight
}

// VerticalEdge returns the surface edge y offsets are measured from.
func (o Orientation) VerticalEdge() surface.Edge {
	if o.Top() {
		return surface.EdgeTop
	}
	return surface.EdgeBottom
}

// XName returns "left" or "right".
func (o Orientation) XName() string { return o.HorizontalEdge().String() }

// YName returns "top" or "bottom".
func (o Orientation) YName() string { return o.VerticalEdge().String() }

// String returns the corner name, e.g. "bottom-right".
func (o Orientation) String() string {
	return o.YName() + "-" + o.XName()
}
