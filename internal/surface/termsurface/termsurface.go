// Package termsurface draws alerts onto a terminal frame. Elements are
// rendered with lipgloss, painted over the host view at their anchored
// offsets and faded by blending their colours into the terminal background.
package termsurface

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/alerter/internal/surface"
	"github.com/jmylchreest/alerter/internal/theme"
)

var (
	ErrForeignElement = errors.New("element was not created by this surface")
	ErrAttached       = errors.New("element already attached")
	ErrNotAttached    = errors.New("element not attached")
)

// colourKeys are the style properties faded toward the background.
var colourKeys = []string{"backgroundColor", "color", "borderColor"}

// Option configures a Surface.
type Option func(*Surface)

// WithSize sets the frame size in cells.
func WithSize(width, height int) Option {
	return func(s *Surface) { s.width, s.height = width, height }
}

// WithBackground sets the colour alerts fade into.
func WithBackground(hex string) Option {
	return func(s *Surface) { s.setBackground(hex) }
}

// Surface is a surface.Surface for a terminal frame. Like the bubbletea
// model that owns it, it is used from a single goroutine.
type Surface struct {
	width, height int
	theme         *theme.Theme
	background    colorful.Color
	elements      []*Element
}

// New creates a terminal surface styled by th.
func New(th *theme.Theme, opts ...Option) *Surface {
	if th == nil {
		th = theme.NewDefaultTheme()
	}
	s := &Surface{theme: th}
	s.setBackground("#000000")
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Surface) setBackground(hex string) {
	c, err := colorful.Hex(hex)
	if err != nil {
		c = colorful.Color{}
	}
	s.background = c
}

// SetSize updates the frame size, e.g. on tea.WindowSizeMsg.
func (s *Surface) SetSize(width, height int) {
	s.width, s.height = width, height
}

// Size returns the frame size.
func (s *Surface) Size() (int, int) { return s.width, s.height }

// SetTheme restyles every element, attached or not, with th.
func (s *Surface) SetTheme(th *theme.Theme) {
	s.theme = th
	for _, e := range s.elements {
		e.styles = th.StylesFor(e.spec.Presentation)
		e.render()
	}
}

// NewElement implements surface.Surface.
func (s *Surface) NewElement(spec surface.ElementSpec) surface.Element {
	e := &Element{
		owner:   s,
		spec:    spec,
		styles:  s.theme.StylesFor(spec.Presentation),
		offsets: make(map[surface.Edge]int),
		xEdge:   surface.EdgeRight,
		yEdge:   surface.EdgeBottom,
		opacity: 100,
	}
	e.render()
	return e
}

// Attach implements surface.Surface.
func (s *Surface) Attach(e surface.Element) error {
	el, ok := e.(*Element)
	if !ok || el.owner != s {
		return &surface.Error{Op: "attach", Err: ErrForeignElement}
	}
	if el.attached {
		return &surface.Error{Op: "attach", Err: ErrAttached}
	}
	el.attached = true
	s.elements = append(s.elements, el)
	return nil
}

// Detach implements surface.Surface.
func (s *Surface) Detach(e surface.Element) error {
	el, ok := e.(*Element)
	if !ok || el.owner != s {
		return &surface.Error{Op: "detach", Err: ErrForeignElement}
	}
	if !el.attached {
		return &surface.Error{Op: "detach", Err: ErrNotAttached}
	}
	el.attached = false
	s.elements = slices.DeleteFunc(s.elements, func(x *Element) bool { return x == el })
	return nil
}

// Elements returns the attached elements in paint order.
func (s *Surface) Elements() []*Element {
	return slices.Clone(s.elements)
}

// Render paints every attached element over base. Base is padded or cut
// to the frame size first.
func (s *Surface) Render(base string) string {
	if s.width <= 0 || s.height <= 0 {
		return base
	}

	lines := strings.Split(base, "\n")
	for len(lines) < s.height {
		lines = append(lines, "")
	}
	lines = lines[:s.height]
	for i, line := range lines {
		w := ansi.StringWidth(line)
		switch {
		case w < s.width:
			lines[i] = line + strings.Repeat(" ", s.width-w)
		case w > s.width:
			lines[i] = ansi.Truncate(line, s.width, "")
		}
	}

	for _, e := range s.elements {
		e.paint(lines, s.width, s.height)
	}
	return strings.Join(lines, "\n")
}

// HitTest returns the topmost visible element covering the cell.
func (s *Surface) HitTest(col, row int) (*Element, bool) {
	for i := len(s.elements) - 1; i >= 0; i-- {
		e := s.elements[i]
		r, c, w, h := e.Bounds()
		if row >= r && row < r+h && col >= c && col < c+w {
			return e, true
		}
	}
	return nil, false
}

// Click delivers a click at the cell to the element under it. It reports
// whether a click handler ran.
func (s *Surface) Click(col, row int) bool {
	e, ok := s.HitTest(col, row)
	if !ok || e.onClick == nil {
		return false
	}
	e.onClick()
	return true
}

// Element is one alert box on the terminal.
type Element struct {
	owner    *Surface
	spec     surface.ElementSpec
	styles   theme.Styles
	offsets  map[surface.Edge]int
	xEdge    surface.Edge
	yEdge    surface.Edge
	opacity  int
	onClick  func()
	attached bool

	rendered string
	margin   int
	marginX  int
}

func (e *Element) render() {
	styles := e.styles
	if e.opacity < 100 {
		styles = e.faded()
	}
	box := theme.ToLipgloss(styles)
	e.rendered = box.Style.Render(e.spec.Text)
	e.margin = box.Margin
	e.marginX = box.MarginX
}

// faded blends each colour toward the surface background by opacity.
func (e *Element) faded() theme.Styles {
	out := maps.Clone(e.styles)
	if out == nil {
		out = theme.Styles{}
	}
	t := float64(e.opacity) / 100
	for _, key := range colourKeys {
		c, err := colorful.Hex(out[key])
		if err != nil {
			continue
		}
		out[key] = e.owner.background.BlendRgb(c, t).Clamped().Hex()
	}
	if _, ok := out["color"]; !ok {
		out["color"] = e.owner.background.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, t).Clamped().Hex()
	}
	return out
}

// Offset implements surface.Element.
func (e *Element) Offset(edge surface.Edge) int { return e.offsets[edge] }

// SetOffset implements surface.Element. The last horizontal and vertical
// edges set become the anchors.
func (e *Element) SetOffset(edge surface.Edge, v int) {
	e.offsets[edge] = v
	if edge.Horizontal() {
		e.xEdge = edge
	} else {
		e.yEdge = edge
	}
}

// Extent implements surface.Element: the rendered height in rows.
func (e *Element) Extent() int {
	if !e.attached {
		return 0
	}
	return lipgloss.Height(e.rendered)
}

// Margin implements surface.Element: the vertical margin in rows.
func (e *Element) Margin() int { return e.margin }

// SetOpacity implements surface.Element.
func (e *Element) SetOpacity(percent int) {
	e.opacity = max(0, min(100, percent))
	e.render()
}

// Opacity returns the current opacity.
func (e *Element) Opacity() int { return e.opacity }

// OnClick implements surface.Element.
func (e *Element) OnClick(fn func()) { e.onClick = fn }

// Text returns the element text.
func (e *Element) Text() string { return e.spec.Text }

// View returns the rendered box.
func (e *Element) View() string { return e.rendered }

// Bounds returns the frame rectangle the element occupies, unclipped.
func (e *Element) Bounds() (row, col, width, height int) {
	width = lipgloss.Width(e.rendered)
	height = lipgloss.Height(e.rendered)
	x, y := e.offsets[e.xEdge], e.offsets[e.yEdge]

	if e.yEdge == surface.EdgeTop {
		row = y + e.margin
	} else {
		row = e.owner.height - height - y - e.margin
	}
	if e.xEdge == surface.EdgeLeft {
		col = x + e.marginX
	} else {
		col = e.owner.width - width - x - e.marginX
	}
	return row, col, width, height
}

func (e *Element) paint(lines []string, width, height int) {
	row, col, w, _ := e.Bounds()
	start, end := max(col, 0), min(col+w, width)
	if start >= end {
		return
	}

	for i, boxLine := range strings.Split(e.rendered, "\n") {
		r := row + i
		if r < 0 || r >= height {
			continue
		}
		content := ansi.Cut(boxLine, start-col, end-col)
		base := lines[r]
		lines[r] = ansi.Cut(base, 0, start) + content + ansi.Cut(base, end, width)
	}
}
