// Package gtksurface shows alerts as GTK4 layer-shell windows on a Wayland
// compositor. Each element is its own undecorated window anchored to two
// screen edges; offsets become layer-shell margins.
//
// All methods must be called on the GTK main loop. Use Post as the
// clock.Poster for schedulers driving alerts on this surface.
package gtksurface

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/alerter/internal/surface"
	"github.com/jmylchreest/alerter/internal/theme"
)

// WindowClass is the CSS class carried by every alert window.
const WindowClass = "alerter"

var (
	ErrForeignElement = errors.New("element was not created by this surface")
	ErrAttached       = errors.New("element already attached")
	ErrNotAttached    = errors.New("element not attached")
	ErrNoDisplay      = errors.New("no display available")
)

// Post runs fn on the GTK main loop.
func Post(fn func()) {
	glib.IdleAdd(fn)
}

// Config holds the placement settings shared by every element.
type Config struct {
	// OffsetX and OffsetY are added to every element's offsets, in pixels.
	OffsetX   int
	OffsetY   int
	Namespace string
}

// Surface is a surface.Surface backed by layer-shell windows.
type Surface struct {
	app      *gtk.Application
	cfg      Config
	theme    *theme.Theme
	display  *gdk.Display
	provider *gtk.CSSProvider
	logger   *slog.Logger
	seq      int
}

// New creates a surface whose windows belong to app. The theme stylesheet is
// installed on the default display.
func New(app *gtk.Application, th *theme.Theme, cfg Config, logger *slog.Logger) (*Surface, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if th == nil {
		th = theme.NewDefaultTheme()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "alerter"
	}
	display := gdk.DisplayGetDefault()
	if display == nil {
		return nil, &surface.Error{Op: "gtksurface.New", Err: ErrNoDisplay}
	}
	s := &Surface{
		app:      app,
		cfg:      cfg,
		display:  display,
		provider: gtk.NewCSSProvider(),
		logger:   logger,
	}
	gtk.StyleContextAddProviderForDisplay(display, s.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	s.SetTheme(th)
	return s, nil
}

// SetTheme replaces the stylesheet used by identified elements.
// Inline elements keep the styles they were created with.
func (s *Surface) SetTheme(th *theme.Theme) {
	s.theme = th
	css := s.stylesheet(th)
	s.provider.LoadFromString(css)
	s.logger.Debug("applied theme", "name", th.Name, "bytes", len(css))
}

// stylesheet renders th for identified elements. The base styles apply to
// every identified box and rules are scoped below the alert window.
func (s *Surface) stylesheet(th *theme.Theme) string {
	scope := "window." + WindowClass
	var b strings.Builder
	b.WriteString(theme.ToCSS(scope+" box.identified", gtkStyles(th.Styles)))
	scoped := &theme.Theme{Rules: make(map[string]theme.Styles, len(th.Rules))}
	for sel, rule := range th.Rules {
		scoped.Rules[sel] = gtkStyles(rule)
	}
	b.WriteString(scoped.Stylesheet(scope))
	return b.String()
}

// gtkStyles drops properties handled by layer-shell margins.
func gtkStyles(styles theme.Styles) theme.Styles {
	out := styles.Clone()
	delete(out, "margin")
	return out
}

// NewElement builds a hidden window for spec.
func (s *Surface) NewElement(spec surface.ElementSpec) surface.Element {
	s.seq++
	e := &Element{
		surface: s,
		offsets: make(map[surface.Edge]int),
		styles:  s.theme.StylesFor(spec.Presentation),
		opacity: 100,
	}

	e.window = gtk.NewWindow()
	if s.app != nil {
		e.window.SetApplication(s.app)
	}
	e.window.SetDecorated(false)
	e.window.SetResizable(false)
	e.window.AddCSSClass(WindowClass)

	layershell.InitForWindow(e.window)
	layershell.SetLayer(e.window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(e.window, 0)
	layershell.SetKeyboardMode(e.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(e.window, s.cfg.Namespace)

	e.box = gtk.NewBox(gtk.OrientationVertical, 0)
	label := gtk.NewLabel(spec.Text)
	label.SetWrap(true)
	label.SetXAlign(0)
	e.box.Append(label)
	e.window.SetChild(e.box)

	switch p := spec.Presentation.(type) {
	case surface.Identified:
		e.box.AddCSSClass("identified")
		if p.ID != "" {
			e.box.SetName(p.ID)
		}
		for _, class := range strings.Fields(p.Class) {
			e.box.AddCSSClass(class)
		}
	default:
		class := fmt.Sprintf("inline-%d", s.seq)
		e.box.AddCSSClass(class)
		e.provider = gtk.NewCSSProvider()
		e.provider.LoadFromString(theme.ToCSS("window."+WindowClass+" box."+class, gtkStyles(e.styles)))
	}

	click := gtk.NewGestureClick()
	click.SetButton(0)
	click.ConnectReleased(func(nPress int, x, y float64) {
		if e.onClick != nil {
			e.onClick()
		}
	})
	e.window.AddController(click)

	return e
}

// Attach presents the element's window.
func (s *Surface) Attach(el surface.Element) error {
	e, ok := el.(*Element)
	if !ok || e.surface != s {
		return &surface.Error{Op: "attach", Err: ErrForeignElement}
	}
	if e.attached {
		return &surface.Error{Op: "attach", Err: ErrAttached}
	}
	if e.provider != nil {
		gtk.StyleContextAddProviderForDisplay(s.display, e.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION+1)
	}
	e.attached = true
	e.window.Present()
	return nil
}

// Detach closes the element's window.
func (s *Surface) Detach(el surface.Element) error {
	e, ok := el.(*Element)
	if !ok || e.surface != s {
		return &surface.Error{Op: "detach", Err: ErrForeignElement}
	}
	if !e.attached {
		return &surface.Error{Op: "detach", Err: ErrNotAttached}
	}
	e.attached = false
	e.onClick = nil
	e.window.Close()
	if e.provider != nil {
		gtk.StyleContextRemoveProviderForDisplay(s.display, e.provider)
	}
	return nil
}

// Element is one alert window.
type Element struct {
	surface  *Surface
	window   *gtk.Window
	box      *gtk.Box
	provider *gtk.CSSProvider
	styles   theme.Styles
	offsets  map[surface.Edge]int
	opacity  int
	attached bool
	onClick  func()
}

var layerEdges = map[surface.Edge]layershell.LayerShellEdge{
	surface.EdgeLeft:   layershell.LayerShellEdgeLeft,
	surface.EdgeRight:  layershell.LayerShellEdgeRight,
	surface.EdgeTop:    layershell.LayerShellEdgeTop,
	surface.EdgeBottom: layershell.LayerShellEdgeBottom,
}

var opposite = map[surface.Edge]surface.Edge{
	surface.EdgeLeft:   surface.EdgeRight,
	surface.EdgeRight:  surface.EdgeLeft,
	surface.EdgeTop:    surface.EdgeBottom,
	surface.EdgeBottom: surface.EdgeTop,
}

// Offset returns the last offset set for edge.
func (e *Element) Offset(edge surface.Edge) int { return e.offsets[edge] }

// SetOffset anchors the window to edge and releases the opposite edge.
// The layer-shell margin is the offset plus the display offset for that
// axis plus the element's own margin.
func (e *Element) SetOffset(edge surface.Edge, v int) {
	e.offsets[edge] = v
	delete(e.offsets, opposite[edge])

	base := e.surface.cfg.OffsetY
	if edge.Horizontal() {
		base = e.surface.cfg.OffsetX
	}
	layershell.SetAnchor(e.window, layerEdges[opposite[edge]], false)
	layershell.SetMargin(e.window, layerEdges[opposite[edge]], 0)
	layershell.SetAnchor(e.window, layerEdges[edge], true)
	layershell.SetMargin(e.window, layerEdges[edge], base+v+e.Margin())
}

// Extent is the natural height of the window, never less than the styled
// height.
func (e *Element) Extent() int {
	if !e.attached {
		return 0
	}
	_, natural, _, _ := e.window.Measure(gtk.OrientationVertical, -1)
	if h := e.styles.Pixels("height", 0); natural < h {
		natural = h
	}
	return natural
}

// Margin is the styled margin in pixels.
func (e *Element) Margin() int {
	return e.styles.Pixels("margin", 0)
}

// SetOpacity sets the window opacity.
func (e *Element) SetOpacity(percent int) {
	e.opacity = max(0, min(100, percent))
	e.window.SetOpacity(float64(e.opacity) / 100)
}

// Opacity returns the last opacity set.
func (e *Element) Opacity() int { return e.opacity }

// OnClick installs fn as the click handler.
func (e *Element) OnClick(fn func()) { e.onClick = fn }
