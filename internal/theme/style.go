package theme

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Pixel to terminal cell conversion used when a pixel length is rendered in
// a terminal.
const (
	PixelsPerColumn = 8
	PixelsPerRow    = 16
)

// Axis selects the direction a length is measured along.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Length is a parsed style length such as "15px" or "3".
type Length struct {
	Value float64
	Unit  string // "px" or "" for the surface's native unit
}

// ParseLength parses a CSS-like length. Only px and unitless values are
// accepted; the first value of a shorthand ("5px 10px") is used.
func ParseLength(s string) (Length, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Length{}, fmt.Errorf("empty length")
	}
	v := fields[0]

	idx := strings.IndexFunc(v, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.' && r != '-' && r != '+'
	})
	num, unit := v, ""
	if idx >= 0 {
		num, unit = v[:idx], strings.ToLower(v[idx:])
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q: %w", s, err)
	}
	switch unit {
	case "", "px":
	default:
		return Length{}, fmt.Errorf("invalid length %q: unsupported unit %q", s, unit)
	}
	return Length{Value: f, Unit: unit}, nil
}

// Pixels returns the length in pixels. Unitless values are already pixels.
func (l Length) Pixels() int {
	return int(math.Round(l.Value))
}

// Cells returns the length in terminal cells along axis.
func (l Length) Cells(axis Axis) int {
	if l.Unit != "px" {
		return int(math.Round(l.Value))
	}
	per := PixelsPerColumn
	if axis == Vertical {
		per = PixelsPerRow
	}
	return int(math.Round(l.Value / float64(per)))
}

// Pixels returns the named length in pixels, or def when absent or invalid.
func (s Styles) Pixels(key string, def int) int {
	v, ok := s[key]
	if !ok {
		return def
	}
	l, err := ParseLength(v)
	if err != nil {
		return def
	}
	return l.Pixels()
}

// Cells returns the named length in cells along axis, or def when absent
// or invalid.
func (s Styles) Cells(key string, axis Axis, def int) int {
	v, ok := s[key]
	if !ok {
		return def
	}
	l, err := ParseLength(v)
	if err != nil {
		return def
	}
	return l.Cells(axis)
}

// cssProperty converts camelCase to the kebab-case CSS property name.
func cssProperty(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// gtkProperties maps properties GTK CSS does not support to ones it does.
var gtkProperties = map[string]string{
	"height": "min-height",
}

// skipCSS lists properties that are consumed by surfaces and never emitted.
var skipCSS = map[string]bool{
	"border":      true,
	"borderColor": true,
}

// ToCSS renders styles as a CSS rule for selector. Properties are sorted so
// the output is stable.
func ToCSS(selector string, styles Styles) string {
	keys := make([]string, 0, len(styles))
	for k := range styles {
		if !skipCSS[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, k := range keys {
		prop := cssProperty(k)
		if mapped, ok := gtkProperties[prop]; ok {
			prop = mapped
		}
		fmt.Fprintf(&b, "  %s: %s;\n", prop, cssValue(prop, styles[k]))
	}
	b.WriteString("}\n")
	return b.String()
}

func cssValue(prop, v string) string {
	if prop == "font-family" && strings.ContainsRune(v, ' ') && !strings.ContainsAny(v, `"',`) {
		return strconv.Quote(v)
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil && prop != "font-weight" && prop != "opacity" {
		return v + "px"
	}
	return v
}

// Stylesheet renders every rule of the theme, prefixing selectors with
// scope (for example "window.alerter"). Rules are sorted by selector.
func (t *Theme) Stylesheet(scope string) string {
	selectors := make([]string, 0, len(t.Rules))
	for sel := range t.Rules {
		selectors = append(selectors, sel)
	}
	sort.Strings(selectors)

	var b strings.Builder
	for _, sel := range selectors {
		full := sel
		if scope != "" {
			full = scope + " " + sel
		}
		b.WriteString(ToCSS(full, t.Rules[sel]))
	}
	return b.String()
}
