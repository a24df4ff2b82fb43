package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Box is the terminal rendering of a style map.
type Box struct {
	Style   lipgloss.Style
	Margin  int // rows between stacked boxes
	MarginX int // columns from the anchored side edge
}

// ToLipgloss converts styles to a lipgloss style sized in terminal cells.
// Pixel lengths are scaled by PixelsPerColumn and PixelsPerRow.
func ToLipgloss(styles Styles) Box {
	st := lipgloss.NewStyle()

	if v, ok := styles["backgroundColor"]; ok {
		st = st.Background(lipgloss.Color(v))
	}
	if v, ok := styles["color"]; ok {
		st = st.Foreground(lipgloss.Color(v))
	}
	if w := strings.ToLower(styles["fontWeight"]); w == "bold" || w == "700" || w == "800" || w == "900" {
		st = st.Bold(true)
	}
	if strings.ToLower(styles["fontStyle"]) == "italic" {
		st = st.Italic(true)
	}
	if strings.ToLower(styles["textDecoration"]) == "underline" {
		st = st.Underline(true)
	}

	if _, ok := styles["padding"]; ok {
		st = st.Padding(styles.Cells("padding", Vertical, 0), styles.Cells("padding", Horizontal, 0))
	}
	if w := styles.Cells("minWidth", Horizontal, 0); w > 0 {
		st = st.Width(w)
	}
	if h := styles.Cells("height", Vertical, 0); h > 0 {
		st = st.Height(h)
	}

	if border, ok := borders[strings.ToLower(styles["border"])]; ok {
		st = st.Border(border)
		if v, ok := styles["borderColor"]; ok {
			st = st.BorderForeground(lipgloss.Color(v))
		}
		if v, ok := styles["backgroundColor"]; ok {
			st = st.BorderBackground(lipgloss.Color(v))
		}
	}

	return Box{
		Style:   st,
		Margin:  styles.Cells("margin", Vertical, 0),
		MarginX: styles.Cells("margin", Horizontal, 0),
	}
}

var borders = map[string]lipgloss.Border{
	"normal":  lipgloss.NormalBorder(),
	"rounded": lipgloss.RoundedBorder(),
	"thick":   lipgloss.ThickBorder(),
	"double":  lipgloss.DoubleBorder(),
}
