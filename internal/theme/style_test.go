package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		in      string
		want    Length
		wantErr bool
	}{
		{in: "15px", want: Length{Value: 15, Unit: "px"}},
		{in: "3", want: Length{Value: 3}},
		{in: "5px 10px", want: Length{Value: 5, Unit: "px"}},
		{in: "2.5PX", want: Length{Value: 2.5, Unit: "px"}},
		{in: "", wantErr: true},
		{in: "1em", wantErr: true},
		{in: "px", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLength(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLength_Conversions(t *testing.T) {
	px := Length{Value: 50, Unit: "px"}
	assert.Equal(t, 50, px.Pixels())
	assert.Equal(t, 3, px.Cells(Vertical))
	assert.Equal(t, 6, px.Cells(Horizontal))

	cells := Length{Value: 4}
	assert.Equal(t, 4, cells.Cells(Vertical))
	assert.Equal(t, 4, cells.Pixels())
}

func TestStyles_Lengths(t *testing.T) {
	s := Styles{"margin": "15px", "padding": "bogus"}
	assert.Equal(t, 15, s.Pixels("margin", 0))
	assert.Equal(t, 1, s.Cells("margin", Vertical, 0))
	assert.Equal(t, 7, s.Pixels("padding", 7))
	assert.Equal(t, 9, s.Cells("missing", Horizontal, 9))
}

func TestToCSS(t *testing.T) {
	css := ToCSS(".alert", Styles{
		"backgroundColor": "#A200FF",
		"fontFamily":      "Segoe UI",
		"height":          "50px",
		"margin":          "15",
		"border":          "rounded",
	})
	want := `.alert {
  background-color: #A200FF;
  font-family: "Segoe UI";
  min-height: 50px;
  margin: 15px;
}
`
	assert.Equal(t, want, css)
}

func TestTheme_Stylesheet(t *testing.T) {
	th := &Theme{Rules: map[string]Styles{
		"#b": {"color": "red"},
		".a": {"color": "blue"},
	}}
	want := `window.alerter #b {
  color: red;
}
window.alerter .a {
  color: blue;
}
`
	assert.Equal(t, want, th.Stylesheet("window.alerter"))
}

func TestToLipgloss(t *testing.T) {
	box := ToLipgloss(NewDefaultTheme().Styles)
	assert.Equal(t, 1, box.Margin)
	assert.Equal(t, 31, box.Style.GetWidth())
	assert.Equal(t, 3, box.Style.GetHeight())

	box = ToLipgloss(Styles{"border": "rounded", "fontWeight": "bold", "margin": "2"})
	assert.True(t, box.Style.GetBold())
	assert.True(t, box.Style.GetBorderTop())
	assert.Equal(t, 2, box.Margin)
}
