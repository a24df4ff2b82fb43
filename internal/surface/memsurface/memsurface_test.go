package memsurface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/alerter/internal/surface"
)

func TestSurface_AttachDetach(t *testing.T) {
	s := New()
	e := s.NewElement(surface.ElementSpec{Text: "hello"}).(*Element)

	assert.Equal(t, 0, e.Extent(), "detached elements have no extent")

	require.NoError(t, s.Attach(e))
	assert.Equal(t, DefaultExtent, e.Extent())
	assert.Equal(t, DefaultMargin, e.Margin())
	assert.Len(t, s.Elements(), 1)

	err := s.Attach(e)
	assert.ErrorIs(t, err, ErrAttached)

	require.NoError(t, s.Detach(e))
	assert.True(t, e.Detached())
	assert.Empty(t, s.Elements())

	err = s.Detach(e)
	assert.ErrorIs(t, err, ErrNotAttached)
	assert.Equal(t, 1, s.Attaches())
	assert.Equal(t, 1, s.Detaches())
}

func TestSurface_ForeignElement(t *testing.T) {
	a := New()
	b := New()
	e := b.NewElement(surface.ElementSpec{})

	var serr *surface.Error
	err := a.Attach(e)
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "attach", serr.Op)
	assert.ErrorIs(t, err, ErrForeignElement)
}

func TestSurface_Options(t *testing.T) {
	s := New(WithMargin(2), WithExtentFunc(func(spec surface.ElementSpec) int {
		return len(spec.Text)
	}))
	e := s.NewElement(surface.ElementSpec{Text: "abcd"})
	require.NoError(t, s.Attach(e))

	assert.Equal(t, 4, e.Extent())
	assert.Equal(t, 2, e.Margin())
}

func TestElement_OffsetsOpacityAndClick(t *testing.T) {
	s := New()
	e := s.NewElement(surface.ElementSpec{}).(*Element)

	assert.Equal(t, 0, e.Offset(surface.EdgeBottom))
	e.SetOffset(surface.EdgeBottom, 65)
	assert.Equal(t, 65, e.Offset(surface.EdgeBottom))

	e.SetOpacity(95)
	e.SetOpacity(90)
	assert.Equal(t, 90, e.Opacity())
	assert.Equal(t, []int{95, 90}, e.OpacityHistory())

	assert.False(t, e.Click())
	clicks := 0
	e.OnClick(func() { clicks++ })
	assert.True(t, e.HasClickHandler())
	assert.True(t, e.Click())
	assert.Equal(t, 1, clicks)

	e.OnClick(nil)
	assert.False(t, e.Click())
}
