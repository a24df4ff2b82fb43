package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/alerter/internal/clock"
	"github.com/jmylchreest/alerter/internal/stack"
	"github.com/jmylchreest/alerter/internal/surface"
	"github.com/jmylchreest/alerter/internal/surface/memsurface"
)

func newTestAlerter(t *testing.T) (*Alerter, *memsurface.Surface, *clock.Manual) {
	t.Helper()
	surf := memsurface.New()
	m := clock.NewManual()
	return New(surf, m, DefaultOptions(), nil), surf, m
}

func element(t *testing.T, a *Alert) *memsurface.Element {
	t.Helper()
	el, ok := a.Element().(*memsurface.Element)
	require.True(t, ok)
	return el
}

func TestAlerter_ShowStacksInOrder(t *testing.T) {
	a, surf, _ := newTestAlerter(t)

	var shown []*Alert
	for range 3 {
		al, err := a.Show("hi")
		require.NoError(t, err)
		shown = append(shown, al)
	}

	assert.Equal(t, 0, shown[0].Position().Y())
	assert.Equal(t, 65, shown[1].Position().Y())
	assert.Equal(t, 130, shown[2].Position().Y())
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 3, a.Positions().Len())
	assert.Len(t, surf.Elements(), 3)

	for _, al := range shown {
		assert.Equal(t, StateVisible, al.State())
		assert.Equal(t, 0, al.Position().X())
		assert.Equal(t, stack.BottomRight, al.Position().Orientation())
	}
}

func TestAlerter_EndToEndReflow(t *testing.T) {
	a, _, _ := newTestAlerter(t)

	alertA, err := a.Show("A")
	require.NoError(t, err)
	assert.Equal(t, 0, alertA.Position().X())
	assert.Equal(t, 0, alertA.Position().Y())

	alertB, err := a.Show("B")
	require.NoError(t, err)
	assert.Equal(t, 65, alertB.Position().Y())

	alertA.Close()
	assert.Equal(t, 0, alertB.Position().Y())

	alertC, err := a.Show("C")
	require.NoError(t, err)
	assert.Equal(t, 65, alertC.Position().Y())
}

func TestAlerter_ElementBuiltOffscreenThenStacked(t *testing.T) {
	surf := memsurface.New()
	var seen []int
	probe := &probeSurface{Surface: surf, onAttach: func(e surface.Element) {
		seen = append(seen, e.Offset(surface.EdgeRight), e.Offset(surface.EdgeBottom))
	}}
	a := New(probe, clock.NewManual(), DefaultOptions(), nil)

	al, err := a.Show("x")
	require.NoError(t, err)
	assert.Equal(t, []int{OffscreenOffset, OffscreenOffset}, seen)
	assert.Equal(t, 0, al.Position().Y())
}

type probeSurface struct {
	*memsurface.Surface
	onAttach func(surface.Element)
}

func (p *probeSurface) Attach(e surface.Element) error {
	p.onAttach(e)
	return p.Surface.Attach(e)
}

func TestAlert_HideIsIdempotent(t *testing.T) {
	a, surf, _ := newTestAlerter(t)

	closes := 0
	al, err := a.ShowWith(Settings{Text: "x", OnClose: func(*Alert) { closes++ }})
	require.NoError(t, err)

	assert.Same(t, al, al.Hide())
	assert.Same(t, al, al.Close())
	al.Hide()

	assert.Equal(t, 1, closes)
	assert.Equal(t, 1, surf.Detaches())
	assert.True(t, al.Removed())
	assert.Equal(t, StateRemoved, al.State())
	assert.Equal(t, ReasonClosed, al.Reason())
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 0, a.Positions().Len())
}

func TestAlert_OnCloseRunsBeforeReflow(t *testing.T) {
	a, _, _ := newTestAlerter(t)

	var second *Alert
	var secondY int
	first, err := a.ShowWith(Settings{OnClose: func(*Alert) {
		secondY = second.Position().Y()
	}})
	require.NoError(t, err)
	second, err = a.Show("second")
	require.NoError(t, err)

	first.Close()
	assert.Equal(t, 65, secondY, "stack is compacted after OnClose")
	assert.Equal(t, 0, second.Position().Y())
}

func TestAlert_CloseInsideOnCloseDoesNotRecurse(t *testing.T) {
	a, surf, _ := newTestAlerter(t)

	calls := 0
	_, err := a.ShowWith(Settings{OnClose: func(al *Alert) {
		calls++
		al.Close()
	}})
	require.NoError(t, err)

	a.Visible()[0].Close()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, surf.Detaches())
}

func TestAlert_AutohideFadesAndRemoves(t *testing.T) {
	a, surf, m := newTestAlerter(t)

	var reason CloseReason
	al, err := a.ShowWith(Settings{OnClose: func(al *Alert) { reason = al.Reason() }})
	require.NoError(t, err)
	el := element(t, al)

	m.Advance(3*time.Second - time.Millisecond)
	assert.Equal(t, StateVisible, al.State())
	assert.Empty(t, el.OpacityHistory())

	m.Advance(time.Millisecond)
	assert.Equal(t, StateFading, al.State())
	assert.Equal(t, []int{95}, el.OpacityHistory())

	m.Advance(19 * 25 * time.Millisecond)
	assert.Len(t, el.OpacityHistory(), 20)
	assert.Equal(t, 0, el.Opacity())
	assert.False(t, al.Removed())

	m.Advance(25 * time.Millisecond)
	assert.True(t, al.Removed())
	assert.Equal(t, ReasonExpired, reason)
	assert.Equal(t, 1, surf.Detaches())
	assert.Equal(t, 0, m.Pending())
}

func TestAlert_CustomDurationAndFade(t *testing.T) {
	a, _, m := newTestAlerter(t)

	al, err := a.ShowWith(Settings{Duration: 500 * time.Millisecond, FadeStep: 30, FadeSpeed: 10 * time.Millisecond})
	require.NoError(t, err)
	el := element(t, al)

	m.Advance(500 * time.Millisecond)
	m.Advance(40 * time.Millisecond)
	assert.Equal(t, []int{70, 40, 10, 0}, el.OpacityHistory())
	assert.True(t, al.Removed())
}

func TestAlert_NoAutohideStaysVisible(t *testing.T) {
	a, _, m := newTestAlerter(t)

	al, err := a.ShowWith(Settings{Autohide: Bool(false)})
	require.NoError(t, err)

	m.Advance(time.Hour)
	assert.Equal(t, StateVisible, al.State())
	assert.Equal(t, 0, m.Pending())
}

func TestAlert_CloseDuringFadeStopsFade(t *testing.T) {
	a, _, m := newTestAlerter(t)

	closes := 0
	al, err := a.ShowWith(Settings{OnClose: func(*Alert) { closes++ }})
	require.NoError(t, err)
	el := element(t, al)

	m.Advance(3*time.Second + 50*time.Millisecond)
	require.Equal(t, StateFading, al.State())
	updates := len(el.OpacityHistory())

	al.Close()
	m.RunAll(1000)
	assert.Len(t, el.OpacityHistory(), updates)
	assert.Equal(t, 1, closes)
	assert.Equal(t, ReasonClosed, al.Reason())
}

func TestAlert_ClickFiresOnceAndDoesNotHide(t *testing.T) {
	a, _, _ := newTestAlerter(t)

	clicks := 0
	al, err := a.ShowWith(Settings{Autohide: Bool(false), OnClick: func(*Alert) { clicks++ }})
	require.NoError(t, err)
	el := element(t, al)

	assert.True(t, el.Click())
	assert.False(t, el.Click())
	assert.Equal(t, 1, clicks)
	assert.Equal(t, StateVisible, al.State())
	assert.False(t, al.Removed())
}

func TestAlert_ClickCanDismiss(t *testing.T) {
	a, _, _ := newTestAlerter(t)

	al, err := a.ShowWith(Settings{OnClick: func(al *Alert) { al.Dismiss() }})
	require.NoError(t, err)

	element(t, al).Click()
	assert.True(t, al.Removed())
	assert.Equal(t, ReasonDismissed, al.Reason())
}

func TestAlerter_OrientationsDoNotInteract(t *testing.T) {
	a, _, _ := newTestAlerter(t)

	br, err := a.Show("br")
	require.NoError(t, err)
	tl, err := a.ShowWith(Settings{XOrientation: "left", YOrientation: "top"})
	require.NoError(t, err)
	br2, err := a.Show("br2")
	require.NoError(t, err)
	tl2, err := a.ShowWith(Settings{XOrientation: "left", YOrientation: "top"})
	require.NoError(t, err)

	assert.Equal(t, 0, tl.Position().Y())
	assert.Equal(t, 65, tl2.Position().Y())
	assert.Equal(t, 65, br2.Position().Y())

	br.Close()
	assert.Equal(t, 0, br2.Position().Y())
	assert.Equal(t, 0, tl.Position().Y())
	assert.Equal(t, 65, tl2.Position().Y())
}

func TestAlerter_InvalidSettingsShowNothing(t *testing.T) {
	a, surf, _ := newTestAlerter(t)

	al, err := a.ShowWith(Settings{XOrientation: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidOrientation)
	assert.Nil(t, al)
	assert.Equal(t, 0, surf.Attaches())
	assert.Equal(t, 0, a.Positions().Len())
}

func TestAlerter_PresentationReachesSurface(t *testing.T) {
	a, _, _ := newTestAlerter(t)

	al, err := a.ShowWith(Settings{Text: "styled", ID: "toast", Class: "warn"})
	require.NoError(t, err)
	spec := element(t, al).Spec()
	assert.Equal(t, "styled", spec.Text)
	assert.Equal(t, surface.Identified{ID: "toast", Class: "warn"}, spec.Presentation)

	al, err = a.Show("plain")
	require.NoError(t, err)
	_, inline := element(t, al).Spec().Presentation.(surface.Inline)
	assert.True(t, inline)
}

func TestAlerter_CloseAllAndFind(t *testing.T) {
	a, surf, _ := newTestAlerter(t)

	first, err := a.Show("1")
	require.NoError(t, err)
	_, err = a.Show("2")
	require.NoError(t, err)

	found, ok := a.Find(first.ID())
	require.True(t, ok)
	assert.Same(t, first, found)

	newest, ok := a.Newest()
	require.True(t, ok)
	assert.Equal(t, "2", newest.Text())

	a.CloseAll()
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 2, surf.Detaches())
	_, ok = a.Newest()
	assert.False(t, ok)
}

func TestAlerter_SetDefaults(t *testing.T) {
	a, _, _ := newTestAlerter(t)

	d := DefaultOptions()
	d.Orientation = stack.TopLeft
	d.Duration = 0
	a.SetDefaults(d)
	assert.Equal(t, DefaultDuration, a.Defaults().Duration)

	al, err := a.Show("x")
	require.NoError(t, err)
	assert.Equal(t, stack.TopLeft, al.Position().Orientation())
}

func TestAlerter_ShownAtUsesInjectedClock(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	a := New(memsurface.New(), clock.NewManual(), DefaultOptions(), nil, WithNow(func() time.Time { return at }))

	al, err := a.Show("x")
	require.NoError(t, err)
	assert.Equal(t, at, al.ShownAt())
	assert.Equal(t, 100, al.Opacity())
}
