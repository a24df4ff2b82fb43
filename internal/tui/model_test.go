package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/alerter/internal/alert"
	"github.com/jmylchreest/alerter/internal/clock"
	"github.com/jmylchreest/alerter/internal/config"
	"github.com/jmylchreest/alerter/internal/model"
	"github.com/jmylchreest/alerter/internal/theme"
)

func plainTheme() *theme.Theme {
	return &theme.Theme{
		Name:   "plain",
		Styles: theme.Styles{"margin": "1"},
		Rules:  map[string]theme.Styles{".info": {"bold": "true"}},
	}
}

func newTestModel(t *testing.T) (*Model, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual()
	m, err := New(config.DefaultConfig(), plainTheme(), clk, nil)
	require.NoError(t, err)
	m.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	return m, clk
}

func press(m *Model, keys string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return cmd
}

func TestModel_LayoutReservesFooter(t *testing.T) {
	m, _ := newTestModel(t)
	w, h := m.surface.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 18, h)

	press(m, "?")
	_, h = m.surface.Size()
	assert.Less(t, h, 18, "full help takes more rows")
}

func TestModel_SpawnAndCloseNewest(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "4")
	press(m, "4")
	require.Equal(t, 2, m.alerter.Len())
	assert.Contains(t, m.View(), "Alert #1")
	assert.Contains(t, m.View(), "Alert #2")

	press(m, "x")
	assert.Equal(t, 1, m.alerter.Len())
	require.Len(t, m.events, 1)
	assert.Equal(t, "Alert #2", m.events[0].label)
	assert.Equal(t, alert.ReasonClosed, m.events[0].reason)
	assert.Contains(t, m.statusLine(), "last: Alert #2 closed")

	press(m, "X")
	assert.Zero(t, m.alerter.Len())
}

func TestModel_SpawnCorners(t *testing.T) {
	m, _ := newTestModel(t)
	for _, k := range []string{"1", "2", "3", "4"} {
		press(m, k)
	}
	require.Equal(t, 4, m.alerter.Len())

	seen := map[string]bool{}
	for _, a := range m.alerter.Visible() {
		seen[a.Options().Orientation.String()] = true
		assert.Equal(t, 0, a.Position().Y(), "each corner has its own stack")
	}
	assert.Len(t, seen, 4)
}

func TestModel_AutohideRunsOnScheduler(t *testing.T) {
	m, clk := newTestModel(t)
	press(m, "n")

	clk.Advance(3500 * time.Millisecond)
	assert.Zero(t, m.alerter.Len())
	require.Len(t, m.events, 1)
	assert.Equal(t, alert.ReasonExpired, m.events[0].reason)
}

func TestModel_ToggleAutohide(t *testing.T) {
	m, clk := newTestModel(t)

	cmd := press(m, "a")
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, statusMsg{text: "Autohide off for new alerts"}, msg)
	m.Update(msg)
	assert.Contains(t, m.statusLine(), "Autohide off")

	press(m, "n")
	clk.Advance(time.Minute)
	assert.Equal(t, 1, m.alerter.Len())
}

func TestModel_MouseClickDismisses(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "1")

	els := m.surface.Elements()
	require.Len(t, els, 1)
	row, col, _, _ := els[0].Bounds()

	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, 1, m.alerter.Len(), "press alone does nothing")

	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Zero(t, m.alerter.Len())
	require.Len(t, m.events, 1)
	assert.Equal(t, alert.ReasonDismissed, m.events[0].reason)
}

func TestModel_LevelUsesClass(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, "l")
	assert.Equal(t, model.LevelInfo, m.level)

	press(m, "n")
	a, ok := m.alerter.Newest()
	require.True(t, ok)
	assert.Equal(t, alert.Identified{Class: "info"}, a.Options().Presentation)
	assert.Equal(t, "Alert #1 (info)", a.Text())
	assert.Contains(t, m.statusLine(), "level info")
}

func TestNextLevel(t *testing.T) {
	l := model.LevelNone
	seen := []model.Level{}
	for range len(model.Levels()) + 1 {
		l = nextLevel(l)
		seen = append(seen, l)
	}
	assert.Equal(t, model.LevelNone, seen[len(seen)-1])
	assert.Equal(t, model.Levels(), seen[:len(seen)-1])
}

func TestModel_TimerMsgRunsCallback(t *testing.T) {
	m, _ := newTestModel(t)
	ran := false
	m.Update(timerMsg{fn: func() { ran = true }})
	assert.True(t, ran)
}

func TestModel_Copy(t *testing.T) {
	m, _ := newTestModel(t)
	var copied string
	m.copy = func(text string) error {
		copied = text
		return nil
	}

	cmd := press(m, "c")
	require.NotNil(t, cmd)
	assert.Equal(t, statusMsg{text: "Nothing to copy", isErr: true}, cmd())

	press(m, "n")
	cmd = press(m, "c")
	msg := cmd()
	assert.Equal(t, copyResultMsg{}, msg)
	assert.Equal(t, "Alert #1", copied)

	m.copy = func(string) error { return errors.New("denied") }
	_, cmd = m.Update(press(m, "c")())
	assert.Equal(t, statusMsg{text: "Copy failed: denied", isErr: true}, cmd())
}

func TestDetectClipboardCommand(t *testing.T) {
	only := func(bin string) func(string) (string, error) {
		return func(name string) (string, error) {
			if name == bin {
				return "/usr/bin/" + name, nil
			}
			return "", errors.New("not found")
		}
	}

	assert.Equal(t, "pbcopy", detectClipboardCommand("pbcopy", only("wl-copy")))
	assert.Equal(t, "wl-copy", detectClipboardCommand("", only("wl-copy")))
	assert.Equal(t, "xclip -selection clipboard", detectClipboardCommand("", only("xclip")))
	assert.Equal(t, "xsel --clipboard --input", detectClipboardCommand("", only("xsel")))
	assert.Empty(t, detectClipboardCommand("", only("nothing")))
}
