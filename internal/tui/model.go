// Package tui provides the BubbleTea-based alert playground. Alerts are
// drawn by the terminal surface over a plain backdrop; timers are posted
// back into the program so every alert callback runs inside Update.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/alerter/internal/alert"
	"github.com/jmylchreest/alerter/internal/clock"
	"github.com/jmylchreest/alerter/internal/config"
	"github.com/jmylchreest/alerter/internal/model"
	"github.com/jmylchreest/alerter/internal/stack"
	"github.com/jmylchreest/alerter/internal/surface/termsurface"
	"github.com/jmylchreest/alerter/internal/theme"
)

// maxEvents bounds the close history kept for the status line.
const maxEvents = 20

// Model is the demo model. It is used by pointer: alert callbacks close
// over it.
type Model struct {
	cfg     *config.Config
	surface *termsurface.Surface
	alerter *alert.Alerter
	logger  *slog.Logger

	keys KeyMap
	help help.Model

	width  int
	height int
	ready  bool

	autohide bool
	level    model.Level
	seq      int
	events   []closeEvent

	statusMsg string
	statusErr bool

	now  func() time.Time
	copy func(text string) error
}

type closeEvent struct {
	label  string
	reason alert.CloseReason
	at     time.Time
}

// timerMsg carries a scheduler callback into Update.
type timerMsg struct {
	fn func()
}

type tickMsg time.Time

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

// New creates the demo model drawing th on a terminal surface. sched must
// deliver its callbacks through Update as timerMsg, as Run arranges.
func New(cfg *config.Config, th *theme.Theme, sched clock.Scheduler, logger *slog.Logger) (*Model, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if th == nil {
		th = theme.NewDefaultTheme()
	}
	if logger == nil {
		logger = slog.Default()
	}

	surf := termsurface.New(th, termsurface.WithBackground(cfg.Terminal.Background))
	defaults, err := cfg.AlertDefaults(th)
	if err != nil {
		return nil, fmt.Errorf("alert defaults: %w", err)
	}

	m := &Model{
		cfg:      cfg,
		surface:  surf,
		alerter:  alert.New(surf, sched, defaults, logger),
		logger:   logger,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		autohide: cfg.Alert.Autohide,
		now:      time.Now,
	}
	m.copy = func(text string) error { return copyText(text, cfg.Terminal.Clipboard) }
	return m, nil
}

// Init starts the status line clock.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			m.surface.Click(msg.X, msg.Y)
		}
		return m, nil

	case timerMsg:
		msg.fn()
		return m, nil

	case tickMsg:
		return m, tick()

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, status("Copy failed: "+msg.err.Error(), true)
		}
		return m, status("Copied to clipboard", false)
	}

	return m, nil
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isErr: isErr} }
}

// handleKey handles key presses.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.alerter.CloseAll()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()

	case key.Matches(msg, m.keys.SpawnTopLeft):
		return m, m.spawn(stack.TopLeft)
	case key.Matches(msg, m.keys.SpawnTopRight):
		return m, m.spawn(stack.TopRight)
	case key.Matches(msg, m.keys.SpawnBottomLeft):
		return m, m.spawn(stack.BottomLeft)
	case key.Matches(msg, m.keys.SpawnBottomRight):
		return m, m.spawn(stack.BottomRight)
	case key.Matches(msg, m.keys.Spawn):
		return m, m.spawn(m.alerter.Defaults().Orientation)

	case key.Matches(msg, m.keys.CloseNewest):
		if a, ok := m.alerter.Newest(); ok {
			a.Close()
		}

	case key.Matches(msg, m.keys.CloseAll):
		m.alerter.CloseAll()

	case key.Matches(msg, m.keys.ToggleAutohide):
		m.autohide = !m.autohide
		return m, status("Autohide "+onOff(m.autohide)+" for new alerts", false)

	case key.Matches(msg, m.keys.CycleLevel):
		m.level = nextLevel(m.level)

	case key.Matches(msg, m.keys.Copy):
		a, ok := m.alerter.Newest()
		if !ok {
			return m, status("Nothing to copy", true)
		}
		text := a.Text()
		return m, func() tea.Msg { return copyResultMsg{err: m.copy(text)} }
	}
	return m, nil
}

// spawn shows the next numbered alert at o.
func (m *Model) spawn(o stack.Orientation) tea.Cmd {
	m.seq++
	label := fmt.Sprintf("Alert #%d", m.seq)
	s := alert.Settings{
		Text:         label,
		XOrientation: o.XName(),
		YOrientation: o.YName(),
		Autohide:     alert.Bool(m.autohide),
		OnClose: func(a *alert.Alert) {
			m.record(label, a.Reason())
		},
		OnClick: func(a *alert.Alert) {
			a.Dismiss()
		},
	}
	if m.level != model.LevelNone {
		s.Text = label + " (" + string(m.level) + ")"
		s.Class = string(m.level)
	}
	if _, err := m.alerter.ShowWith(s); err != nil {
		return status(err.Error(), true)
	}
	return nil
}

func (m *Model) record(label string, reason alert.CloseReason) {
	m.events = append(m.events, closeEvent{label: label, reason: reason, at: m.now()})
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
}

func nextLevel(l model.Level) model.Level {
	levels := append([]model.Level{model.LevelNone}, model.Levels()...)
	for i, candidate := range levels {
		if candidate == l {
			return levels[(i+1)%len(levels)]
		}
	}
	return model.LevelNone
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// layout gives the surface every row above the footer.
func (m *Model) layout() {
	footer := lipgloss.Height(m.footer())
	m.surface.SetSize(m.width, max(0, m.height-footer))
}

// View renders the TUI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.surface.Render(m.backdrop()) + "\n" + m.footer()
}

func (m *Model) backdrop() string {
	title := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render("alerter playground")
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1).
		Render("Spawn alerts in any corner; click one to dismiss it.")
	return title + "\n" + hint
}

func (m *Model) footer() string {
	return m.statusLine() + "\n" + m.help.View(m.keys)
}

// statusLine summarises the stack and the most recent close.
func (m *Model) statusLine() string {
	if m.statusMsg != "" {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			style = style.Foreground(lipgloss.Color("9"))
		}
		return ansi.Truncate(style.Render(m.statusMsg), m.width, "…")
	}

	level := string(m.level)
	if level == "" {
		level = "none"
	}
	parts := []string{
		fmt.Sprintf("%d visible", m.alerter.Len()),
		"autohide " + onOff(m.autohide),
		"level " + level,
	}
	if n := len(m.events); n > 0 {
		ev := m.events[n-1]
		parts = append(parts, fmt.Sprintf("last: %s %s %s",
			ev.label, ev.reason, humanize.RelTime(ev.at, m.now(), "ago", "from now")))
	}
	line := strings.Join(parts, " · ")
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(ansi.Truncate(line, m.width, "…"))
}

// RunOptions configures the demo.
type RunOptions struct {
	Config *config.Config
	Theme  *theme.Theme
	Logger *slog.Logger
}

// Run starts the demo and blocks until it exits.
func Run(opts RunOptions) error {
	var p *tea.Program
	sched := clock.NewTimerScheduler(func(fn func()) { p.Send(timerMsg{fn: fn}) })
	defer sched.Stop()

	m, err := New(opts.Config, opts.Theme, sched, opts.Logger)
	if err != nil {
		return err
	}

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if m.cfg.Terminal.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	p = tea.NewProgram(m, progOpts...)

	_, err = p.Run()
	return err
}
