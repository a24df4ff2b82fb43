package daemon

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmylchreest/alerter/internal/alert"
	"github.com/jmylchreest/alerter/internal/clock"
	"github.com/jmylchreest/alerter/internal/config"
	"github.com/jmylchreest/alerter/internal/dbus"
	"github.com/jmylchreest/alerter/internal/model"
	"github.com/jmylchreest/alerter/internal/surface"
	"github.com/jmylchreest/alerter/internal/theme"
)

// DefaultAction is the action key invoked when an alert is clicked.
const DefaultAction = "default"

// Signaler emits notification signals back to D-Bus clients.
type Signaler interface {
	CloseWithReason(id uint32, reason dbus.CloseReason) error
	EmitActionInvoked(id uint32, actionKey string) error
}

// SoundPlayer plays the sound for a shown notification.
type SoundPlayer interface {
	Play(n *model.Notification) error
	UpdateConfig(cfg *config.Config)
}

// themedSurface is implemented by surfaces that restyle on theme changes.
type themedSurface interface {
	SetTheme(th *theme.Theme)
}

// Service turns D-Bus notifications into alerts. It must be driven from the
// loop the scheduler posts callbacks on.
type Service struct {
	logger   *slog.Logger
	surface  surface.Surface
	alerter  *alert.Alerter
	signals  Signaler
	sound    SoundPlayer
	notifier *InternalNotifier
	states   *DisplayStateManager

	cfg   *config.Config
	theme *theme.Theme

	alerts map[uint32]*alert.Alert
}

// ServiceOptions holds the collaborators of a Service. Sound and Notifier
// are optional.
type ServiceOptions struct {
	Surface   surface.Surface
	Scheduler clock.Scheduler
	Config    *config.Config
	Theme     *theme.Theme
	Signals   Signaler
	Sound     SoundPlayer
	Notifier  *InternalNotifier
	Now       func() time.Time
	Logger    *slog.Logger
}

// NewService builds the alert stack for opts.Surface from the configuration.
func NewService(opts ServiceOptions) (*Service, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Theme == nil {
		opts.Theme = theme.NewDefaultTheme()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	defaults, err := opts.Config.AlertDefaults(opts.Theme)
	if err != nil {
		return nil, fmt.Errorf("alert defaults: %w", err)
	}
	return &Service{
		logger:   opts.Logger,
		surface:  opts.Surface,
		alerter:  alert.New(opts.Surface, opts.Scheduler, defaults, opts.Logger, alert.WithNow(opts.Now)),
		signals:  opts.Signals,
		sound:    opts.Sound,
		notifier: opts.Notifier,
		states:   NewDisplayStateManager(opts.Now),
		cfg:      opts.Config,
		theme:    opts.Theme,
		alerts:   make(map[uint32]*alert.Alert),
	}, nil
}

// Notify shows dn as the alert for D-Bus id. A notification replacing an
// id that is still on screen takes over its slot without a close signal.
func (s *Service) Notify(dn *dbus.DBusNotification, id uint32) error {
	n := dn.ToNotification()
	if err := n.Validate(); err != nil {
		s.logger.Warn("rejected notification", "id", id, "app", dn.AppName, "error", err)
		_ = s.signals.CloseWithReason(id, dbus.CloseReasonUndefined)
		return err
	}

	if old, ok := s.alerts[id]; ok {
		s.states.SetStatus(id, DisplayStatusReplaced)
		old.Close()
	}

	settings := s.cfg.Settings(n, s.theme)
	settings.OnClose = func(a *alert.Alert) { s.closed(id, a) }
	invoke, resident := dn.HasAction(DefaultAction), dn.Resident()
	settings.OnClick = func(a *alert.Alert) { s.clicked(id, a, invoke, resident) }

	a, err := s.alerter.ShowWith(settings)
	if err != nil {
		_ = s.signals.CloseWithReason(id, dbus.CloseReasonUndefined)
		return fmt.Errorf("show notification %d: %w", id, err)
	}
	s.alerts[id] = a
	s.states.Register(id, a.ID().String(), n.AppName)
	s.logger.Debug("notification shown", "id", id, "alert", a.ID(), "urgency", model.UrgencyName(n.Urgency))

	if s.sound != nil && !n.SuppressSound {
		if err := s.sound.Play(n); err != nil {
			s.logger.Warn("failed to play sound", "id", id, "error", err)
			if s.notifier != nil {
				s.notifier.NotifyAudioError(err)
			}
		}
	}
	return nil
}

// Close hides the alert for id on request of a D-Bus client.
func (s *Service) Close(id uint32) {
	if a, ok := s.alerts[id]; ok {
		a.Close()
	}
}

// CloseAll hides every alert.
func (s *Service) CloseAll() {
	s.alerter.CloseAll()
}

// clicked invokes the default action when the sender offered one, then
// dismisses the alert. Resident notifications stay after their action.
func (s *Service) clicked(id uint32, a *alert.Alert, invoke, resident bool) {
	if invoke {
		if err := s.signals.EmitActionInvoked(id, DefaultAction); err != nil {
			s.logger.Warn("failed to emit action", "id", id, "error", err)
		}
		if resident {
			return
		}
	}
	a.Dismiss()
}

// closed runs when an alert starts hiding.
func (s *Service) closed(id uint32, a *alert.Alert) {
	if s.alerts[id] == a {
		delete(s.alerts, id)
	}
	if !s.states.SetStatus(id, statusForReason(a.Reason())) {
		// Replaced: the id lives on in the newer alert.
		return
	}
	if err := s.signals.CloseWithReason(id, dbus.CloseReason(a.Reason())); err != nil {
		s.logger.Warn("failed to emit close", "id", id, "reason", a.Reason(), "error", err)
	}
}

// Reload applies a new configuration and theme to alerts shown from now on.
func (s *Service) Reload(cfg *config.Config, th *theme.Theme) error {
	if th == nil {
		th = s.theme
	}
	defaults, err := cfg.AlertDefaults(th)
	if err != nil {
		return fmt.Errorf("alert defaults: %w", err)
	}
	s.alerter.SetDefaults(defaults)
	s.cfg, s.theme = cfg, th
	if ts, ok := s.surface.(themedSurface); ok {
		ts.SetTheme(th)
	}
	if s.sound != nil {
		s.sound.UpdateConfig(cfg)
	}
	s.logger.Info("configuration applied", "theme", th.Name)
	return nil
}

// Alert returns the alert showing D-Bus id.
func (s *Service) Alert(id uint32) (*alert.Alert, bool) {
	a, ok := s.alerts[id]
	return a, ok
}

// Config returns the configuration in use.
func (s *Service) Config() *config.Config { return s.cfg }

// Theme returns the theme in use.
func (s *Service) Theme() *theme.Theme { return s.theme }

// States returns the display state registry.
func (s *Service) States() *DisplayStateManager { return s.states }

// Alerter returns the underlying stacking context.
func (s *Service) Alerter() *alert.Alerter { return s.alerter }
