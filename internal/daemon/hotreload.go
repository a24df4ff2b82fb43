package daemon

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jmylchreest/alerter/internal/clock"
	"github.com/jmylchreest/alerter/internal/config"
	"github.com/jmylchreest/alerter/internal/theme"
)

// HotReloader applies config file and user theme edits to a running
// Service. Watchers report on their own goroutines; every change is posted
// to the service's loop before it is applied.
type HotReloader struct {
	mu     sync.Mutex
	logger *slog.Logger

	configPath string
	service    *Service
	notifier   *InternalNotifier
	post       clock.Poster
	loadTheme  func(cfg *config.Config) (*theme.Theme, error)

	configWatcher *config.Watcher
	themeWatcher  *theme.Watcher
	cancel        context.CancelFunc
	running       bool
}

// NewHotReloader creates a reloader for the config file at configPath.
// A nil notifier disables reload notifications.
func NewHotReloader(configPath string, svc *Service, notifier *InternalNotifier, post clock.Poster, logger *slog.Logger) *HotReloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &HotReloader{
		logger:     logger,
		configPath: configPath,
		service:    svc,
		notifier:   notifier,
		post:       post,
		loadTheme:  (*config.Config).LoadTheme,
	}
}

// Start begins watching the config file and the current user theme.
func (h *HotReloader) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return nil
	}

	cw, err := config.NewWatcher(h.configPath, h.logger)
	if err != nil {
		return err
	}
	cw.OnChange(func(cfg *config.Config) {
		h.post(func() { h.ApplyConfig(cfg) })
	})
	cw.OnError(func(err error) {
		h.post(func() { h.reportConfigError(err) })
	})
	if err := cw.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	tw := theme.NewWatcher(h.service.Theme(), h.logger)
	tw.SetChangeCallback(func(th *theme.Theme) {
		h.post(func() { h.ApplyTheme(th) })
	})
	if err := tw.Start(ctx); err != nil {
		cancel()
		_ = cw.Stop()
		return err
	}

	h.configWatcher, h.themeWatcher, h.cancel = cw, tw, cancel
	h.running = true
	h.logger.Debug("hot reload started", "config", h.configPath)
	return nil
}

// Stop stops both watchers.
func (h *HotReloader) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return
	}
	h.running = false
	h.cancel()
	h.themeWatcher.Stop()
	if err := h.configWatcher.Stop(); err != nil {
		h.logger.Warn("failed to stop config watcher", "error", err)
	}
}

// ApplyConfig loads the theme named by cfg and reloads the service. A theme
// that fails to load keeps the current one.
func (h *HotReloader) ApplyConfig(cfg *config.Config) {
	th, err := h.loadTheme(cfg)
	if err != nil {
		h.logger.Warn("failed to load theme", "name", cfg.Alert.Theme, "error", err)
		if h.notifier != nil {
			h.notifier.NotifyThemeError(err)
		}
		th = h.service.Theme()
	}
	if err := h.service.Reload(cfg, th); err != nil {
		h.reportConfigError(err)
		return
	}

	h.mu.Lock()
	if h.themeWatcher != nil {
		h.themeWatcher.UpdateTheme(th)
	}
	h.mu.Unlock()

	if h.notifier != nil {
		h.notifier.NotifyConfigReloaded()
	}
}

// ApplyTheme restyles the service with an edited theme.
func (h *HotReloader) ApplyTheme(th *theme.Theme) {
	if err := h.service.Reload(h.service.Config(), th); err != nil {
		h.logger.Warn("failed to apply theme", "name", th.Name, "error", err)
		if h.notifier != nil {
			h.notifier.NotifyThemeError(err)
		}
		return
	}
	if h.notifier != nil {
		h.notifier.NotifyThemeReloaded(th.Name)
	}
}

func (h *HotReloader) reportConfigError(err error) {
	h.logger.Warn("configuration not applied", "error", err)
	if h.notifier != nil {
		h.notifier.NotifyConfigError(err)
	}
}
