// Package main is the entry point for the alerterd notification daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/alerter/internal/audio"
	"github.com/jmylchreest/alerter/internal/clock"
	"github.com/jmylchreest/alerter/internal/config"
	"github.com/jmylchreest/alerter/internal/daemon"
	"github.com/jmylchreest/alerter/internal/dbus"
	"github.com/jmylchreest/alerter/internal/surface/gtksurface"
	"github.com/jmylchreest/alerter/internal/theme"
)

const (
	appID   = "io.github.jmylchreest.alerterd"
	appName = "alerterd"

	// stateRetention is how long closed display states are kept.
	stateRetention = 10 * time.Minute
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/alerter/config.toml)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	startupNotice := flag.Bool("startup-notice", false, "Show an alert once the daemon is ready")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("alerterd version", version)
		os.Exit(0)
	}

	// Set up structured logging
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	path := *configPath
	if path == "" {
		path = config.Path()
	}

	os.Exit(run(path, *startupNotice, logger))
}

// run starts the GTK application and blocks until it exits.
func run(configPath string, startupNotice bool, logger *slog.Logger) int {
	logger.Info("starting alerterd", "version", version)

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", "path", configPath, "error", err)
		return 1
	}

	// Create the libadwaita application
	app := adw.NewApplication(appID, 0)

	// Shared state between GTK main loop and signal handlers
	var (
		dbusServer       *dbus.NotificationServer
		scheduler        *clock.TimerScheduler
		audioManager     *audio.Manager
		service          *daemon.Service
		hotReloader      *daemon.HotReloader
		internalNotifier *daemon.InternalNotifier
		running          atomic.Bool
	)

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
		case <-ctx.Done():
			return
		}
		cancel()
		glib.IdleAdd(func() {
			if running.Load() {
				app.Quit()
			}
		})
	}()

	stop := func() {
		if hotReloader != nil {
			hotReloader.Stop()
		}
		if scheduler != nil {
			scheduler.Stop()
		}
		if service != nil {
			service.CloseAll()
		}
		if dbusServer != nil {
			_ = dbusServer.Stop()
		}
		if audioManager != nil {
			audioManager.Stop()
		}
	}

	// Handle application activation
	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		th, err := cfg.LoadTheme()
		if err != nil {
			logger.Warn("failed to load theme, using default", "theme", cfg.Alert.Theme, "error", err)
			th = theme.NewDefaultTheme()
		}

		surf, err := gtksurface.New(&app.Application, th, gtksurface.Config{
			OffsetX:   cfg.Display.OffsetX,
			OffsetY:   cfg.Display.OffsetY,
			Namespace: cfg.Display.Namespace,
		}, logger)
		if err != nil {
			logger.Error("failed to create surface", "error", err)
			app.Quit()
			return
		}

		// Every alert timer fires on the GTK main loop
		scheduler = clock.NewTimerScheduler(gtksurface.Post)

		// Initialize audio manager
		audioManager = audio.NewManager(cfg, audio.SpeakerOutput{}, logger)
		audioManager.Start()

		// Initialize D-Bus server
		dbusServer = dbus.NewNotificationServer(logger)
		info := dbus.DefaultServerInfo()
		info.Name = appName
		info.Version = version
		dbusServer.SetServerInfo(info)

		// Initialize internal notifier for self-notifications
		internalNotifier = daemon.NewInternalNotifier(logger)
		internalNotifier.SetNotifyHandler(dbusServer.NotifyInternal)

		service, err = daemon.NewService(daemon.ServiceOptions{
			Surface:   surf,
			Scheduler: scheduler,
			Config:    cfg,
			Theme:     th,
			Signals:   dbusServer,
			Sound:     audioManager,
			Notifier:  internalNotifier,
			Logger:    logger,
		})
		if err != nil {
			logger.Error("failed to create alert service", "error", err)
			app.Quit()
			return
		}

		// D-Bus calls arrive on the dispatch goroutine; the service runs on the GTK loop
		dbusServer.SetNotifyHandler(func(notification *dbus.DBusNotification, id uint32) {
			glib.IdleAdd(func() {
				if err := service.Notify(notification, id); err != nil {
					logger.Warn("failed to show notification", "id", id, "error", err)
				}
			})
		})
		dbusServer.SetCloseHandler(func(id uint32) {
			glib.IdleAdd(func() {
				service.Close(id)
			})
		})

		// Start D-Bus server
		if err := dbusServer.Start(); err != nil {
			logger.Error("failed to start D-Bus server", "error", err)
			app.Quit()
			return
		}

		// Initialize hot reload for the config file and user theme
		hotReloader = daemon.NewHotReloader(configPath, service, internalNotifier, gtksurface.Post, logger)
		if err := hotReloader.Start(ctx); err != nil {
			logger.Warn("failed to start hot reload", "error", err)
		}

		go pruneStates(ctx, service, logger)

		logger.Info("alerterd ready", "dbus_interface", dbus.DBusInterface, "theme", th.Name)
		if startupNotice {
			internalNotifier.NotifyStartup(version)
		}

		// Create a hidden window to keep the application running
		// (GTK apps quit when all windows are closed)
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	// Handle shutdown
	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		stop()
		running.Store(false)
	})

	// Run the application
	status := app.Run(os.Args[:1])
	cancel()

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		return status
	}

	logger.Info("alerterd stopped")
	return 0
}

// pruneStates drops old closed display states until ctx is cancelled.
func pruneStates(ctx context.Context, svc *daemon.Service, logger *slog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			cutoff := now.Add(-stateRetention)
			gtksurface.Post(func() {
				if n := svc.States().Prune(cutoff); n > 0 {
					logger.Debug("pruned display states", "count", n)
				}
			})
		}
	}
}
