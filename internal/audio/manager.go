package audio

import (
	"log/slog"
	"os"
	"sync"

	"github.com/jmylchreest/alerter/internal/config"
	"github.com/jmylchreest/alerter/internal/model"
)

// Manager picks and plays the sound for each shown notification.
type Manager struct {
	mu     sync.RWMutex
	logger *slog.Logger
	player *Player
	config *config.Config

	sounds map[int]string // urgency to resolved path
}

// NewManager creates an audio manager playing through output.
func NewManager(cfg *config.Config, output Output, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	m := &Manager{
		logger: logger,
		player: NewPlayer(output, logger),
	}
	m.apply(cfg)
	return m
}

func (m *Manager) apply(cfg *config.Config) {
	sounds := make(map[int]string)
	for urgency := range model.UrgencyNames {
		path := cfg.SoundForUrgency(urgency)
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			m.logger.Warn("sound file not found", "urgency", model.UrgencyName(urgency), "path", path)
			continue
		}
		sounds[urgency] = path
	}

	m.mu.Lock()
	m.config = cfg
	m.sounds = sounds
	m.mu.Unlock()

	m.player.SetVolume(float64(cfg.Audio.Volume) / 100.0)
}

// Start preloads the configured sounds.
func (m *Manager) Start() {
	if !m.Enabled() {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for urgency, path := range m.sounds {
		if err := m.player.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "urgency", model.UrgencyName(urgency), "path", path, "error", err)
		}
	}
	m.logger.Debug("audio manager started", "sounds", len(m.sounds))
}

// Stop releases the audio output.
func (m *Manager) Stop() {
	m.player.Close()
}

// Enabled reports whether sounds are played at all.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.Audio.Enabled
}

// SoundFor returns the file that would play for n, or "".
func (m *Manager) SoundFor(n *model.Notification) string {
	if n.SuppressSound {
		return ""
	}
	if n.SoundFile != "" {
		return n.SoundFile
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sounds[n.Urgency]
}

// Play plays the sound for n, if any.
func (m *Manager) Play(n *model.Notification) error {
	if !m.Enabled() {
		return nil
	}
	path := m.SoundFor(n)
	if path == "" {
		return nil
	}
	return m.player.Play(path)
}

// UpdateConfig applies a reloaded configuration. Cached sounds are dropped
// so edited files are decoded again.
func (m *Manager) UpdateConfig(cfg *config.Config) {
	m.player.ClearCache()
	m.apply(cfg)
	m.Start()
	m.logger.Debug("audio manager config updated")
}

// Volume returns the current volume in [0, 1].
func (m *Manager) Volume() float64 {
	return m.player.Volume()
}
