// Package config handles loading, validating and watching the alerter
// configuration file.
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/alerter/internal/alert"
	"github.com/jmylchreest/alerter/internal/fade"
	"github.com/jmylchreest/alerter/internal/model"
	"github.com/jmylchreest/alerter/internal/stack"
	"github.com/jmylchreest/alerter/internal/theme"
)

// Config is the configuration shared by alerter and alerterd.
// Loaded from ~/.config/alerter/config.toml
type Config struct {
	Alert    AlertConfig    `toml:"alert" yaml:"alert"`
	Urgency  UrgencyConfig  `toml:"urgency" yaml:"urgency"`
	Display  DisplayConfig  `toml:"display" yaml:"display"`
	Terminal TerminalConfig `toml:"terminal" yaml:"terminal"`
	Audio    AudioConfig    `toml:"audio" yaml:"audio"`
}

// AlertConfig holds the defaults every alert starts from.
type AlertConfig struct {
	Text         string            `toml:"text" yaml:"text"`
	Duration     Duration          `toml:"duration" yaml:"duration"`     // before the fade starts
	FadeStep     int               `toml:"fade_step" yaml:"fade_step"`   // percent per tick
	FadeSpeed    Duration          `toml:"fade_speed" yaml:"fade_speed"` // delay between ticks
	XOrientation string            `toml:"x_orientation" yaml:"x_orientation"`
	YOrientation string            `toml:"y_orientation" yaml:"y_orientation"`
	Autohide     bool              `toml:"autohide" yaml:"autohide"`
	Theme        string            `toml:"theme" yaml:"theme"`
	Styles       map[string]string `toml:"styles,omitempty" yaml:"styles,omitempty"` // overlays the theme's inline styles
}

// UrgencyConfig holds per-urgency overrides.
type UrgencyConfig struct {
	Low      UrgencyLevelConfig `toml:"low" yaml:"low"`
	Normal   UrgencyLevelConfig `toml:"normal" yaml:"normal"`
	Critical UrgencyLevelConfig `toml:"critical" yaml:"critical"`
}

// UrgencyLevelConfig overrides alert defaults for one urgency level.
// A zero duration keeps [alert].duration.
type UrgencyLevelConfig struct {
	Duration Duration `toml:"duration" yaml:"duration"`
	Autohide bool     `toml:"autohide" yaml:"autohide"`
	Class    string   `toml:"class,omitempty" yaml:"class,omitempty"`
	Sound    string   `toml:"sound,omitempty" yaml:"sound,omitempty"`
}

// DisplayConfig contains settings for the desktop daemon.
type DisplayConfig struct {
	OffsetX   int    `toml:"offset_x" yaml:"offset_x"` // Pixels from screen edge
	OffsetY   int    `toml:"offset_y" yaml:"offset_y"` // Pixels from screen edge
	Namespace string `toml:"namespace" yaml:"namespace"`
}

// TerminalConfig contains settings for the terminal surface.
type TerminalConfig struct {
	Background string `toml:"background" yaml:"background"` // colour alerts fade into
	Mouse      bool   `toml:"mouse" yaml:"mouse"`
	// Clipboard is the copy command; empty auto-detects wl-copy, xclip or xsel.
	Clipboard string `toml:"clipboard,omitempty" yaml:"clipboard,omitempty"`
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
	Volume  int  `toml:"volume" yaml:"volume"` // 0-100
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Alert: AlertConfig{
			Text:         alert.DefaultText,
			Duration:     Duration(alert.DefaultDuration),
			FadeStep:     fade.DefaultStep,
			FadeSpeed:    Duration(fade.DefaultSpeed),
			XOrientation: "right",
			YOrientation: "bottom",
			Autohide:     true,
			Theme:        theme.DefaultThemeName,
		},
		Urgency: UrgencyConfig{
			Low:      UrgencyLevelConfig{Autohide: true},
			Normal:   UrgencyLevelConfig{Autohide: true},
			Critical: UrgencyLevelConfig{Duration: Duration(10 * time.Second), Autohide: false, Class: "error"},
		},
		Display: DisplayConfig{
			OffsetX:   10,
			OffsetY:   10,
			Namespace: "alerter",
		},
		Terminal: TerminalConfig{
			Background: "#000000",
			Mouse:      true,
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
		},
	}
}

// Dir returns the alerter config directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func Dir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "alerter")
}

// Path returns the path to the config file.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// ThemesDir returns the directory user themes are read from.
func ThemesDir() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "themes")
}

// Load loads the configuration from path.
// If the file doesn't exist, returns the default configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse overlays TOML data onto the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path atomically.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := stack.NewOrientation(c.Alert.XOrientation, c.Alert.YOrientation); err != nil {
		return err
	}
	if c.Alert.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %s", c.Alert.Duration.Duration())
	}
	if c.Alert.FadeStep < 1 || c.Alert.FadeStep > 100 {
		return fmt.Errorf("fade_step must be between 1 and 100, got %d", c.Alert.FadeStep)
	}
	if c.Alert.FadeSpeed <= 0 {
		return fmt.Errorf("fade_speed must be positive, got %s", c.Alert.FadeSpeed.Duration())
	}
	for name, u := range map[string]UrgencyLevelConfig{
		"low":      c.Urgency.Low,
		"normal":   c.Urgency.Normal,
		"critical": c.Urgency.Critical,
	} {
		if u.Duration < 0 {
			return fmt.Errorf("urgency.%s.duration must not be negative", name)
		}
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}
	return nil
}

// ForUrgency returns the overrides for an urgency level.
func (c *Config) ForUrgency(urgency int) UrgencyLevelConfig {
	switch urgency {
	case model.UrgencyLow:
		return c.Urgency.Low
	case model.UrgencyCritical:
		return c.Urgency.Critical
	default:
		return c.Urgency.Normal
	}
}

// SoundForUrgency returns the sound file for the urgency level with ~ expanded.
func (c *Config) SoundForUrgency(urgency int) string {
	return expandPath(c.ForUrgency(urgency).Sound)
}

// LoadTheme resolves the configured theme, user themes first.
func (c *Config) LoadTheme() (*theme.Theme, error) {
	return theme.Load(c.Alert.Theme, ThemesDir())
}

// AlertDefaults converts the [alert] section into alert options using th
// for the default inline styles. [alert.styles] overlays the theme.
func (c *Config) AlertDefaults(th *theme.Theme) (alert.Options, error) {
	orientation, err := stack.NewOrientation(c.Alert.XOrientation, c.Alert.YOrientation)
	if err != nil {
		return alert.Options{}, err
	}

	styles := alert.DefaultStyles()
	if th != nil {
		styles = th.InlineStyles()
	}
	maps.Copy(styles, c.Alert.Styles)

	return alert.Options{
		Text:         c.Alert.Text,
		Presentation: alert.Inline{Styles: styles},
		Duration:     c.Alert.Duration.Duration(),
		Fade:         fade.Config{Step: c.Alert.FadeStep, Speed: c.Alert.FadeSpeed.Duration()},
		Orientation:  orientation,
		Autohide:     c.Alert.Autohide,
	}, nil
}

// Settings builds alert settings for a notification: urgency overrides
// first, then the notification's own fields. Colour overrides start from
// th's inline styles.
func (c *Config) Settings(n *model.Notification, th *theme.Theme) alert.Settings {
	u := c.ForUrgency(n.Urgency)
	s := alert.Settings{
		Text:     n.Text(),
		Duration: u.Duration.Duration(),
		Autohide: alert.Bool(u.Autohide && c.Alert.Autohide),
	}

	if n.Timeout > 0 {
		s.Duration = n.Timeout
		s.Autohide = alert.Bool(true)
	}
	if n.Sticky {
		s.Autohide = alert.Bool(false)
	}

	if n.Position != "" {
		if y, x, ok := strings.Cut(n.Position, "-"); ok {
			s.XOrientation, s.YOrientation = x, y
		} else {
			s.YOrientation = n.Position
		}
	}

	classes := strings.TrimSpace(u.Class + " " + n.Classes())
	if n.ID != "" || classes != "" {
		s.ID = n.ID
		s.Class = classes
	}
	if n.Foreground != "" || n.Background != "" {
		s.ID, s.Class = "", ""
		base := alert.DefaultStyles()
		if th != nil {
			base = th.InlineStyles()
		}
		maps.Copy(base, c.Alert.Styles)
		if n.Foreground != "" {
			base["color"] = n.Foreground
		}
		if n.Background != "" {
			base["backgroundColor"] = n.Background
		}
		s.Styles = base
	}
	return s
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
