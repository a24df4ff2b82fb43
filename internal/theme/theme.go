package theme

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/alerter/internal/surface"
)

// ErrThemeNotFound is returned when no user or bundled theme has the name.
var ErrThemeNotFound = errors.New("theme not found")

// Styles is a map of camelCase style properties to values.
type Styles map[string]string

// Theme is a named style sheet.
type Theme struct {
	Name        string            `toml:"name"`
	Description string            `toml:"description"`
	Styles      Styles            `toml:"styles"`
	Rules       map[string]Styles `toml:"rules"`

	Path      string    `toml:"-"` // empty for bundled themes
	ModTime   time.Time `toml:"-"`
	IsBundled bool      `toml:"-"`
}

// Parse decodes a theme from TOML. The name is used when the file has none.
func Parse(name string, data []byte) (*Theme, error) {
	t := &Theme{}
	if err := toml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse theme %q: %w", name, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	if t.Styles == nil {
		t.Styles = Styles{}
	}
	if t.Rules == nil {
		t.Rules = map[string]Styles{}
	}
	for selector := range t.Rules {
		if !strings.HasPrefix(selector, "#") && !strings.HasPrefix(selector, ".") {
			return nil, fmt.Errorf("theme %q: selector %q must start with # or .", name, selector)
		}
	}
	return t, nil
}

// NewTheme loads a theme file from disk.
func NewTheme(name, path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	t, err := Parse(name, data)
	if err != nil {
		return nil, err
	}
	t.Path = path
	t.ModTime = info.ModTime()
	return t, nil
}

// NewDefaultTheme returns the bundled default theme.
func NewDefaultTheme() *Theme {
	t, ok := GetEmbeddedTheme(DefaultThemeName)
	if !ok {
		return &Theme{Name: DefaultThemeName, Styles: Styles{}, Rules: map[string]Styles{}, IsBundled: true}
	}
	return t
}

// Load resolves a theme by name: a file in dir wins over a bundled theme of
// the same name. An empty name loads the default theme.
func Load(name, dir string) (*Theme, error) {
	if name == "" {
		name = DefaultThemeName
	}

	if dir != "" {
		path := filepath.Join(dir, name+".toml")
		if _, err := os.Stat(path); err == nil {
			return NewTheme(name, path)
		}
	}

	if t, ok := GetEmbeddedTheme(name); ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
}

// Reload re-reads a user theme from disk. It reports whether the file
// changed since it was last read. Bundled themes never change.
func (t *Theme) Reload() (bool, error) {
	if t.IsBundled {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}
	if !info.ModTime().After(t.ModTime) {
		return false, nil
	}

	fresh, err := NewTheme(t.Name, t.Path)
	if err != nil {
		return false, err
	}
	*t = *fresh
	return true, nil
}

// InlineStyles returns a copy of the default inline styles.
func (t *Theme) InlineStyles() map[string]string {
	return maps.Clone(map[string]string(t.Styles))
}

// StylesFor resolves the effective style map for a presentation. Inline
// styles are used as given. Identified elements start from the theme's
// styles, then apply class rules in the order listed, then the id rule.
func (t *Theme) StylesFor(p surface.Presentation) Styles {
	switch p := p.(type) {
	case surface.Inline:
		return Styles(maps.Clone(p.Styles))
	case surface.Identified:
		out := t.Styles.Clone()
		if out == nil {
			out = Styles{}
		}
		for _, class := range strings.Fields(p.Class) {
			maps.Copy(out, t.Rules["."+class])
		}
		if p.ID != "" {
			maps.Copy(out, t.Rules["#"+p.ID])
		}
		return out
	default:
		return t.Styles.Clone()
	}
}

// Clone returns a copy of s.
func (s Styles) Clone() Styles {
	return maps.Clone(s)
}

// ThemesDir returns the path to the user's themes directory.
func ThemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "alerter", "themes"), nil
}

// CreateThemesDir creates the themes directory if it doesn't exist.
func CreateThemesDir() error {
	themesDir, err := ThemesDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(themesDir, 0755)
}

// ThemeInfo provides basic theme information for listing.
type ThemeInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
	IsDefault   bool   `json:"is_default" yaml:"is_default"`
	IsBundled   bool   `json:"is_bundled" yaml:"is_bundled"`
}

// ListAvailableThemes lists bundled themes followed by user themes in dir.
// A user theme that overrides a bundled one replaces its entry.
func ListAvailableThemes(dir string) ([]ThemeInfo, error) {
	var themes []ThemeInfo
	index := make(map[string]int)

	for _, name := range ListEmbeddedThemes() {
		info := ThemeInfo{Name: name, IsDefault: name == DefaultThemeName, IsBundled: true}
		if t, ok := GetEmbeddedTheme(name); ok {
			info.Description = t.Description
		}
		index[name] = len(themes)
		themes = append(themes, info)
	}

	if dir == "" {
		return themes, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".toml" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".toml")
		info := ThemeInfo{
			Name:      name,
			Path:      filepath.Join(dir, entry.Name()),
			IsDefault: name == DefaultThemeName,
		}
		if t, err := NewTheme(name, info.Path); err == nil {
			info.Description = t.Description
		}
		if i, ok := index[name]; ok {
			themes[i] = info
			continue
		}
		index[name] = len(themes)
		themes = append(themes, info)
	}

	return themes, nil
}
