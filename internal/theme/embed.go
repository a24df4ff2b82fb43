package theme

import (
	"embed"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// EmbeddedThemes contains all bundled theme files.
//
//go:embed themes/*.toml
var EmbeddedThemes embed.FS

// DefaultThemeName is the name of the built-in default theme.
const DefaultThemeName = "classic"

// GetEmbeddedTheme parses a bundled theme by name.
func GetEmbeddedTheme(name string) (*Theme, bool) {
	data, err := EmbeddedThemes.ReadFile("themes/" + name + ".toml")
	if err != nil {
		return nil, false
	}
	t, err := Parse(name, data)
	if err != nil {
		return nil, false
	}
	t.IsBundled = true
	return t, true
}

// ListEmbeddedThemes returns the names of all bundled themes, sorted.
func ListEmbeddedThemes() []string {
	var names []string

	entries, err := fs.ReadDir(EmbeddedThemes, "themes")
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext := filepath.Ext(entry.Name()); ext == ".toml" {
			names = append(names, strings.TrimSuffix(entry.Name(), ext))
		}
	}
	sort.Strings(names)
	return names
}

// IsEmbeddedTheme checks if a theme name is bundled.
func IsEmbeddedTheme(name string) bool {
	_, err := EmbeddedThemes.ReadFile("themes/" + name + ".toml")
	return err == nil
}
