// Package theme provides style sheets for alerts. A theme has a default
// inline style map and a set of #id and .class rules for alerts that are
// styled externally. Themes are TOML; a few are bundled and users may add
// or override them in their config directory.
package theme
