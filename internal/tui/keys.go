package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the demo.
type KeyMap struct {
	// Spawning
	SpawnTopLeft     key.Binding
	SpawnTopRight    key.Binding
	SpawnBottomLeft  key.Binding
	SpawnBottomRight key.Binding
	Spawn            key.Binding

	// Alerts
	CloseNewest    key.Binding
	CloseAll       key.Binding
	ToggleAutohide key.Binding
	CycleLevel     key.Binding
	Copy           key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Spawn, k.CloseNewest, k.ToggleAutohide, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SpawnTopLeft, k.SpawnTopRight, k.SpawnBottomLeft, k.SpawnBottomRight, k.Spawn},
		{k.CloseNewest, k.CloseAll, k.Copy},
		{k.ToggleAutohide, k.CycleLevel},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		SpawnTopLeft: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "top-left"),
		),
		SpawnTopRight: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "top-right"),
		),
		SpawnBottomLeft: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "bottom-left"),
		),
		SpawnBottomRight: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "bottom-right"),
		),
		Spawn: key.NewBinding(
			key.WithKeys("n", "enter"),
			key.WithHelp("n", "new alert"),
		),
		CloseNewest: key.NewBinding(
			key.WithKeys("x", "backspace"),
			key.WithHelp("x", "close newest"),
		),
		CloseAll: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "close all"),
		),
		ToggleAutohide: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle autohide"),
		),
		CycleLevel: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "cycle level"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy newest"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
