// Package surface defines the presentation surface that alerts are drawn on.
// Implementations live in subpackages: memsurface for tests and headless runs,
// termsurface for the terminal and gtksurface for Wayland layer-shell windows.
package surface
