// Package daemon provides the main orchestration for alerterd.
// It turns D-Bus notifications into alerts, reports closes and clicks back
// over D-Bus, plays sounds and applies configuration hot-reloads.
package daemon
