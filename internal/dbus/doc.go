// Package dbus implements the org.freedesktop.Notifications D-Bus interface.
// The server receives Notify and CloseNotification calls and emits
// NotificationClosed and ActionInvoked; the client sends notifications to
// whichever daemon owns the bus name.
package dbus
