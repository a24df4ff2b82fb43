package dbus

import (
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/alerter/internal/model"
)

// CloseReason represents the reason for closing a notification.
// Values follow the freedesktop.org Desktop Notifications protocol.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the alert faded out after its duration.
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user clicked the alert.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates the notification was closed via CloseNotification.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined is reserved by the notification protocol.
	CloseReasonUndefined CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// Hint names understood by the server beyond the standard ones.
const (
	HintPosition = "x-alerter-position"
	HintID       = "x-alerter-id"
	HintClass    = "x-alerter-class"
	HintLevel    = "x-alerter-level"
)

// DBusNotification represents an incoming D-Bus Notify call.
// It contains the raw parameters from the org.freedesktop.Notifications.Notify method.
type DBusNotification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// Action represents a notification action with key and label.
type Action struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ParsedActions converts the D-Bus action array to structured form.
// D-Bus actions are passed as alternating key/label pairs.
func (n *DBusNotification) ParsedActions() []Action {
	actions := make([]Action, 0, len(n.Actions)/2)
	for i := 0; i+1 < len(n.Actions); i += 2 {
		actions = append(actions, Action{
			Key:   n.Actions[i],
			Label: n.Actions[i+1],
		})
	}
	return actions
}

// HasAction reports whether the sender offered the action key.
func (n *DBusNotification) HasAction(key string) bool {
	for _, a := range n.ParsedActions() {
		if a.Key == key {
			return true
		}
	}
	return false
}

func (n *DBusNotification) stringHint(name string) string {
	if v, ok := n.Hints[name]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

func (n *DBusNotification) boolHint(name string) bool {
	if v, ok := n.Hints[name]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// Urgency extracts the urgency hint from the notification.
// Returns model.UrgencyNormal if not specified or out of range.
func (n *DBusNotification) Urgency() int {
	v, ok := n.Hints["urgency"]
	if !ok {
		return model.UrgencyNormal
	}
	var level int
	switch u := v.Value().(type) {
	case byte:
		level = int(u)
	case int32:
		level = int(u)
	case uint32:
		level = int(u)
	default:
		return model.UrgencyNormal
	}
	if level < model.UrgencyLow || level > model.UrgencyCritical {
		return model.UrgencyNormal
	}
	return level
}

// Category extracts the category hint from the notification.
func (n *DBusNotification) Category() string { return n.stringHint("category") }

// SoundFile extracts the sound-file hint.
func (n *DBusNotification) SoundFile() string { return n.stringHint("sound-file") }

// SuppressSound returns true if the suppress-sound hint is set.
func (n *DBusNotification) SuppressSound() bool { return n.boolHint("suppress-sound") }

// Resident returns true if the resident hint is set.
// Resident notifications stay on screen after an action is invoked.
func (n *DBusNotification) Resident() bool { return n.boolHint("resident") }

// ForegroundColor extracts the foreground color hint (dunstify -h string:fgcolor:#RRGGBB).
func (n *DBusNotification) ForegroundColor() string { return n.stringHint("fgcolor") }

// BackgroundColor extracts the background color hint (dunstify -h string:bgcolor:#RRGGBB).
func (n *DBusNotification) BackgroundColor() string { return n.stringHint("bgcolor") }

// ToNotification converts the call into the request alerts are built from.
// An expire timeout of 0 makes the alert sticky; a positive one is taken as
// milliseconds; -1 keeps the configured duration.
func (n *DBusNotification) ToNotification() *model.Notification {
	out := &model.Notification{
		AppName:       n.AppName,
		Summary:       n.Summary,
		Body:          n.Body,
		Urgency:       n.Urgency(),
		Position:      n.stringHint(HintPosition),
		ID:            n.stringHint(HintID),
		Class:         n.stringHint(HintClass),
		Foreground:    n.ForegroundColor(),
		Background:    n.BackgroundColor(),
		SoundFile:     n.SoundFile(),
		SuppressSound: n.SuppressSound(),
	}
	if level, err := model.ParseLevel(n.stringHint(HintLevel)); err == nil {
		out.Level = level
	}
	switch {
	case n.ExpireTimeout == 0:
		out.Sticky = true
	case n.ExpireTimeout > 0:
		out.Timeout = time.Duration(n.ExpireTimeout) * time.Millisecond
	}
	return out
}

// HintsFor builds the hint map describing n. It is the inverse of
// ToNotification for the fields carried in hints.
func HintsFor(n *model.Notification) map[string]dbus.Variant {
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(n.Urgency)),
	}
	strs := map[string]string{
		HintPosition: n.Position,
		HintID:       n.ID,
		HintClass:    n.Class,
		HintLevel:    string(n.Level),
		"fgcolor":    n.Foreground,
		"bgcolor":    n.Background,
		"sound-file": n.SoundFile,
	}
	for k, v := range strs {
		if v != "" {
			hints[k] = dbus.MakeVariant(v)
		}
	}
	if n.SuppressSound {
		hints["suppress-sound"] = dbus.MakeVariant(true)
	}
	return hints
}

// ExpireTimeoutFor returns the expire_timeout argument describing n.
func ExpireTimeoutFor(n *model.Notification) int32 {
	switch {
	case n.Sticky:
		return 0
	case n.Timeout > 0:
		return int32(n.Timeout / time.Millisecond)
	default:
		return -1
	}
}

// ServerCapabilities lists the capabilities advertised by alerterd.
var ServerCapabilities = []string{
	"actions", // click invokes "default"
	"body",
	"sound",
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "alerterd",
		Vendor:      "alerter",
		Version:     "dev",
		SpecVersion: "1.2",
	}
}
