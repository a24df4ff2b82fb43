package dbus

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/alerter/internal/model"
)

func TestCloseReasonString(t *testing.T) {
	tests := []struct {
		reason   CloseReason
		expected string
	}{
		{CloseReasonExpired, "expired"},
		{CloseReasonDismissed, "dismissed"},
		{CloseReasonClosed, "closed"},
		{CloseReasonUndefined, "undefined"},
		{CloseReason(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.reason.String())
		})
	}
}

func TestParsedActions(t *testing.T) {
	tests := []struct {
		name     string
		actions  []string
		expected []Action
	}{
		{
			name:     "empty",
			actions:  nil,
			expected: []Action{},
		},
		{
			name:     "single action",
			actions:  []string{"default", "Open"},
			expected: []Action{{Key: "default", Label: "Open"}},
		},
		{
			name:    "multiple actions",
			actions: []string{"default", "Open", "dismiss", "Dismiss", "reply", "Reply"},
			expected: []Action{
				{Key: "default", Label: "Open"},
				{Key: "dismiss", Label: "Dismiss"},
				{Key: "reply", Label: "Reply"},
			},
		},
		{
			name:     "odd number (incomplete pair ignored)",
			actions:  []string{"default", "Open", "orphan"},
			expected: []Action{{Key: "default", Label: "Open"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DBusNotification{Actions: tt.actions}
			assert.Equal(t, tt.expected, n.ParsedActions())
		})
	}
}

func TestUrgency(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected int
	}{
		{
			name:     "no hint",
			hints:    nil,
			expected: model.UrgencyNormal,
		},
		{
			name:     "low urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))},
			expected: model.UrgencyLow,
		},
		{
			name:     "normal urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(1))},
			expected: model.UrgencyNormal,
		},
		{
			name:     "critical urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))},
			expected: model.UrgencyCritical,
		},
		{
			name:     "int32 urgency",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(int32(2))},
			expected: model.UrgencyCritical,
		},
		{
			name:     "out of range returns normal",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(7))},
			expected: model.UrgencyNormal,
		},
		{
			name:     "wrong type returns normal",
			hints:    map[string]dbus.Variant{"urgency": dbus.MakeVariant("high")},
			expected: model.UrgencyNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DBusNotification{Hints: tt.hints}
			assert.Equal(t, tt.expected, n.Urgency())
		})
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected string
	}{
		{
			name:     "no hint",
			hints:    nil,
			expected: "",
		},
		{
			name:     "email category",
			hints:    map[string]dbus.Variant{"category": dbus.MakeVariant("email.arrived")},
			expected: "email.arrived",
		},
		{
			name:     "wrong type",
			hints:    map[string]dbus.Variant{"category": dbus.MakeVariant(123)},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DBusNotification{Hints: tt.hints}
			assert.Equal(t, tt.expected, n.Category())
		})
	}
}

func TestToNotification(t *testing.T) {
	n := &DBusNotification{
		AppName: "mail",
		Summary: "New message",
		Body:    "from bob",
		Hints: map[string]dbus.Variant{
			"urgency":        dbus.MakeVariant(byte(2)),
			"fgcolor":        dbus.MakeVariant("#ffffff"),
			"bgcolor":        dbus.MakeVariant("#c62828"),
			"sound-file":     dbus.MakeVariant("/tmp/ding.wav"),
			HintPosition:     dbus.MakeVariant("top-left"),
			HintClass:        dbus.MakeVariant("mail"),
			HintLevel:        dbus.MakeVariant("warning"),
			"suppress-sound": dbus.MakeVariant(true),
		},
		ExpireTimeout: 1500,
	}

	got := n.ToNotification()
	assert.Equal(t, "mail", got.AppName)
	assert.Equal(t, "New message\nfrom bob", got.Text())
	assert.Equal(t, model.UrgencyCritical, got.Urgency)
	assert.Equal(t, "top-left", got.Position)
	assert.Equal(t, "mail warning", got.Classes())
	assert.Equal(t, "#ffffff", got.Foreground)
	assert.Equal(t, "#c62828", got.Background)
	assert.Equal(t, "/tmp/ding.wav", got.SoundFile)
	assert.True(t, got.SuppressSound)
	assert.Equal(t, 1500*time.Millisecond, got.Timeout)
	assert.False(t, got.Sticky)
}

func TestToNotification_ExpireTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout int32
		sticky  bool
		want    time.Duration
	}{
		{"server default", -1, false, 0},
		{"never expire", 0, true, 0},
		{"milliseconds", 250, false, 250 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := (&DBusNotification{Summary: "x", ExpireTimeout: tt.timeout}).ToNotification()
			assert.Equal(t, tt.sticky, n.Sticky)
			assert.Equal(t, tt.want, n.Timeout)
			assert.Equal(t, tt.timeout, ExpireTimeoutFor(n))
		})
	}
}

func TestHintsFor(t *testing.T) {
	n := &model.Notification{
		Summary:  "hi",
		Urgency:  model.UrgencyLow,
		Position: "bottom-left",
		ID:       "toast",
	}
	hints := HintsFor(n)

	require.Contains(t, hints, "urgency")
	assert.Equal(t, byte(0), hints["urgency"].Value())
	assert.Equal(t, "bottom-left", hints[HintPosition].Value())
	assert.Equal(t, "toast", hints[HintID].Value())
	assert.NotContains(t, hints, HintClass)
	assert.NotContains(t, hints, "suppress-sound")

	back := (&DBusNotification{Summary: "hi", Hints: hints, ExpireTimeout: -1}).ToNotification()
	assert.Equal(t, n.Position, back.Position)
	assert.Equal(t, n.ID, back.ID)
	assert.Equal(t, n.Urgency, back.Urgency)
}

func TestHasAction(t *testing.T) {
	n := &DBusNotification{Actions: []string{"default", "Open", "reply", "Reply"}}
	assert.True(t, n.HasAction("default"))
	assert.True(t, n.HasAction("reply"))
	assert.False(t, n.HasAction("Open"))
}

func TestServer_NotifyAssignsIDs(t *testing.T) {
	s := NewNotificationServer(nil)
	var got []uint32
	s.SetNotifyHandler(func(_ *DBusNotification, id uint32) {
		got = append(got, id)
	})

	id1, derr := s.Notify("app", 0, "", "one", "", nil, nil, -1)
	require.Nil(t, derr)
	id2, derr := s.Notify("app", 0, "", "two", "", nil, nil, -1)
	require.Nil(t, derr)
	assert.NotEqual(t, id1, id2)

	// Replacing an active id keeps it.
	id3, derr := s.Notify("app", id1, "", "one again", "", nil, nil, -1)
	require.Nil(t, derr)
	assert.Equal(t, id1, id3)

	// Replacing an unknown id allocates a fresh one.
	id4, derr := s.Notify("app", 999, "", "new", "", nil, nil, -1)
	require.Nil(t, derr)
	assert.NotEqual(t, uint32(999), id4)

	assert.Equal(t, []uint32{id1, id2, id3, id4}, got)
	assert.Equal(t, 3, s.ActiveCount())
}

func TestServer_CloseNotification(t *testing.T) {
	s := NewNotificationServer(nil)
	var closed []uint32
	s.SetCloseHandler(func(id uint32) { closed = append(closed, id) })

	id, _ := s.Notify("app", 0, "", "one", "", nil, nil, -1)
	assert.Nil(t, s.CloseNotification(id))
	assert.False(t, s.IsActive(id))

	// Unknown ids are ignored.
	assert.Nil(t, s.CloseNotification(id))
	assert.Equal(t, []uint32{id}, closed)
}

func TestServer_CloseWithReason(t *testing.T) {
	s := NewNotificationServer(nil)

	assert.NoError(t, s.CloseWithReason(42, CloseReasonExpired), "inactive ids are ignored")

	id := s.NotifyInternal(&DBusNotification{Summary: "internal"})
	assert.True(t, s.IsActive(id))
	err := s.CloseWithReason(id, CloseReasonExpired)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.False(t, s.IsActive(id))
}

func TestServerInformation(t *testing.T) {
	s := NewNotificationServer(nil)
	s.SetServerInfo(ServerInfo{Name: "alerterd", Vendor: "alerter", Version: "1.0.0", SpecVersion: "1.2"})

	name, vendor, version, spec, derr := s.GetServerInformation()
	require.Nil(t, derr)
	assert.Equal(t, "alerterd", name)
	assert.Equal(t, "alerter", vendor)
	assert.Equal(t, "1.0.0", version)
	assert.Equal(t, "1.2", spec)

	caps, derr := s.GetCapabilities()
	require.Nil(t, derr)
	assert.Contains(t, caps, "actions")
}
