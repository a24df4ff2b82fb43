package daemon

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/alerter/internal/alert"
	"github.com/jmylchreest/alerter/internal/clock"
	"github.com/jmylchreest/alerter/internal/config"
	"github.com/jmylchreest/alerter/internal/dbus"
	"github.com/jmylchreest/alerter/internal/surface/memsurface"
	"github.com/jmylchreest/alerter/internal/theme"
)

func TestDisplayStatusString(t *testing.T) {
	tests := []struct {
		status   DisplayStatus
		expected string
	}{
		{DisplayStatusActive, "active"},
		{DisplayStatusExpired, "expired"},
		{DisplayStatusDismissed, "dismissed"},
		{DisplayStatusClosed, "closed"},
		{DisplayStatusReplaced, "replaced"},
		{DisplayStatus(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

func TestStatusForReason(t *testing.T) {
	assert.Equal(t, DisplayStatusExpired, statusForReason(alert.ReasonExpired))
	assert.Equal(t, DisplayStatusDismissed, statusForReason(alert.ReasonDismissed))
	assert.Equal(t, DisplayStatusClosed, statusForReason(alert.ReasonClosed))
}

func TestDisplayStateManager(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewDisplayStateManager(func() time.Time { return now })

	m.Register(1, "alert-a", "mail")
	m.Register(2, "alert-b", "chat")
	assert.Equal(t, 2, m.ActiveCount())

	id, ok := m.DBusIDForAlert("alert-b")
	require.True(t, ok)
	assert.Equal(t, uint32(2), id)

	assert.True(t, m.SetStatus(1, DisplayStatusExpired))
	assert.False(t, m.SetStatus(1, DisplayStatusClosed), "first terminal status wins")
	assert.False(t, m.SetStatus(42, DisplayStatusClosed))

	state, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, DisplayStatusExpired, state.Status)
	assert.Equal(t, now, state.ClosedAt)
	assert.Equal(t, []uint32{2}, m.ActiveIDs())

	// Re-registering an id drops the old alert mapping.
	m.Register(2, "alert-c", "chat")
	_, ok = m.DBusIDForAlert("alert-b")
	assert.False(t, ok)
	assert.Equal(t, 2, m.Count())

	assert.Equal(t, 0, m.Prune(now))
	assert.Equal(t, 1, m.Prune(now.Add(time.Second)))
	assert.Equal(t, 1, m.Count())
}

func TestInternalNotifier_RateLimit(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n := NewInternalNotifier(nil)
	n.now = func() time.Time { return now }

	var got []*dbus.DBusNotification
	n.SetNotifyHandler(func(dn *dbus.DBusNotification) uint32 {
		got = append(got, dn)
		return uint32(len(got))
	})

	assert.True(t, n.Notify("k", "first", "", NotificationLevelInfo))
	assert.False(t, n.Notify("k", "again", "", NotificationLevelInfo))
	assert.True(t, n.Notify("other", "different key", "", NotificationLevelWarning))

	now = now.Add(6 * time.Second)
	assert.True(t, n.Notify("k", "later", "", NotificationLevelError))

	require.Len(t, got, 3)
	assert.Equal(t, "alerterd", got[0].AppName)
	assert.Equal(t, int32(5000), got[0].ExpireTimeout)
	assert.Equal(t, "warning", got[1].ToNotification().Classes())
	assert.Equal(t, 2, got[2].Urgency())
}

func TestInternalNotifier_DisabledOrUnwired(t *testing.T) {
	n := NewInternalNotifier(nil)
	assert.False(t, n.Notify("k", "no handler", "", NotificationLevelInfo))

	calls := 0
	n.SetNotifyHandler(func(*dbus.DBusNotification) uint32 { calls++; return 1 })
	n.SetEnabled(false)
	assert.False(t, n.Notify("k", "disabled", "", NotificationLevelInfo))
	assert.Zero(t, calls)
}

func newReloader(t *testing.T) (*HotReloader, *Service, *[]string) {
	t.Helper()
	svc, err := NewService(ServiceOptions{
		Surface:   memsurface.New(),
		Scheduler: clock.NewManual(),
		Signals:   &fakeSignals{},
	})
	require.NoError(t, err)

	var summaries []string
	notifier := NewInternalNotifier(nil)
	notifier.SetMinInterval(0)
	notifier.SetNotifyHandler(func(dn *dbus.DBusNotification) uint32 {
		summaries = append(summaries, dn.Summary)
		return 1
	})

	h := NewHotReloader("", svc, notifier, func(fn func()) { fn() }, nil)
	return h, svc, &summaries
}

func TestHotReloader_ApplyConfig(t *testing.T) {
	h, svc, summaries := newReloader(t)
	h.loadTheme = func(cfg *config.Config) (*theme.Theme, error) {
		th, _ := theme.GetEmbeddedTheme(cfg.Alert.Theme)
		return th, nil
	}

	cfg := config.DefaultConfig()
	cfg.Alert.Theme = "terminal"
	h.ApplyConfig(cfg)

	assert.Same(t, cfg, svc.Config())
	assert.Equal(t, "terminal", svc.Theme().Name)
	assert.Equal(t, []string{"Configuration Reloaded"}, *summaries)
}

func TestHotReloader_ThemeErrorKeepsCurrentTheme(t *testing.T) {
	h, svc, summaries := newReloader(t)
	h.loadTheme = func(*config.Config) (*theme.Theme, error) {
		return nil, errors.New("broken theme")
	}
	before := svc.Theme()

	h.ApplyConfig(config.DefaultConfig())

	assert.Same(t, before, svc.Theme())
	assert.Equal(t, []string{"Theme Error", "Configuration Reloaded"}, *summaries)
}

func TestHotReloader_InvalidConfig(t *testing.T) {
	h, svc, summaries := newReloader(t)
	h.loadTheme = func(*config.Config) (*theme.Theme, error) { return theme.NewDefaultTheme(), nil }
	before := svc.Config()

	cfg := config.DefaultConfig()
	cfg.Alert.YOrientation = "sideways"
	h.ApplyConfig(cfg)

	assert.Same(t, before, svc.Config())
	assert.Equal(t, []string{"Configuration Error"}, *summaries)
}

func TestHotReloader_ApplyTheme(t *testing.T) {
	h, svc, summaries := newReloader(t)
	mono, _ := theme.GetEmbeddedTheme("mono")

	h.ApplyTheme(mono)

	assert.Same(t, mono, svc.Theme())
	assert.Equal(t, []string{"Theme Reloaded"}, *summaries)
}
