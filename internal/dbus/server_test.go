package dbus

import (
	"encoding/xml"
	"testing"

	"github.com/godbus/dbus/v5/introspect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntrospectXML(t *testing.T) {
	var node introspect.Node
	require.NoError(t, xml.Unmarshal([]byte(introspectXML), &node))

	byName := make(map[string]introspect.Interface)
	for _, iface := range node.Interfaces {
		byName[iface.Name] = iface
	}
	require.Contains(t, byName, DBusInterface)
	require.Contains(t, byName, "org.freedesktop.DBus.Introspectable")

	var methods, signals []string
	for _, m := range byName[DBusInterface].Methods {
		methods = append(methods, m.Name)
	}
	for _, s := range byName[DBusInterface].Signals {
		signals = append(signals, s.Name)
	}
	assert.Equal(t, []string{"GetCapabilities", "GetServerInformation", "Notify", "CloseNotification"}, methods)
	assert.Equal(t, []string{"NotificationClosed", "ActionInvoked"}, signals)
}

func TestIDTracker(t *testing.T) {
	ids := newIDTracker()

	a, replaced := ids.claim(0)
	assert.False(t, replaced)
	assert.Equal(t, uint32(1), a)

	b, _ := ids.claim(0)
	assert.Equal(t, uint32(2), b)

	got, replaced := ids.claim(a)
	assert.True(t, replaced)
	assert.Equal(t, a, got)
	assert.Equal(t, 2, ids.count())

	assert.True(t, ids.release(a))
	assert.False(t, ids.release(a), "released once")
	assert.False(t, ids.isOpen(a))

	c, replaced := ids.claim(a)
	assert.False(t, replaced, "closed ids are not reused")
	assert.Equal(t, uint32(3), c)
}
