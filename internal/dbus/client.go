package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/alerter/internal/model"
)

// Client sends notifications to the daemon owning the notification bus name.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus.
func NewClient() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{conn: conn, obj: conn.Object(DBusBusName, DBusPath)}, nil
}

// Send delivers n and returns the id assigned by the server. A non-zero
// replacesID asks the server to replace that notification.
func (c *Client) Send(n *model.Notification, replacesID uint32) (uint32, error) {
	if err := n.Validate(); err != nil {
		return 0, err
	}
	call := c.obj.Call(
		DBusInterface+".Notify",
		0,
		n.AppName,
		replacesID,
		"",
		n.Summary,
		n.Body,
		[]string{"default", "Open"},
		HintsFor(n),
		ExpireTimeoutFor(n),
	)
	if call.Err != nil {
		return 0, fmt.Errorf("notify: %w", call.Err)
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify reply: %w", err)
	}
	return id, nil
}

// Close asks the server to close id.
func (c *Client) Close(id uint32) error {
	if err := c.obj.Call(DBusInterface+".CloseNotification", 0, id).Err; err != nil {
		return fmt.Errorf("close notification: %w", err)
	}
	return nil
}

// ServerInformation queries the running server.
func (c *Client) ServerInformation() (ServerInfo, error) {
	var info ServerInfo
	err := c.obj.Call(DBusInterface+".GetServerInformation", 0).
		Store(&info.Name, &info.Vendor, &info.Version, &info.SpecVersion)
	if err != nil {
		return ServerInfo{}, fmt.Errorf("server information: %w", err)
	}
	return info, nil
}
