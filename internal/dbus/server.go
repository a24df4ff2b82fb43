package dbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	// DBusInterface is the notification interface name.
	DBusInterface = "org.freedesktop.Notifications"
	// DBusPath is the notification object path.
	DBusPath = "/org/freedesktop/Notifications"
	// DBusBusName is the bus name to claim.
	DBusBusName = "org.freedesktop.Notifications"
)

// Server errors.
var (
	ErrRunning      = errors.New("server already running")
	ErrNameTaken    = errors.New("bus name already taken")
	ErrNotConnected = errors.New("not connected to D-Bus")
)

// introspectXML describes the exported object for Introspect callers.
const introspectXML = `<node>
	<interface name="` + DBusInterface + `">
		<method name="GetCapabilities">
			<arg name="capabilities" type="as" direction="out"/>
		</method>
		<method name="GetServerInformation">
			<arg name="name" type="s" direction="out"/>
			<arg name="vendor" type="s" direction="out"/>
			<arg name="version" type="s" direction="out"/>
			<arg name="spec_version" type="s" direction="out"/>
		</method>
		<method name="Notify">
			<arg name="app_name" type="s" direction="in"/>
			<arg name="replaces_id" type="u" direction="in"/>
			<arg name="app_icon" type="s" direction="in"/>
			<arg name="summary" type="s" direction="in"/>
			<arg name="body" type="s" direction="in"/>
			<arg name="actions" type="as" direction="in"/>
			<arg name="hints" type="a{sv}" direction="in"/>
			<arg name="expire_timeout" type="i" direction="in"/>
			<arg name="id" type="u" direction="out"/>
		</method>
		<method name="CloseNotification">
			<arg name="id" type="u" direction="in"/>
		</method>
		<signal name="NotificationClosed">
			<arg name="id" type="u"/>
			<arg name="reason" type="u"/>
		</signal>
		<signal name="ActionInvoked">
			<arg name="id" type="u"/>
			<arg name="action_key" type="s"/>
		</signal>
	</interface>` + introspect.IntrospectDataString + `</node>`

// NotificationHandler receives every accepted notification with the id it
// was given. It runs on the D-Bus dispatch goroutine, so handlers that touch
// alerts must post onto the UI loop.
type NotificationHandler func(notification *DBusNotification, id uint32)

// CloseHandler receives CloseNotification requests for open ids.
type CloseHandler func(id uint32)

// NotificationServer answers org.freedesktop.Notifications calls and turns
// them into alert requests.
type NotificationServer struct {
	conn   *dbus.Conn
	logger *slog.Logger
	ids    *idTracker

	onNotify NotificationHandler
	onClose  CloseHandler
	info     ServerInfo

	mu      sync.Mutex
	running bool
}

// NewNotificationServer creates a server that is not yet on the bus.
func NewNotificationServer(logger *slog.Logger) *NotificationServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationServer{
		logger: logger,
		ids:    newIDTracker(),
		info:   DefaultServerInfo(),
	}
}

// SetNotifyHandler must be called before Start.
func (s *NotificationServer) SetNotifyHandler(handler NotificationHandler) {
	s.onNotify = handler
}

// SetCloseHandler must be called before Start.
func (s *NotificationServer) SetCloseHandler(handler CloseHandler) {
	s.onClose = handler
}

// SetServerInfo sets what GetServerInformation reports.
func (s *NotificationServer) SetServerInfo(info ServerInfo) {
	s.info = info
}

// Start exports the server on the session bus and claims the
// notification bus name, replacing the current owner if it allows that.
func (s *NotificationServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrRunning
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export %s: %w", DBusInterface, err)
	}
	if err := conn.Export(introspect.Introspectable(introspectXML), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspection: %w", err)
	}

	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("%w: %s", ErrNameTaken, DBusBusName)
	}

	s.conn = conn
	s.running = true
	s.logger.Info("notification server listening", "name", DBusBusName, "path", DBusPath)
	return nil
}

// Stop gives up the bus name. The shared session connection stays open.
func (s *NotificationServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	if _, err := s.conn.ReleaseName(DBusBusName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	s.logger.Info("notification server stopped")
	return nil
}

// GetCapabilities implements GetCapabilities() -> as.
func (s *NotificationServer) GetCapabilities() ([]string, *dbus.Error) {
	return ServerCapabilities, nil
}

// GetServerInformation implements GetServerInformation() -> (ssss).
func (s *NotificationServer) GetServerInformation() (string, string, string, string, *dbus.Error) {
	return s.info.Name, s.info.Vendor, s.info.Version, s.info.SpecVersion, nil
}

// Notify implements Notify(susssasa{sv}i) -> u. A replaces_id that is still
// open keeps its id; anything else gets a fresh one.
func (s *NotificationServer) Notify(
	appName string,
	replacesID uint32,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, *dbus.Error) {
	id, replaced := s.ids.claim(replacesID)
	s.logger.Debug("notify", "id", id, "app", appName, "replaced", replaced)

	s.deliver(&DBusNotification{
		AppName:       appName,
		ReplacesID:    replacesID,
		AppIcon:       appIcon,
		Summary:       summary,
		Body:          body,
		Actions:       actions,
		Hints:         hints,
		ExpireTimeout: expireTimeout,
	}, id)
	return id, nil
}

// NotifyInternal raises a notification from the daemon itself, such as a
// config reload failure, and returns its id.
func (s *NotificationServer) NotifyInternal(notification *DBusNotification) uint32 {
	id, _ := s.ids.claim(0)
	s.logger.Debug("internal notify", "id", id, "summary", notification.Summary)
	s.deliver(notification, id)
	return id
}

func (s *NotificationServer) deliver(n *DBusNotification, id uint32) {
	if s.onNotify != nil {
		s.onNotify(n, id)
	}
}

// CloseNotification implements CloseNotification(u). Closing an id that is
// not open is not an error.
func (s *NotificationServer) CloseNotification(id uint32) *dbus.Error {
	if !s.ids.isOpen(id) {
		s.logger.Debug("close of unknown notification", "id", id)
		return nil
	}
	if s.onClose != nil {
		s.onClose(id)
	}
	if err := s.CloseWithReason(id, CloseReasonClosed); err != nil {
		s.logger.Warn("failed to report closed notification", "id", id, "error", err)
	}
	return nil
}

// ActiveCount returns the number of notifications not yet closed.
func (s *NotificationServer) ActiveCount() int { return s.ids.count() }

// IsActive reports whether id is open.
func (s *NotificationServer) IsActive(id uint32) bool { return s.ids.isOpen(id) }
