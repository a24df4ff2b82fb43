package dbus

import "fmt"

// emit sends one signal on the notification interface.
func (s *NotificationServer) emit(member string, args ...any) error {
	if s.conn == nil {
		return ErrNotConnected
	}
	if err := s.conn.Emit(DBusPath, DBusInterface+"."+member, args...); err != nil {
		return fmt.Errorf("emit %s: %w", member, err)
	}
	s.logger.Debug("signal emitted", "member", member, "args", args)
	return nil
}

// EmitActionInvoked tells the sender that an action of id was activated.
func (s *NotificationServer) EmitActionInvoked(id uint32, actionKey string) error {
	return s.emit("ActionInvoked", id, actionKey)
}

// CloseWithReason forgets id and emits NotificationClosed for it. Ids that
// were already closed are ignored, so each id is reported at most once.
func (s *NotificationServer) CloseWithReason(id uint32, reason CloseReason) error {
	if !s.ids.release(id) {
		return nil
	}
	s.logger.Debug("notification closed", "id", id, "reason", reason.String())
	return s.emit("NotificationClosed", id, uint32(reason))
}
