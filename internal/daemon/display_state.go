package daemon

import (
	"sync"
	"time"

	"github.com/jmylchreest/alerter/internal/alert"
)

// DisplayStatus represents the status of a notification in the display system.
type DisplayStatus int

const (
	// DisplayStatusActive means the alert is on screen.
	DisplayStatusActive DisplayStatus = iota
	// DisplayStatusExpired means the alert faded out.
	DisplayStatusExpired
	// DisplayStatusDismissed means the user clicked the alert.
	DisplayStatusDismissed
	// DisplayStatusClosed means the alert was closed programmatically.
	DisplayStatusClosed
	// DisplayStatusReplaced means a newer notification took over the id.
	DisplayStatusReplaced
)

// String returns the string representation of DisplayStatus.
func (s DisplayStatus) String() string {
	switch s {
	case DisplayStatusActive:
		return "active"
	case DisplayStatusExpired:
		return "expired"
	case DisplayStatusDismissed:
		return "dismissed"
	case DisplayStatusClosed:
		return "closed"
	case DisplayStatusReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// statusForReason maps an alert close reason to a display status.
func statusForReason(r alert.CloseReason) DisplayStatus {
	switch r {
	case alert.ReasonExpired:
		return DisplayStatusExpired
	case alert.ReasonDismissed:
		return DisplayStatusDismissed
	default:
		return DisplayStatusClosed
	}
}

// DisplayState tracks one D-Bus notification and the alert showing it.
type DisplayState struct {
	DBusID    uint32
	AlertID   string
	AppName   string
	Status    DisplayStatus
	CreatedAt time.Time
	ClosedAt  time.Time
}

// DisplayStateManager keeps the mapping between D-Bus ids and alerts,
// including closed entries until they are pruned.
type DisplayStateManager struct {
	mu  sync.RWMutex
	now func() time.Time

	byDBusID  map[uint32]*DisplayState
	byAlertID map[string]uint32
}

// NewDisplayStateManager creates a new DisplayStateManager. A nil now uses
// time.Now.
func NewDisplayStateManager(now func() time.Time) *DisplayStateManager {
	if now == nil {
		now = time.Now
	}
	return &DisplayStateManager{
		now:       now,
		byDBusID:  make(map[uint32]*DisplayState),
		byAlertID: make(map[string]uint32),
	}
}

// Register records a newly shown alert. A previous entry for the same D-Bus
// id is replaced.
func (m *DisplayStateManager) Register(dbusID uint32, alertID, appName string) *DisplayState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, exists := m.byDBusID[dbusID]; exists {
		delete(m.byAlertID, old.AlertID)
	}

	state := &DisplayState{
		DBusID:    dbusID,
		AlertID:   alertID,
		AppName:   appName,
		Status:    DisplayStatusActive,
		CreatedAt: m.now(),
	}
	m.byDBusID[dbusID] = state
	m.byAlertID[alertID] = dbusID
	return state
}

// Get returns a copy of the state for a D-Bus id.
func (m *DisplayStateManager) Get(dbusID uint32) (DisplayState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.byDBusID[dbusID]
	if !ok {
		return DisplayState{}, false
	}
	return *state, true
}

// DBusIDForAlert returns the D-Bus id an alert was shown for.
func (m *DisplayStateManager) DBusIDForAlert(alertID string) (uint32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byAlertID[alertID]
	return id, ok
}

// SetStatus updates the status of an active entry and reports whether it
// changed. Closed entries keep their first terminal status.
func (m *DisplayStateManager) SetStatus(dbusID uint32, status DisplayStatus) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, exists := m.byDBusID[dbusID]
	if !exists || state.Status != DisplayStatusActive {
		return false
	}
	state.Status = status
	if status != DisplayStatusActive {
		state.ClosedAt = m.now()
	}
	return true
}

// Prune drops entries closed before cutoff and returns how many were removed.
func (m *DisplayStateManager) Prune(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, state := range m.byDBusID {
		if state.Status != DisplayStatusActive && state.ClosedAt.Before(cutoff) {
			delete(m.byAlertID, state.AlertID)
			delete(m.byDBusID, id)
			removed++
		}
	}
	return removed
}

// ActiveIDs returns the D-Bus ids of alerts still on screen.
func (m *DisplayStateManager) ActiveIDs() []uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var active []uint32
	for id, state := range m.byDBusID {
		if state.Status == DisplayStatusActive {
			active = append(active, id)
		}
	}
	return active
}

// Count returns the number of tracked notifications.
func (m *DisplayStateManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byDBusID)
}

// ActiveCount returns the number of active notifications.
func (m *DisplayStateManager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, state := range m.byDBusID {
		if state.Status == DisplayStatusActive {
			count++
		}
	}
	return count
}
