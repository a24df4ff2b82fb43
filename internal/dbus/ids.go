package dbus

import "sync"

// idTracker hands out notification ids and remembers which are still open.
// Ids start at 1; 0 means "no replacement" on the wire.
type idTracker struct {
	mu   sync.Mutex
	last uint32
	open map[uint32]struct{}
}

func newIDTracker() *idTracker {
	return &idTracker{open: make(map[uint32]struct{})}
}

// claim returns replaces when it is still open, or a fresh id otherwise.
func (t *idTracker) claim(replaces uint32) (id uint32, replaced bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.open[replaces]; ok && replaces != 0 {
		return replaces, true
	}
	t.last++
	id = t.last
	t.open[id] = struct{}{}
	return id, false
}

// release forgets id and reports whether it was open.
func (t *idTracker) release(id uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.open[id]; !ok {
		return false
	}
	delete(t.open, id)
	return true
}

func (t *idTracker) isOpen(id uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.open[id]
	return ok
}

func (t *idTracker) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.open)
}
