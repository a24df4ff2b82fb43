// Package clock provides the timers alerts run on. Production code uses a
// TimerScheduler that hands callbacks back to the host event loop; tests use
// Manual, a virtual clock advanced explicitly.
package clock

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs fn once after d. Callbacks run on the scheduler's owner
// loop, never concurrently with each other.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// Poster hands fn to the host event loop, e.g. tea.Program.Send or glib.IdleAdd.
type Poster func(fn func())

// TimerScheduler arms real timers and posts their callbacks to a host loop.
type TimerScheduler struct {
	post Poster

	mu      sync.Mutex
	timers  map[*time.Timer]struct{}
	stopped bool
}

// NewTimerScheduler creates a scheduler. A nil post runs callbacks directly
// on the timer goroutine.
func NewTimerScheduler(post Poster) *TimerScheduler {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &TimerScheduler{
		post:   post,
		timers: make(map[*time.Timer]struct{}),
	}
}

// AfterFunc implements Scheduler. It is a no-op after Stop.
func (s *TimerScheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		_, live := s.timers[t]
		delete(s.timers, t)
		s.mu.Unlock()
		if live {
			s.post(fn)
		}
	})
	s.timers[t] = struct{}{}
}

// Pending returns the number of armed timers.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every armed timer and rejects new ones.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for t := range s.timers {
		t.Stop()
	}
	s.timers = make(map[*time.Timer]struct{})
}

type entry struct {
	at  time.Duration
	seq uint64
	fn  func()
}

// Manual is a virtual clock. Callbacks only run inside Advance, on the
// caller's goroutine, in deadline order (ties in scheduling order).
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []entry
}

// NewManual returns a virtual clock at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.pending = append(m.pending, entry{at: m.now + d, seq: m.seq, fn: fn})
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of callbacks not yet run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Advance moves the clock forward by d, running every callback due by then,
// including ones scheduled by callbacks during the advance. It returns the
// number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	ran := 0
	for {
		fn, ok := m.popDue(target)
		if !ok {
			break
		}
		fn()
		ran++
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
	return ran
}

// Next returns the deadline of the earliest pending callback.
func (m *Manual) Next() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return 0, false
	}
	m.sortLocked()
	return m.pending[0].at, true
}

// RunAll advances until nothing is pending, up to limit callbacks.
// It returns the number of callbacks run.
func (m *Manual) RunAll(limit int) int {
	ran := 0
	for ran < limit {
		next, ok := m.Next()
		if !ok {
			break
		}
		ran += m.Advance(next - m.Now())
	}
	return ran
}

func (m *Manual) popDue(target time.Duration) (func(), bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return nil, false
	}
	m.sortLocked()
	next := m.pending[0]
	if next.at > target {
		return nil, false
	}
	m.pending = m.pending[1:]
	m.now = next.at
	return next.fn, true
}

func (m *Manual) sortLocked() {
	sort.Slice(m.pending, func(i, j int) bool {
		if m.pending[i].at != m.pending[j].at {
			return m.pending[i].at < m.pending[j].at
		}
		return m.pending[i].seq < m.pending[j].seq
	})
}
