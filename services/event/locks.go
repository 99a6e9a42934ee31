package event

import (
	"sync"
	"time"
)

// lockRegistry hands out one mutex per event so the count-then-transition
// sequence on join/leave is serialized per event. Entries are swept after
// an idle period to keep the map bounded.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[string]*eventLock
	// now is injectable for tests; nil means time.Now.
	now func() time.Time
}

type eventLock struct {
	mu       sync.Mutex
	lastUsed time.Time
}

func newLockRegistry(now func() time.Time) *lockRegistry {
	if now == nil {
		now = time.Now
	}
	return &lockRegistry{
		locks: make(map[string]*eventLock),
		now:   now,
	}
}

// acquire returns the mutex for eventID, creating one if needed.
func (r *lockRegistry) acquire(eventID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, exists := r.locks[eventID]
	if !exists {
		l = &eventLock{}
		r.locks[eventID] = l
	}
	l.lastUsed = r.now()
	return &l.mu
}

// sweep drops locks idle for longer than maxIdle. A lock currently held is
// never idle because acquire refreshed lastUsed under r.mu.
func (r *lockRegistry) sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	removed := 0
	for id, l := range r.locks {
		if l.lastUsed.Before(cutoff) && l.mu.TryLock() {
			l.mu.Unlock()
			delete(r.locks, id)
			removed++
		}
	}
	return removed
}
