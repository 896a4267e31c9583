package storeImp

import (
	"sync"
	"time"

	"cropcal/pkg/calendar/store"
)

// GuestSessions hands out one GuestStore per guest key. Stores idle longer
// than ttl are dropped the next time the registry is touched.
type GuestSessions struct {
	mu      sync.Mutex
	entries map[string]*guestEntry
	ttl     time.Duration
	now     func() time.Time
}

type guestEntry struct {
	store    *GuestStore
	lastSeen time.Time
}

func NewGuestSessions(ttl time.Duration, now func() time.Time) *GuestSessions {
	if now == nil {
		now = time.Now
	}
	return &GuestSessions{entries: map[string]*guestEntry{}, ttl: ttl, now: now}
}

func (g *GuestSessions) For(key string) store.CalendarStore {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	g.sweepLocked(now)
	e, ok := g.entries[key]
	if !ok {
		e = &guestEntry{store: NewGuest(g.now)}
		g.entries[key] = e
	}
	e.lastSeen = now
	return e.store
}

// Forget drops a guest's calendars immediately.
func (g *GuestSessions) Forget(key string) {
	g.mu.Lock()
	delete(g.entries, key)
	g.mu.Unlock()
}

func (g *GuestSessions) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

func (g *GuestSessions) sweepLocked(now time.Time) {
	if g.ttl <= 0 {
		return
	}
	for k, e := range g.entries {
		if now.Sub(e.lastSeen) > g.ttl {
			delete(g.entries, k)
		}
	}
}
