package abuse

import (
	"context"
	"sync"
	"time"
)

// Guard suppresses duplicate clicks within a configured window. It is an
// explicitly owned store injected into the click orchestrator, not package
// state, so tests get a fresh guard without process restarts.
type Guard struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
	window   time.Duration
	now      func() time.Time
}

// NewGuard creates a guard with the given dedupe window.
func NewGuard(window time.Duration) *Guard {
	return &Guard{
		lastSeen: make(map[string]time.Time),
		window:   window,
		now:      time.Now,
	}
}

// Key builds the dedupe key for a click. Empty strings stand in for missing
// optional fields so keys remain well-defined.
func (g *Guard) Key(impressionID, userID, sessionID string) string {
	return impressionID + "|" + userID + "|" + sessionID
}

// CheckAndRecord reports whether key is a duplicate within the window. The
// timestamp is updated only when the click is NOT a duplicate: a burst of
// duplicates must not keep sliding the window forward (first-wins). The
// read-check-write sequence is atomic under the mutex so two concurrent
// callers cannot both observe "not duplicate" for the same key.
func (g *Guard) CheckAndRecord(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, ok := g.lastSeen[key]; ok && now.Sub(last) < g.window {
		return true
	}
	g.lastSeen[key] = now
	return false
}

// Len returns the number of tracked keys.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.lastSeen)
}

// Sweep drops entries older than the window. Entries past the window can no
// longer mark anything as duplicate, so removal never changes observable
// behavior; it only bounds memory growth.
func (g *Guard) Sweep() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	removed := 0
	for key, last := range g.lastSeen {
		if now.Sub(last) >= g.window {
			delete(g.lastSeen, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on a fixed period until ctx is cancelled.
func (g *Guard) StartSweeper(ctx context.Context, period time.Duration) {
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				g.Sweep()
			}
		}
	}()
}
