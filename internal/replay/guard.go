// Package replay implements nonce tracking for request replay protection.
// The in-memory guard is single-instance only; the Redis guard coordinates
// across instances and can be swapped in without touching call sites.
package replay

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrReplayDetected is returned when a nonce is presented twice within the
// protection window.
var ErrReplayDetected = errors.New("replay detected: nonce already used")

// Guard records request nonces and rejects reuse within a bounded window.
// A nonce presented again after the window has elapsed is accepted; callers
// must pair the guard with a timestamp check of the same window to close
// that gap.
type Guard interface {
	// Remember records the nonce. Returns [ErrReplayDetected] if the nonce
	// was already seen within the window.
	Remember(ctx context.Context, nonce string) error
}

// memoryGuard is the process-local implementation of [Guard].
type memoryGuard struct {
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewMemoryGuard constructs an in-memory [Guard] with the given protection
// window. State is process-local: in a multi-instance deployment each
// instance is independently consistent only.
func NewMemoryGuard(window time.Duration) Guard {
	return newMemoryGuard(window, time.Now)
}

func newMemoryGuard(window time.Duration, now func() time.Time) *memoryGuard {
	return &memoryGuard{
		window: window,
		now:    now,
		seen:   make(map[string]time.Time),
	}
}

// Remember implements [Guard].
func (g *memoryGuard) Remember(_ context.Context, nonce string) error {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if firstSeen, ok := g.seen[nonce]; ok && now.Sub(firstSeen) <= g.window {
		return ErrReplayDetected
	}

	g.seen[nonce] = now
	return nil
}

// Sweep evicts nonces older than the window and reports how many were
// removed. Called periodically by the replay sweep worker.
func (g *memoryGuard) Sweep() int {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	swept := 0
	for nonce, firstSeen := range g.seen {
		if now.Sub(firstSeen) > g.window {
			delete(g.seen, nonce)
			swept++
		}
	}

	return swept
}

// Sweeper is implemented by guards that accumulate state needing periodic
// eviction. The Redis guard relies on key TTLs and does not implement it.
type Sweeper interface {
	Sweep() int
}
