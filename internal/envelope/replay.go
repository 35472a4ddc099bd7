package envelope

import (
	"context"
	"crypto/sha256"
	"sync"
	"time"
)

// ReplayGuard accepts each cipher string once within a window.
type ReplayGuard interface {
	// Claim reports false when id was already claimed within ttl. Callers
	// pass Opened.ID, never the transport string.
	Claim(ctx context.Context, id string, ttl time.Duration) (bool, error)
}

// MemoryReplayGuard is an in-process ReplayGuard.
type MemoryReplayGuard struct {
	mu    sync.Mutex
	seen  map[[sha256.Size]byte]time.Time
	now   func() time.Time
	calls int
}

// NewMemoryReplayGuard returns an empty guard.
func NewMemoryReplayGuard() *MemoryReplayGuard {
	return &MemoryReplayGuard{
		seen: make(map[[sha256.Size]byte]time.Time),
		now:  time.Now,
	}
}

const sweepEvery = 256

func (g *MemoryReplayGuard) Claim(_ context.Context, id string, ttl time.Duration) (bool, error) {
	key := sha256.Sum256([]byte(id))
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	if g.calls%sweepEvery == 0 {
		for k, exp := range g.seen {
			if !now.Before(exp) {
				delete(g.seen, k)
			}
		}
	}

	if exp, ok := g.seen[key]; ok && now.Before(exp) {
		return false, nil
	}
	g.seen[key] = now.Add(ttl)
	return true, nil
}
