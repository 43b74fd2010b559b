package service

import (
	"sync"
	"time"
)

// Gate is the process-wide alert cooldown. The first TryAcquire always succeeds
type Gate struct {
	mu       sync.Mutex
	cooldown time.Duration
	last     time.Time
	used     bool
}

// NewGate returns a gate that opens at most once per cooldown
func NewGate(cooldown time.Duration) *Gate { return &Gate{cooldown: cooldown} }

// TryAcquire checks and records now under one lock, so two callers racing in the same
// window cannot both pass
func (g *Gate) TryAcquire(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.used && now.Sub(g.last) < g.cooldown {
		return false
	}
	g.last, g.used = now, true
	return true
}

// Remaining is how long until the gate opens again; 0 when open
func (g *Gate) Remaining(now time.Time) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.used {
		return 0
	}
	if d := g.cooldown - now.Sub(g.last); d > 0 {
		return d
	}
	return 0
}
