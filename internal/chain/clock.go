// internal/chain/clock.go
package chain

import (
	"sync"
	"time"
)

// MonotonicClock returns wall-clock nanoseconds that never go backwards.
type MonotonicClock struct {
	mu   sync.Mutex
	last uint64
	now  func() time.Time
}

func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{now: time.Now}
}

func (c *MonotonicClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := uint64(c.now().UnixNano())
	if ts < c.last {
		ts = c.last
	}
	c.last = ts
	return ts
}

// ManualClock is advanced by hand. Useful for deterministic tests and replays.
type ManualClock struct {
	mu sync.Mutex
	ts uint64
}

func NewManualClock(start uint64) *ManualClock {
	return &ManualClock{ts: start}
}

func (c *ManualClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ts
}

func (c *ManualClock) Advance(d uint64) {
	c.mu.Lock()
	c.ts += d
	c.mu.Unlock()
}
