package gameserver

import (
	"context"
	"sort"
	"sync"
	"time"
)

// TickManager invokes named callbacks on a fixed wall-clock interval.
// Callbacks run sequentially in name order on the manager's goroutine.
//
// Invariant: each callback is invoked at most once per interval.
type TickManager struct {
	interval time.Duration
	clock    Clock
	mu       sync.Mutex
	ticks    map[string]func(nowMs int64)
}

// NewTickManager returns a manager that fires every interval, passing the
// clock's current time to each callback.
//
// Precondition: interval must be > 0; clock must be non-nil.
func NewTickManager(interval time.Duration, clock Clock) *TickManager {
	if interval <= 0 {
		panic("gameserver.NewTickManager: interval must be > 0")
	}
	return &TickManager{
		interval: interval,
		clock:    clock,
		ticks:    make(map[string]func(int64)),
	}
}

// Register installs fn under name, replacing any existing callback.
func (m *TickManager) Register(name string, fn func(nowMs int64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks[name] = fn
}

// Unregister removes the callback registered under name.
func (m *TickManager) Unregister(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ticks, name)
}

// Run fires callbacks until ctx is cancelled. It blocks and always returns nil,
// so it fits server.FuncService directly.
func (m *TickManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.fire()
		}
	}
}

func (m *TickManager) fire() {
	m.mu.Lock()
	names := make([]string, 0, len(m.ticks))
	for name := range m.ticks {
		names = append(names, name)
	}
	sort.Strings(names)
	callbacks := make([]func(int64), 0, len(names))
	for _, name := range names {
		callbacks = append(callbacks, m.ticks[name])
	}
	m.mu.Unlock()

	now := m.clock.NowMs()
	for _, fn := range callbacks {
		fn(now)
	}
}
