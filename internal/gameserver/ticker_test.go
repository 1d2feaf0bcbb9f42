package gameserver_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/idlerpg/internal/gameserver"
)

func TestTickManager_RunReturnsOnCancel(t *testing.T) {
	m := gameserver.NewTickManager(10*time.Millisecond, gameserver.SystemClock{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestTickManager_PassesClockTime(t *testing.T) {
	clock := gameserver.NewManualClock(12345)
	m := gameserver.NewTickManager(10*time.Millisecond, clock)
	got := make(chan int64, 1)
	m.Register("tick", func(nowMs int64) {
		select {
		case got <- nowMs:
		default:
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go func() { _ = m.Run(ctx) }()

	select {
	case now := <-got:
		assert.Equal(t, int64(12345), now)
	case <-ctx.Done():
		t.Fatal("tick callback not invoked within timeout")
	}
}

func TestTickManager_CallbacksRunInNameOrder(t *testing.T) {
	m := gameserver.NewTickManager(10*time.Millisecond, gameserver.SystemClock{})
	var mu sync.Mutex
	var order []string
	record := func(name string) func(int64) {
		return func(int64) {
			mu.Lock()
			defer mu.Unlock()
			if len(order) < 3 {
				order = append(order, name)
			}
		}
	}
	m.Register("b-autosave", record("b-autosave"))
	m.Register("a-tick", record("a-tick"))
	m.Register("c-report", record("c-report"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = m.Run(ctx) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 3
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a-tick", "b-autosave", "c-report"}, order)
}

func TestTickManager_UnregisterStopsCallback(t *testing.T) {
	m := gameserver.NewTickManager(10*time.Millisecond, gameserver.SystemClock{})
	var count atomic.Int64
	m.Register("z", func(int64) { count.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = m.Run(ctx) }()

	require.Eventually(t, func() bool { return count.Load() > 0 }, time.Second, 5*time.Millisecond)
	m.Unregister("z")
	after := count.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, count.Load(), after+1)
}

func TestNewTickManager_PanicsOnNonPositiveInterval(t *testing.T) {
	assert.Panics(t, func() { gameserver.NewTickManager(0, gameserver.SystemClock{}) })
}
