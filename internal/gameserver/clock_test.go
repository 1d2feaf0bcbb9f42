package gameserver_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/idlerpg/internal/gameserver"
)

func TestManualClock(t *testing.T) {
	c := gameserver.NewManualClock(1000)
	assert.Equal(t, int64(1000), c.NowMs())

	c.Advance(1500 * time.Millisecond)
	assert.Equal(t, int64(2500), c.NowMs())

	c.Advance(-time.Second)
	assert.Equal(t, int64(2500), c.NowMs())

	c.Set(10)
	assert.Equal(t, int64(10), c.NowMs())
}

func TestSystemClock_TracksWallTime(t *testing.T) {
	before := time.Now().UnixMilli()
	got := gameserver.SystemClock{}.NowMs()
	after := time.Now().UnixMilli()
	assert.GreaterOrEqual(t, got, before)
	assert.LessOrEqual(t, got, after)
}

func TestProperty_ManualClockNeverGoesBackOnAdvance(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := gameserver.NewManualClock(rapid.Int64Range(0, 1<<40).Draw(rt, "start"))
		steps := rapid.SliceOf(rapid.Int64Range(-5000, 5000)).Draw(rt, "steps")
		prev := c.NowMs()
		for _, ms := range steps {
			c.Advance(time.Duration(ms) * time.Millisecond)
			if c.NowMs() < prev {
				rt.Fatalf("clock went back from %d to %d", prev, c.NowMs())
			}
			prev = c.NowMs()
		}
	})
}
