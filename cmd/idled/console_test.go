package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/idlerpg/internal/game/content"
	"github.com/cory-johannsen/idlerpg/internal/game/engine"
	"github.com/cory-johannsen/idlerpg/internal/game/event"
	"github.com/cory-johannsen/idlerpg/internal/gameserver"
	"github.com/cory-johannsen/idlerpg/internal/storage/sqlite"
)

func newTestConsole(t *testing.T) (*console, *gameserver.ManualClock) {
	t.Helper()
	idx, err := content.LoadDir("../../content")
	require.NoError(t, err)
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "idled.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := zaptest.NewLogger(t)
	clock := gameserver.NewManualClock(1_000_000)
	host := gameserver.NewHost(engine.New(idx, engine.DefaultConfig(), logger), store, nil, clock, logger,
		gameserver.Options{MaxCatchupTicks: 100, StartLocationID: firstLocation(idx)})
	return newConsole(host, store, clock, &bytes.Buffer{}), clock
}

func TestConsole_Session(t *testing.T) {
	c, clock := newTestConsole(t)
	ctx := context.Background()

	created := c.handle(ctx, "new Ada")
	require.Empty(t, created.Error)
	id := created.SaveID
	require.NotEmpty(t, id)
	assert.Equal(t, "cave", created.State.CurrentLocationID)

	r := c.handle(ctx, id+" gather meadow")
	require.Empty(t, r.Error)
	require.Len(t, r.Events, 1)
	assert.Equal(t, event.ActivitySet, r.Events[0].Type)

	clock.Advance(10 * time.Second)
	shown := c.handle(ctx, "show "+id)
	require.Empty(t, shown.Error)
	assert.Equal(t, int64(0), shown.State.TickIndex, "show does not advance")
	require.NotNil(t, shown.Rates)

	r = c.handle(ctx, id+" idle")
	require.Empty(t, r.Error)
	assert.Equal(t, event.TickProcessed, r.Events[len(r.Events)-2].Type)

	listed := c.handle(ctx, "list")
	require.Empty(t, listed.Error)
	assert.Equal(t, []string{id}, listed.Loaded)
	require.Len(t, listed.Saves, 1)

	require.Empty(t, c.handle(ctx, "unload "+id).Error)
	reloaded := c.handle(ctx, "load "+id)
	require.Empty(t, reloaded.Error)
	assert.Equal(t, int64(10), reloaded.State.TickIndex)
}

func TestConsole_Errors(t *testing.T) {
	c, _ := newTestConsole(t)
	ctx := context.Background()

	assert.NotEmpty(t, c.handle(ctx, "").Error)
	assert.NotEmpty(t, c.handle(ctx, "new").Error)
	assert.Contains(t, c.handle(ctx, "load nope").Error, "save not found")
	assert.Contains(t, c.handle(ctx, "ghost idle").Error, "save not loaded")

	id := c.handle(ctx, "new Ada").SaveID
	assert.Contains(t, c.handle(ctx, id+" dance").Error, "unknown command")
}

func TestConsole_CatchingUpAsksForRetry(t *testing.T) {
	c, clock := newTestConsole(t)
	ctx := context.Background()
	id := c.handle(ctx, "new Ada").SaveID

	clock.Advance(250 * time.Second)
	r := c.handle(ctx, id+" idle")
	assert.Contains(t, r.Error, "retry shortly")
}

func TestConsole_Serve(t *testing.T) {
	c, _ := newTestConsole(t)
	var out bytes.Buffer
	c.out = json.NewEncoder(&out)

	err := c.serve(context.Background(), strings.NewReader("new Ada\nlist\n"))
	require.NoError(t, err)

	dec := json.NewDecoder(&out)
	var first, second reply
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.NotEmpty(t, first.SaveID)
	assert.Equal(t, []string{first.SaveID}, second.Loaded)
}
