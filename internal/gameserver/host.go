// Package gameserver hosts live saves: it owns the authoritative state for
// every loaded save and serializes commands and ticks against it.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/idlerpg/internal/game/command"
	"github.com/cory-johannsen/idlerpg/internal/game/engine"
	"github.com/cory-johannsen/idlerpg/internal/game/event"
	"github.com/cory-johannsen/idlerpg/internal/game/state"
	"github.com/cory-johannsen/idlerpg/internal/observability"
	"github.com/cory-johannsen/idlerpg/internal/storage"
)

var (
	// ErrNotLoaded is returned for operations on a save that is not loaded.
	ErrNotLoaded = errors.New("save not loaded")
	// ErrCatchingUp is returned by Dispatch while a save still has more
	// pending ticks than one call may resolve. The caller retries later.
	ErrCatchingUp = errors.New("save is catching up")
)

// EventSink receives every event the host produces, in order per save.
type EventSink interface {
	Write(saveID string, events []event.GameEvent) error
}

// NopSink discards events.
type NopSink struct{}

// Write implements EventSink.
func (NopSink) Write(string, []event.GameEvent) error { return nil }

// Options tunes a Host.
type Options struct {
	// MaxCatchupTicks bounds the ticks resolved per save per host call.
	// Values < 1 disable the bound.
	MaxCatchupTicks int64
	// StartLocationID is the location of freshly created saves.
	StartLocationID string
}

// Host keeps loaded saves in memory. All methods are safe for concurrent use;
// operations on one save are serialized by that save's lock.
type Host struct {
	engine   *engine.Engine
	store    storage.Store
	sink     EventSink
	clock    Clock
	registry *command.Registry
	logger   *zap.Logger
	opts     Options

	mu    sync.Mutex
	saves map[string]*slot
}

type slot struct {
	mu    sync.Mutex
	state *state.EngineState
	dirty bool
	// removed is set by Unload before the slot leaves h.saves. A caller that
	// waited on mu must not act on a removed slot.
	removed bool
}

// NewHost creates a Host.
//
// Precondition: eng, store and clock must be non-nil. A nil sink discards
// events; a nil logger is replaced by a no-op logger.
// Postcondition: Returns a Host with no saves loaded.
func NewHost(eng *engine.Engine, store storage.Store, sink EventSink, clock Clock, logger *zap.Logger, opts Options) *Host {
	if sink == nil {
		sink = NopSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{
		engine:   eng,
		store:    store,
		sink:     sink,
		clock:    clock,
		registry: command.DefaultRegistry(),
		logger:   logger,
		opts:     opts,
		saves:    make(map[string]*slot),
	}
}

// Create starts a new save for playerName, persists it and loads it.
//
// Postcondition: Returns a copy of the fresh state; its SaveID is a new UUID.
func (h *Host) Create(ctx context.Context, playerName string) (*state.EngineState, error) {
	saveID := uuid.NewString()
	s := state.NewState(state.NewStateParams{
		SaveID:          saveID,
		PlayerID:        uuid.NewString(),
		PlayerName:      playerName,
		NowMs:           h.clock.NowMs(),
		StartLocationID: h.opts.StartLocationID,
	})
	if err := h.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("creating save: %w", err)
	}

	h.mu.Lock()
	h.saves[saveID] = &slot{state: s}
	h.mu.Unlock()

	h.logger.Info("save created", zap.String("save_id", saveID), zap.String("player", playerName))
	return s.Clone(), nil
}

// Load reads a save from the store and starts catching it up to now. Loading
// an already loaded save is a no-op.
//
// Postcondition: Returns a copy of the loaded state after at most
// MaxCatchupTicks ticks of offline progress.
func (h *Host) Load(ctx context.Context, saveID string) (*state.EngineState, error) {
	for {
		sl, err := h.loadSlot(ctx, saveID)
		if err != nil {
			return nil, err
		}
		sl.mu.Lock()
		if sl.removed {
			// unloaded while we waited; read it back from the store
			sl.mu.Unlock()
			continue
		}
		h.advance(saveID, sl, h.clock.NowMs())
		s := sl.state.Clone()
		sl.mu.Unlock()
		return s, nil
	}
}

// loadSlot returns the loaded slot for saveID, reading it from the store when
// it is not in memory.
func (h *Host) loadSlot(ctx context.Context, saveID string) (*slot, error) {
	h.mu.Lock()
	sl, ok := h.saves[saveID]
	h.mu.Unlock()
	if ok {
		return sl, nil
	}

	s, err := h.store.Get(ctx, saveID)
	if err != nil {
		return nil, fmt.Errorf("loading save %s: %w", saveID, err)
	}
	h.mu.Lock()
	if sl, ok = h.saves[saveID]; !ok {
		sl = &slot{state: s}
		h.saves[saveID] = sl
	}
	h.mu.Unlock()
	if !ok {
		h.logger.Info("save loaded",
			zap.String("save_id", saveID),
			zap.Int64("pending_ticks", h.engine.PendingTicks(s, h.clock.NowMs())),
		)
	}
	return sl, nil
}

// Dispatch advances the save to now and applies cmd.
//
// Precondition: cmd should be stamped with the host clock's current time.
// Postcondition: Returns the tick and command events in order, or
// ErrNotLoaded, or ErrCatchingUp when the save is still behind after this
// call's bounded catch-up. A rejected command is reported as an ERROR event,
// not a Go error.
func (h *Host) Dispatch(saveID string, cmd command.Command) ([]event.GameEvent, error) {
	sl, err := h.lockSlot(saveID)
	if err != nil {
		return nil, err
	}
	defer sl.mu.Unlock()

	now := h.clock.NowMs()
	events := h.advance(saveID, sl, now)
	if h.engine.PendingTicks(sl.state, now) > 0 {
		return events, ErrCatchingUp
	}

	r := h.engine.ApplyCommand(sl.state, cmd)
	sl.state = r.State
	sl.dirty = true
	h.publish(saveID, r.Events)
	return append(events, r.Events...), nil
}

// DispatchLine parses a player command line stamped with the current time
// and dispatches it.
//
// Postcondition: Returns command.ErrUnknownCommand (wrapped) for unparseable
// input without touching the save.
func (h *Host) DispatchLine(saveID, line string) ([]event.GameEvent, error) {
	cmd, err := h.registry.Build(line, h.clock.NowMs())
	if err != nil {
		return nil, err
	}
	return h.Dispatch(saveID, cmd)
}

// TickAll advances every loaded save to nowMs, bounded per save by
// MaxCatchupTicks.
//
// Postcondition: Returns the number of events produced across all saves.
func (h *Host) TickAll(nowMs int64) int {
	total := 0
	for _, id := range h.Loaded() {
		sl, err := h.lockSlot(id)
		if err != nil {
			continue
		}
		total += len(h.advance(id, sl, nowMs))
		sl.mu.Unlock()
	}
	return total
}

// Snapshot returns a copy of a loaded save's current state without advancing it.
func (h *Host) Snapshot(saveID string) (*state.EngineState, error) {
	sl, err := h.lockSlot(saveID)
	if err != nil {
		return nil, err
	}
	defer sl.mu.Unlock()
	return sl.state.Clone(), nil
}

// Flush persists every save changed since its last flush.
//
// Postcondition: Returns nil or an error joining every failed save. A save
// rejected as stale is logged and no longer considered dirty.
func (h *Host) Flush(ctx context.Context) error {
	var errs []error
	for _, id := range h.Loaded() {
		sl, err := h.lockSlot(id)
		if err != nil {
			continue
		}
		err = h.flushLocked(ctx, id, sl)
		sl.mu.Unlock()
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Unload flushes a save and drops it from memory.
func (h *Host) Unload(ctx context.Context, saveID string) error {
	sl, err := h.lockSlot(saveID)
	if err != nil {
		return err
	}
	defer sl.mu.Unlock()
	if err := h.flushLocked(ctx, saveID, sl); err != nil {
		return err
	}

	sl.removed = true
	h.mu.Lock()
	delete(h.saves, saveID)
	h.mu.Unlock()
	h.logger.Info("save unloaded", zap.String("save_id", saveID))
	return nil
}

// Loaded returns the ids of loaded saves in sorted order.
func (h *Host) Loaded() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.saves))
	for id := range h.saves {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// lockSlot returns the loaded slot for saveID with its lock held.
//
// Postcondition: On success the caller owns sl.mu and must unlock it.
// Returns ErrNotLoaded if the save is not loaded or was unloaded while
// waiting for the lock.
func (h *Host) lockSlot(saveID string) (*slot, error) {
	h.mu.Lock()
	sl, ok := h.saves[saveID]
	h.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, saveID)
	}
	sl.mu.Lock()
	if sl.removed {
		sl.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, saveID)
	}
	return sl, nil
}

// advance steps sl toward nowMs, resolving at most MaxCatchupTicks ticks.
// Larger gaps drain over successive calls on the same tick boundaries as
// one long step.
//
// Precondition: sl.mu is held.
func (h *Host) advance(saveID string, sl *slot, nowMs int64) []event.GameEvent {
	target := nowMs
	if limit := h.opts.MaxCatchupTicks; limit > 0 && h.engine.PendingTicks(sl.state, nowMs) > limit {
		target = sl.state.LastTickAtMs + limit*h.engine.TickMs()
	}
	r := h.engine.Step(sl.state, target)
	if len(r.Events) == 0 {
		return nil
	}
	sl.state = r.State
	sl.dirty = true
	h.publish(saveID, r.Events)
	return r.Events
}

func (h *Host) publish(saveID string, events []event.GameEvent) {
	if err := h.sink.Write(saveID, events); err != nil {
		h.logger.Error("writing events", zap.String("save_id", saveID), zap.Error(err))
	}
	for _, ev := range events {
		level := zapcore.DebugLevel
		if ev.Type == event.Error {
			level = zapcore.WarnLevel
		}
		if ce := h.logger.Check(level, "game event"); ce != nil {
			ce.Write(observability.EventFields(saveID, ev)...)
		}
	}
}

// Precondition: sl.mu is held.
func (h *Host) flushLocked(ctx context.Context, saveID string, sl *slot) error {
	if !sl.dirty {
		return nil
	}
	err := h.store.Put(ctx, sl.state)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrStaleSave):
		h.logger.Warn("stored save is ahead of the host copy", zap.String("save_id", saveID))
	default:
		return fmt.Errorf("flushing save %s: %w", saveID, err)
	}
	sl.dirty = false
	return nil
}
