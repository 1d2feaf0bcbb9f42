// Package engine advances an EngineState by commands and whole ticks.
//
// Every entry point is a pure transition: the input state is never mutated,
// a fresh state plus the ordered events it produced are returned, and
// failures surface as ERROR events rather than Go errors.
package engine

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/idlerpg/internal/game/content"
	"github.com/cory-johannsen/idlerpg/internal/game/event"
	"github.com/cory-johannsen/idlerpg/internal/game/state"
)

// DefaultTickMs is the tick duration used when Config.TickMs is unset.
const DefaultTickMs int64 = 1000

// Config holds engine tuning.
type Config struct {
	TickMs int64 `mapstructure:"tick_ms"`
}

// DefaultConfig returns a Config with DefaultTickMs.
func DefaultConfig() Config {
	return Config{TickMs: DefaultTickMs}
}

// Result is the output of one transition.
type Result struct {
	State  *state.EngineState
	Events []event.GameEvent
}

// Engine applies transitions against a fixed content index.
type Engine struct {
	content *content.Index
	cfg     Config
	logger  *zap.Logger
}

// New creates an Engine.
//
// Precondition: idx may be nil; activities needing content then emit
// CONTENT_MISSING. A non-positive cfg.TickMs is replaced by DefaultTickMs.
// Postcondition: Returns a non-nil Engine.
func New(idx *content.Index, cfg Config, logger *zap.Logger) *Engine {
	if cfg.TickMs <= 0 {
		cfg.TickMs = DefaultTickMs
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{content: idx, cfg: cfg, logger: logger}
}

// TickMs returns the configured tick duration.
func (e *Engine) TickMs() int64 { return e.cfg.TickMs }

// PendingTicks reports how many whole ticks lie between s and nowMs.
func (e *Engine) PendingTicks(s *state.EngineState, nowMs int64) int64 {
	if nowMs <= s.LastTickAtMs {
		return 0
	}
	return (nowMs - s.LastTickAtMs) / e.cfg.TickMs
}

// Step runs every whole tick between s.LastTickAtMs and nowMs, then appends a
// single TICK_PROCESSED summary.
//
// Postcondition: if no whole tick fits, returns s itself and no events.
// Otherwise LastTickAtMs advanced by ticks*TickMs and s is untouched.
func (e *Engine) Step(s *state.EngineState, nowMs int64) Result {
	ticks := e.PendingTicks(s, nowMs)
	if ticks <= 0 {
		return Result{State: s, Events: []event.GameEvent{}}
	}

	next := s.Clone()
	log := event.NewLog(next)
	for i := int64(0); i < ticks; i++ {
		e.runOneTick(next, log, next.LastTickAtMs+e.cfg.TickMs)
	}
	log.Emit(next.LastTickAtMs, event.TickProcessed, event.Payload{Ticks: ticks})

	events := log.Events()
	e.logger.Debug("stepped",
		zap.String("save_id", next.SaveID),
		zap.Int64("ticks", ticks),
		zap.Int64("tick_index", next.TickIndex),
		zap.Int("events", len(events)),
	)
	return Result{State: next, Events: events}
}

// SimulateOffline replays the gap between fromMs and toMs. Both bounds are
// clamped to the state's current tick position, so the result is identical
// to Step(s, toMs).
func (e *Engine) SimulateOffline(s *state.EngineState, fromMs, toMs int64) Result {
	if fromMs < s.LastTickAtMs {
		fromMs = s.LastTickAtMs
	}
	if toMs < fromMs {
		toMs = fromMs
	}
	return e.Step(s, toMs)
}
