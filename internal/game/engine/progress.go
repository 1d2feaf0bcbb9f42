package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/idlerpg/internal/game/event"
	"github.com/cory-johannsen/idlerpg/internal/game/state"
)

// txn is one in-flight transition: the private state copy, its event log and
// the timestamp stamped on every event it emits.
type txn struct {
	e   *Engine
	s   *state.EngineState
	log *event.Log
	at  int64
}

func (t *txn) emit(typ event.Type, p event.Payload) {
	t.log.Emit(t.at, typ, p)
}

func (t *txn) fail(code event.Code, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	t.log.Fail(t.at, code, msg)
	t.e.logger.Debug("engine error",
		zap.String("save_id", t.s.SaveID),
		zap.Int64("tick_index", t.s.TickIndex),
		zap.String("code", string(code)),
		zap.String("message", msg),
	)
}

// abort reports an error and drops the running activity back to idle without
// an ACTIVITY_SET event.
func (t *txn) abort(code event.Code, format string, args ...any) {
	t.fail(code, format, args...)
	t.s.Activity = state.Activity{
		ID:          fmt.Sprintf("act_t%d", t.s.TickIndex),
		Params:      state.Idle(),
		StartedAtMs: t.at,
	}
}

// switchActivity replaces the activity from inside a tick and announces it.
// Tick-driven ids derive from the tick index so that chunked and unchunked
// replays name activities identically.
func (t *txn) switchActivity(p state.ActivityParams) {
	t.s.Activity = state.Activity{
		ID:          fmt.Sprintf("act_t%d", t.s.TickIndex),
		Params:      p,
		StartedAtMs: t.at,
	}
	a := t.s.Activity
	t.emit(event.ActivitySet, event.Payload{Activity: &a})
}

// grantXP adds player xp and emits one LEVEL_UP per threshold crossed.
// Negative amounts never lower the level.
func (t *txn) grantXP(amount int, reason, skillID string) {
	if amount == 0 {
		return
	}
	p := &t.s.Player
	p.XP += amount
	t.emit(event.XPGained, event.Payload{Amount: amount, Reason: reason, SkillID: skillID})
	for p.XP >= state.XPThreshold(p.Level) {
		p.Level++
		t.emit(event.LevelUp, event.Payload{Kind: event.LevelPlayer, Level: p.Level})
	}
}

// grantSkillXP adds skill xp, creating the skill at level 1 if unknown.
func (t *txn) grantSkillXP(skillID string, amount int) {
	if skillID == "" || amount <= 0 {
		return
	}
	sp, ok := t.s.Player.Skills[skillID]
	if !ok {
		sp = state.SkillProgress{Level: 1}
	}
	sp.XP += amount
	for sp.XP >= state.SkillThreshold(sp.Level) {
		sp.Level++
		t.emit(event.LevelUp, event.Payload{Kind: event.LevelSkill, SkillID: skillID, Level: sp.Level})
	}
	t.s.Player.Skills[skillID] = sp
}

func (t *txn) changeGold(amount int, reason string) {
	if amount == 0 {
		return
	}
	t.s.Player.Gold += amount
	t.emit(event.GoldChanged, event.Payload{Amount: amount, Reason: reason})
}
