package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/idlerpg/internal/game/command"
	"github.com/cory-johannsen/idlerpg/internal/game/engine"
	"github.com/cory-johannsen/idlerpg/internal/game/event"
	"github.com/cory-johannsen/idlerpg/internal/game/state"
)

type scripted struct {
	atMs int64
	cmd  command.Command // nil means step to atMs
}

func goldenScript() []scripted {
	return []scripted{
		{1000, command.AcceptQuest{TemplateID: "rat_cull", AtMs: 1000}},
		{1000, command.AcceptQuest{TemplateID: "herb_run", AtMs: 1000}},
		{1000, command.SetActivity{Params: state.Hunt("forest"), AtMs: 1000}},
		{45_000, nil},
		{45_000, command.SetActivity{Params: state.Gather("forest"), AtMs: 45_000}},
		{120_500, nil},
		{120_500, command.SetActivity{Params: state.Craft("plank"), AtMs: 120_500}},
		{150_000, nil},
		{150_000, command.SetTactics{Tactics: state.TacticsDefensive, AtMs: 150_000}},
		{150_000, command.SetActivity{Params: state.Hunt("forest"), AtMs: 150_000}},
		{900_000, nil},
	}
}

func run(e *engine.Engine, script []scripted) (*state.EngineState, []event.GameEvent) {
	s := freshState()
	var all []event.GameEvent
	for _, step := range script {
		var r engine.Result
		if step.cmd == nil {
			r = e.Step(s, step.atMs)
		} else {
			r = e.ApplyCommand(s, step.cmd)
		}
		s = r.State
		all = append(all, r.Events...)
	}
	return s, all
}

func TestDeterminism_GoldenRun(t *testing.T) {
	a, aEvents := run(newEngine(t), goldenScript())
	b, bEvents := run(newEngine(t), goldenScript())

	require.Equal(t, a, b)
	require.Equal(t, aEvents, bEvents)

	// the run exercises combat, gathering, crafting and quests
	assert.NotEmpty(t, ofType(aEvents, event.EncounterResolved))
	assert.NotEmpty(t, ofType(aEvents, event.LootGained))
	assert.NotEmpty(t, ofType(aEvents, event.QuestProgress))
	assert.Greater(t, a.TickIndex, int64(800))
	require.NoError(t, a.Validate())
}

func TestDeterminism_DifferentSaveDiverges(t *testing.T) {
	e := newEngine(t)
	s1 := apply(t, e, freshState(), command.SetActivity{Params: state.Gather("forest"), AtMs: 1000})
	s2 := s1.Clone()
	s2.SaveID = "save-2"

	r1 := e.Step(s1, 200_000)
	r2 := e.Step(s2, 200_000)
	assert.NotEqual(t, r1.State.Inventory, r2.State.Inventory)
}

var activities = []state.ActivityParams{
	state.Idle(),
	state.Hunt("forest"),
	state.Hunt("meadow"),
	state.Hunt("cave"),
	state.Gather("forest"),
	state.Explore("meadow"),
	state.Trade("forest"),
	state.Craft("plank"),
	state.Train("melee"),
}

// normalize drops the bookkeeping that legitimately depends on how a span of
// time was chunked: event ids and the TICK_PROCESSED summaries.
func normalize(s *state.EngineState, evs []event.GameEvent) (*state.EngineState, []event.GameEvent) {
	c := s.Clone()
	c.NextEventID = 0
	var out []event.GameEvent
	for _, ev := range evs {
		if ev.Type == event.TickProcessed {
			continue
		}
		ev.ID = 0
		out = append(out, ev)
	}
	return c, out
}

func TestChunkedReplayEquivalence(t *testing.T) {
	e := newEngine(t)
	rapid.Check(t, func(rt *rapid.T) {
		s := freshState()
		s.Player.Gold = rapid.IntRange(0, 50).Draw(rt, "gold")
		s.AddItem("wood", rapid.IntRange(0, 20).Draw(rt, "wood"))
		params := rapid.SampledFrom(activities).Draw(rt, "activity")
		s = e.ApplyCommand(s, command.SetActivity{Params: params, AtMs: 1000}).State

		end := s.LastTickAtMs + rapid.Int64Range(0, 300_000).Draw(rt, "span")
		whole := e.SimulateOffline(s, s.LastTickAtMs, end)

		cur := s
		var chunked []event.GameEvent
		for cur.LastTickAtMs+e.TickMs() <= end {
			next := cur.LastTickAtMs + rapid.Int64Range(1, 20_000).Draw(rt, "chunk")
			if next > end {
				next = end
			}
			r := e.Step(cur, next)
			cur = r.State
			chunked = append(chunked, r.Events...)
		}

		ws, we := normalize(whole.State, whole.Events)
		cs, ce := normalize(cur, chunked)
		if !assert.Equal(rt, ws, cs) || !assert.Equal(rt, we, ce) {
			rt.FailNow()
		}
	})
}

func TestProperty_XPMonotonicAndInventoryPositive(t *testing.T) {
	e := newEngine(t)
	rapid.Check(t, func(rt *rapid.T) {
		s := freshState()
		s.Player.Gold = rapid.IntRange(0, 30).Draw(rt, "gold")
		s.AddItem("wood", rapid.IntRange(0, 10).Draw(rt, "wood"))

		n := rapid.IntRange(1, 40).Draw(rt, "rounds")
		for i := 0; i < n; i++ {
			if rapid.Bool().Draw(rt, "switch") {
				params := rapid.SampledFrom(activities).Draw(rt, "activity")
				s = e.ApplyCommand(s, command.SetActivity{Params: params, AtMs: s.LastTickAtMs}).State
			}

			before := s.Player
			r := e.Step(s, s.LastTickAtMs+e.TickMs())
			after := r.State.Player

			lost := false
			for _, ev := range ofType(r.Events, event.EncounterResolved) {
				lost = lost || ev.Payload.Outcome == event.OutcomeLoss
			}
			if !lost && after.XP < before.XP {
				rt.Fatalf("xp decreased %d -> %d without a defeat", before.XP, after.XP)
			}
			if after.Level < before.Level {
				rt.Fatalf("level decreased %d -> %d", before.Level, after.Level)
			}
			if r.State.TickIndex != s.TickIndex+1 {
				rt.Fatalf("tick index %d -> %d", s.TickIndex, r.State.TickIndex)
			}
			if r.State.NextEventID < s.NextEventID {
				rt.Fatalf("event id went backwards")
			}
			if err := r.State.Validate(); err != nil {
				rt.Fatalf("invalid state: %v", err)
			}
			s = r.State
		}
	})
}

func TestProperty_StepIntoPastIsNoop(t *testing.T) {
	e := newEngine(t)
	rapid.Check(t, func(rt *rapid.T) {
		s := freshState()
		now := rapid.Int64Range(-1_000_000, s.LastTickAtMs+e.TickMs()-1).Draw(rt, "now")
		r := e.Step(s, now)
		if r.State != s || len(r.Events) != 0 {
			rt.Fatalf("step to %d changed state", now)
		}
	})
}
