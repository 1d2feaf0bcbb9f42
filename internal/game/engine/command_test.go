package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/idlerpg/internal/game/command"
	"github.com/cory-johannsen/idlerpg/internal/game/content"
	"github.com/cory-johannsen/idlerpg/internal/game/engine"
	"github.com/cory-johannsen/idlerpg/internal/game/event"
	"github.com/cory-johannsen/idlerpg/internal/game/state"
)

func TestSetActivity_ReplacesWholesale(t *testing.T) {
	e := newEngine(t)
	s := freshState()

	r := e.ApplyCommand(s, command.SetActivity{Params: state.Hunt("forest"), AtMs: 1200})
	require.Len(t, r.Events, 1)
	assert.Equal(t, event.ActivitySet, r.Events[0].Type)
	require.NotNil(t, r.Events[0].Payload.Activity)
	assert.Equal(t, r.State.Activity, *r.Events[0].Payload.Activity)
	assert.Equal(t, "forest", r.State.CurrentLocationID)
	assert.Equal(t, int64(1200), r.State.Activity.StartedAtMs)
	assert.Equal(t, int64(1200), r.State.UpdatedAtMs)

	r = e.ApplyCommand(r.State, command.SetActivity{Params: state.Train("melee"), AtMs: 1300})
	assert.Equal(t, state.Train("melee"), r.State.Activity.Params)
	assert.Equal(t, "forest", r.State.CurrentLocationID)
}

func TestSetActivity_RejectsMalformedVariant(t *testing.T) {
	e := newEngine(t)
	s := freshState()

	r := e.ApplyCommand(s, command.SetActivity{Params: state.ActivityParams{Type: state.ActivityHunt, RecipeID: "plank"}, AtMs: 1100})
	assert.Equal(t, []event.Code{event.CodeInvalidActivity}, errorCodes(r.Events))
	assert.Equal(t, s.Activity, r.State.Activity)
	assert.Equal(t, int64(1100), r.State.UpdatedAtMs)
}

func TestApplyCommand_NilIsUnknown(t *testing.T) {
	e := newEngine(t)
	r := e.ApplyCommand(freshState(), nil)
	assert.Equal(t, []event.Code{event.CodeUnknownCommand}, errorCodes(r.Events))
}

func TestAcceptQuest_CreatesActiveInstance(t *testing.T) {
	e := newEngine(t)
	s := freshState()

	r := e.ApplyCommand(s, command.AcceptQuest{TemplateID: "scout", NpcID: "elder", AtMs: 1000})
	require.Len(t, r.State.Quests, 1)
	q := r.State.Quests[0]
	assert.Equal(t, "quest_1", q.ID)
	assert.Equal(t, state.QuestActive, q.Status)
	assert.Equal(t, "elder", q.NpcID)
	assert.Equal(t, int64(1000), q.CreatedAtMs)
	assert.GreaterOrEqual(t, q.Progress.Required, 1)
	assert.LessOrEqual(t, q.Progress.Required, 4)
	assert.Contains(t, []string{"forest", "meadow"}, q.LocationID)

	accepted := ofType(r.Events, event.QuestAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, q.ID, accepted[0].Payload.QuestID)

	again := e.ApplyCommand(s, command.AcceptQuest{TemplateID: "scout", AtMs: 1000})
	assert.Equal(t, q.Progress, again.State.Quests[0].Progress)
	assert.Equal(t, q.LocationID, again.State.Quests[0].LocationID)
}

func TestAcceptQuest_RequiresContent(t *testing.T) {
	e := engine.New(nil, engine.DefaultConfig(), nil)
	r := e.ApplyCommand(freshState(), command.AcceptQuest{TemplateID: "scout", AtMs: 1000})
	assert.Equal(t, []event.Code{event.CodeContentMissing}, errorCodes(r.Events))
	assert.Empty(t, r.State.Quests)
}

func TestQuest_GatherObjectiveCompletesWithRewards(t *testing.T) {
	e := newEngine(t)
	s := apply(t, e, freshState(), command.AcceptQuest{TemplateID: "herb_run", AtMs: 1000})
	questID := s.Quests[0].ID
	s = apply(t, e, s, command.SetActivity{Params: state.Quest(questID), AtMs: 1000})

	r := e.Step(s, 4000)

	q := r.State.Quests[0]
	assert.Equal(t, state.QuestCompleted, q.Status)
	require.NotNil(t, q.CompletedAtMs)
	assert.Equal(t, int64(3000), *q.CompletedAtMs)
	assert.Equal(t, state.Progress{Current: 2, Required: 2}, q.Progress)

	progress := ofType(r.Events, event.QuestProgress)
	require.Len(t, progress, 2)
	assert.Equal(t, 1, progress[0].Payload.Progress.Current)

	completed := ofType(r.Events, event.QuestCompleted)
	require.Len(t, completed, 1)
	require.NotNil(t, completed[0].Payload.Rewards)
	assert.Equal(t, 7, completed[0].Payload.Rewards.Gold)

	assert.Equal(t, 2, r.State.ItemQty("herb"))
	assert.Equal(t, 1, r.State.ItemQty("charm"))
	assert.Equal(t, 7, r.State.Player.Gold)
	assert.Equal(t, 12, r.State.Player.XP)
	assert.Equal(t, 3, r.State.Player.Reputation["herbalists"])
	assert.Equal(t, state.ActivityIdle, r.State.Activity.Params.Type)
}

func TestQuest_KillObjectiveFightsTarget(t *testing.T) {
	e := newEngine(t)
	s := apply(t, e, freshState(), command.AcceptQuest{TemplateID: "rat_cull", AtMs: 1000})
	s = apply(t, e, s, command.SetActivity{Params: state.Quest(s.Quests[0].ID), AtMs: 1000})

	r := e.Step(s, 6000)

	wins := ofType(r.Events, event.EncounterResolved)
	require.Len(t, wins, 3)
	for _, ev := range wins {
		assert.Equal(t, "rat", ev.Payload.EnemyID)
		assert.Equal(t, event.OutcomeWin, ev.Payload.Outcome)
	}
	assert.Equal(t, state.QuestCompleted, r.State.Quests[0].Status)
	assert.Equal(t, 3, r.State.ItemQty("fang"))
	assert.Equal(t, 3, r.State.Player.Gold)
	assert.Equal(t, 3*2+5, r.State.Player.XP)
	assert.Equal(t, state.ActivityIdle, r.State.Activity.Params.Type)
}

func TestQuest_HuntingProgressesKillQuest(t *testing.T) {
	e := newEngine(t)
	s := apply(t, e, freshState(), command.AcceptQuest{TemplateID: "rat_cull", AtMs: 1000})
	s = apply(t, e, s, command.SetActivity{Params: state.Hunt("meadow"), AtMs: 1000})

	r := e.Step(s, 3000)
	assert.Equal(t, state.Progress{Current: 2, Required: 3}, r.State.Quests[0].Progress)
	assert.Equal(t, state.ActivityHunt, r.State.Activity.Params.Type)
}

func TestQuest_CraftObjective(t *testing.T) {
	e := newEngine(t)
	s := freshState()
	s.AddItem("wood", 2)
	s = apply(t, e, s, command.AcceptQuest{TemplateID: "planks", AtMs: 1000})
	s = apply(t, e, s, command.SetActivity{Params: state.Craft("plank"), AtMs: 1000})

	r := e.Step(s, 2000)
	assert.Equal(t, state.QuestCompleted, r.State.Quests[0].Status)
	assert.Equal(t, []state.ItemStack{{ItemID: "plank", Qty: 1}}, r.State.Inventory)
	assert.Equal(t, state.ActivityCraft, r.State.Activity.Params.Type)
}

func TestQuest_UnhandledObjectiveIsQuiet(t *testing.T) {
	e := newEngine(t)
	s := apply(t, e, freshState(), command.AcceptQuest{TemplateID: "scout", AtMs: 1000})
	s = apply(t, e, s, command.SetActivity{Params: state.Quest(s.Quests[0].ID), AtMs: 1000})

	r := e.Step(s, 5000)
	require.Len(t, r.Events, 1)
	assert.Equal(t, event.TickProcessed, r.Events[0].Type)
	assert.Equal(t, state.ActivityQuest, r.State.Activity.Params.Type)
}

func TestAbandonQuest(t *testing.T) {
	e := newEngine(t)
	s := apply(t, e, freshState(), command.AcceptQuest{TemplateID: "rat_cull", AtMs: 1000})
	questID := s.Quests[0].ID
	s = apply(t, e, s, command.SetActivity{Params: state.Quest(questID), AtMs: 1000})

	r := e.ApplyCommand(s, command.AbandonQuest{QuestID: questID, AtMs: 1500})
	assert.Equal(t, state.QuestAbandoned, r.State.Quests[0].Status)
	assert.Len(t, ofType(r.Events, event.QuestAbandoned), 1)
	assert.Equal(t, state.ActivityIdle, r.State.Activity.Params.Type)

	again := e.ApplyCommand(r.State, command.AbandonQuest{QuestID: questID, AtMs: 1600})
	assert.Empty(t, again.Events)
	assert.Equal(t, r.State.Quests, again.State.Quests)

	missing := e.ApplyCommand(s, command.AbandonQuest{QuestID: "quest_999", AtMs: 1600})
	assert.Empty(t, missing.Events)
}

func TestEquipAndUnequip(t *testing.T) {
	e := newEngine(t)
	s := freshState()

	r := e.ApplyCommand(s, command.EquipItem{ItemID: "charm", Slot: state.SlotAccessory1, AtMs: 1000})
	assert.Equal(t, []event.Code{event.CodeItemNotOwned}, errorCodes(r.Events))
	assert.Equal(t, state.Equipment{}, r.State.Equipment)

	s.AddItem("charm", 1)
	r = e.ApplyCommand(s, command.EquipItem{ItemID: "charm", Slot: "belt", AtMs: 1000})
	assert.Equal(t, []event.Code{event.CodeInvalidSlot}, errorCodes(r.Events))

	r = e.ApplyCommand(s, command.EquipItem{ItemID: "charm", Slot: state.SlotAccessory1, AtMs: 1000})
	assert.Empty(t, errorCodes(r.Events))
	assert.Equal(t, "charm", r.State.Equipment.Accessory1)
	assert.Equal(t, 1, r.State.ItemQty("charm"))
	assert.Equal(t, s.Player.Stats, r.State.Player.Stats)

	r = e.ApplyCommand(r.State, command.UnequipItem{Slot: state.SlotAccessory1, AtMs: 1100})
	require.Len(t, r.Events, 1)
	assert.Equal(t, "charm", r.Events[0].Payload.ItemID)
	assert.Equal(t, state.Equipment{}, r.State.Equipment)

	r = e.ApplyCommand(r.State, command.UnequipItem{Slot: "belt", AtMs: 1100})
	assert.Equal(t, []event.Code{event.CodeInvalidSlot}, errorCodes(r.Events))
}

func TestUseItem(t *testing.T) {
	e := newEngine(t)
	s := freshState()
	s.AddItem("herb", 2)

	r := e.ApplyCommand(s, command.UseItem{ItemID: "herb", AtMs: 1000})
	require.Len(t, r.Events, 1)
	assert.Equal(t, event.ItemConsumed, r.Events[0].Type)
	assert.Equal(t, 1, r.State.ItemQty("herb"))

	r = e.ApplyCommand(r.State, command.UseItem{ItemID: "herb", AtMs: 1000})
	assert.Empty(t, r.State.Inventory)

	r = e.ApplyCommand(r.State, command.UseItem{ItemID: "herb", AtMs: 1000})
	assert.Equal(t, []event.Code{event.CodeItemNotOwned}, errorCodes(r.Events))
}

func TestResetMetrics(t *testing.T) {
	e := newEngine(t)
	s := freshState()
	s.Player.XP = 40
	s.Player.Gold = 9

	r := e.ApplyCommand(s, command.ResetMetrics{AtMs: 77000})
	assert.Equal(t, state.Metrics{StartTimeMs: 77000, StartXP: 40, StartGold: 9}, r.State.Metrics)
	assert.Equal(t, state.Metrics{StartTimeMs: 1000}, s.Metrics)
}

func TestSetTactics_ChangesCombatPower(t *testing.T) {
	e := newEngine(t)
	s := apply(t, e, freshState(), command.SetTactics{Tactics: state.TacticsAggressive, AtMs: 1000})
	assert.Equal(t, state.TacticsAggressive, s.Player.Tactics)

	r := e.ApplyCommand(s, command.SetTactics{Tactics: "reckless", AtMs: 1000})
	assert.Equal(t, []event.Code{event.CodeInvalidTactics}, errorCodes(r.Events))
	assert.Equal(t, state.TacticsAggressive, r.State.Player.Tactics)

	s = apply(t, e, s, command.SetActivity{Params: state.Hunt("meadow"), AtMs: 1000})
	res := ofType(e.Step(s, 2000).Events, event.EncounterResolved)
	require.Len(t, res, 1)
	// 5*1.2*2 + 5*0.8*2 + 1*2 = 22 before jitter
	assert.GreaterOrEqual(t, res[0].Payload.PlayerPower, 22.0)
	assert.Less(t, res[0].Payload.PlayerPower, 25.0)
}

func TestLootGained_MatchesInventoryDelta(t *testing.T) {
	e := newEngine(t)
	s := apply(t, e, freshState(), command.SetActivity{Params: state.Hunt("meadow"), AtMs: 1000})

	r := e.Step(s, 11000)
	gained := map[string]int{}
	for _, ev := range ofType(r.Events, event.LootGained) {
		for _, it := range ev.Payload.Items {
			gained[it.ItemID] += it.Qty
		}
	}
	for id, qty := range gained {
		assert.Equal(t, qty, r.State.ItemQty(id), id)
	}
	assert.Equal(t, map[string]int{"fang": 10}, gained)
	assert.Equal(t, []content.ItemQty{{ItemID: "fang", Qty: 1}}, ofType(r.Events, event.LootGained)[0].Payload.Items)
}
