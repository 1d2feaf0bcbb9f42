package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/idlerpg/internal/game/command"
	"github.com/cory-johannsen/idlerpg/internal/game/event"
	"github.com/cory-johannsen/idlerpg/internal/game/rng"
	"github.com/cory-johannsen/idlerpg/internal/game/state"
)

// ApplyCommand applies one player command at cmd.At(). Time does not advance.
//
// Postcondition: s is untouched; the returned state has UpdatedAtMs ==
// cmd.At(). Rejected commands leave the state otherwise unchanged and emit
// a single ERROR event.
func (e *Engine) ApplyCommand(s *state.EngineState, cmd command.Command) Result {
	next := s.Clone()
	log := event.NewLog(next)

	var at int64
	if cmd != nil {
		at = cmd.At()
	}
	next.UpdatedAtMs = at
	t := &txn{e: e, s: next, log: log, at: at}

	switch c := cmd.(type) {
	case command.SetActivity:
		t.setActivity(c.Params)
	case command.AcceptQuest:
		t.acceptQuest(c)
	case command.AbandonQuest:
		t.abandonQuest(c.QuestID)
	case command.EquipItem:
		t.equip(c.ItemID, c.Slot)
	case command.UnequipItem:
		t.unequip(c.Slot)
	case command.UseItem:
		t.useItem(c.ItemID)
	case command.SetTactics:
		t.setTactics(c.Tactics)
	case command.ResetMetrics:
		next.Metrics = state.Metrics{StartTimeMs: at, StartXP: next.Player.XP, StartGold: next.Player.Gold}
		t.emit(event.MetricsReset, event.Payload{})
	default:
		t.fail(event.CodeUnknownCommand, "unsupported command %T", cmd)
	}

	events := log.Events()
	e.logger.Debug("command applied",
		zap.String("save_id", next.SaveID),
		zap.String("command", fmt.Sprintf("%T", cmd)),
		zap.Int("events", len(events)),
	)
	return Result{State: next, Events: events}
}

// setActivity replaces the running activity wholesale. A location carried by
// the new params also moves the player.
func (t *txn) setActivity(p state.ActivityParams) {
	if err := p.Validate(); err != nil {
		t.fail(event.CodeInvalidActivity, "%v", err)
		return
	}
	t.s.Activity = state.Activity{
		ID:          fmt.Sprintf("act_%d", t.s.NextEventID),
		Params:      p,
		StartedAtMs: t.at,
	}
	if p.LocationID != "" {
		t.s.CurrentLocationID = p.LocationID
	}
	a := t.s.Activity
	t.emit(event.ActivitySet, event.Payload{Activity: &a})
}

// acceptQuest rolls the required count and location deterministically from
// the save, template and tick index.
func (t *txn) acceptQuest(c command.AcceptQuest) {
	if t.e.content == nil {
		t.fail(event.CodeContentMissing, "accepting %q requires content", c.TemplateID)
		return
	}
	tpl, ok := t.e.content.QuestTemplate(c.TemplateID)
	if !ok {
		t.fail(event.CodeQuestTemplateMissing, "quest template %q not found", c.TemplateID)
		return
	}

	key := rng.Key(t.s.SaveID, "quest", tpl.ID, t.s.TickIndex)
	required, err := rng.HashInt(key+":qty", tpl.QtyMin, tpl.QtyMax)
	if err != nil || required < 1 {
		required = 1
	}
	locationID := t.s.CurrentLocationID
	if picked, err := rng.Pick(rng.NewStream(key+":loc"), tpl.LocationPool); err == nil {
		locationID = picked
	}

	q := state.QuestInstance{
		ID:          fmt.Sprintf("quest_%d", t.s.NextEventID),
		TemplateID:  tpl.ID,
		Status:      state.QuestActive,
		Progress:    state.Progress{Required: required},
		LocationID:  locationID,
		NpcID:       c.NpcID,
		CreatedAtMs: t.at,
	}
	t.s.Quests = append(t.s.Quests, q)
	progress := q.Progress
	t.emit(event.QuestAccepted, event.Payload{
		QuestID:    q.ID,
		TemplateID: q.TemplateID,
		LocationID: q.LocationID,
		Progress:   &progress,
	})
}

// abandonQuest is a no-op unless questID names an active quest. Working on
// the abandoned quest stops.
func (t *txn) abandonQuest(questID string) {
	q := t.s.Quest(questID)
	if q == nil || q.Status != state.QuestActive {
		return
	}
	q.Status = state.QuestAbandoned
	t.emit(event.QuestAbandoned, event.Payload{QuestID: q.ID, TemplateID: q.TemplateID})

	if a := t.s.Activity.Params; a.Type == state.ActivityQuest && a.QuestID == questID {
		t.setActivity(state.Idle())
	}
}

// equip records itemID in slot. The item stays in the inventory and stats
// are not recomputed.
func (t *txn) equip(itemID string, slot state.Slot) {
	if _, err := state.ParseSlot(string(slot)); err != nil {
		t.fail(event.CodeInvalidSlot, "%v", err)
		return
	}
	if t.s.ItemQty(itemID) < 1 {
		t.fail(event.CodeItemNotOwned, "item %q not owned", itemID)
		return
	}
	t.s.Equipment.Set(slot, itemID)
	t.emit(event.ItemEquipped, event.Payload{ItemID: itemID, Slot: slot})
}

func (t *txn) unequip(slot state.Slot) {
	if _, err := state.ParseSlot(string(slot)); err != nil {
		t.fail(event.CodeInvalidSlot, "%v", err)
		return
	}
	prev := t.s.Equipment.Get(slot)
	t.s.Equipment.Set(slot, "")
	t.emit(event.ItemUnequipped, event.Payload{ItemID: prev, Slot: slot})
}

// useItem consumes one unit. Item effects are not applied here.
func (t *txn) useItem(itemID string) {
	if !t.s.RemoveItem(itemID, 1) {
		t.fail(event.CodeItemNotOwned, "item %q not owned", itemID)
		return
	}
	t.emit(event.ItemConsumed, event.Payload{ItemID: itemID, Amount: 1})
}

func (t *txn) setTactics(tactics state.Tactics) {
	if !tactics.Valid() {
		t.fail(event.CodeInvalidTactics, "unknown tactics %q", tactics)
		return
	}
	t.s.Player.Tactics = tactics
	t.emit(event.TacticsSet, event.Payload{Tactics: tactics})
}
