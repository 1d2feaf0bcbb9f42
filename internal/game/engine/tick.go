package engine

import (
	"github.com/cory-johannsen/idlerpg/internal/game/content"
	"github.com/cory-johannsen/idlerpg/internal/game/event"
	"github.com/cory-johannsen/idlerpg/internal/game/loot"
	"github.com/cory-johannsen/idlerpg/internal/game/rng"
	"github.com/cory-johannsen/idlerpg/internal/game/state"
)

const (
	gatherXP     = 1
	craftXP      = 2
	trainXP      = 1
	trainCost    = 1
	craftSkillXP = 1
)

// runOneTick advances s by exactly one tick ending at tickAtMs and resolves
// the running activity.
func (e *Engine) runOneTick(s *state.EngineState, log *event.Log, tickAtMs int64) {
	s.TickIndex++
	s.LastTickAtMs = tickAtMs
	s.UpdatedAtMs = tickAtMs

	t := &txn{e: e, s: s, log: log, at: tickAtMs}
	p := s.Activity.Params
	switch p.Type {
	case state.ActivityIdle:
	case state.ActivityRecovery:
		t.tickRecovery()
	case state.ActivityTrain:
		t.tickTrain(p.SkillID)
	case state.ActivityGather, state.ActivityExplore, state.ActivityTrade:
		if loc, ok := t.location(p.LocationID); ok {
			t.tickGather(loc, string(p.Type))
		}
	case state.ActivityCraft:
		t.tickCraft(p.RecipeID)
	case state.ActivityHunt:
		if loc, ok := t.location(p.LocationID); ok {
			if enemyID, ok := t.pickEnemy(loc); ok {
				t.encounter(loc.ID, enemyID)
			}
		}
	case state.ActivityQuest:
		t.tickQuest(p.QuestID)
	default:
		t.abort(event.CodeInvalidActivity, "unknown activity type %q", p.Type)
	}
}

// index returns the content index, aborting the activity if none was given.
func (t *txn) index() (*content.Index, bool) {
	if t.e.content == nil {
		t.abort(event.CodeContentMissing, "activity %q requires content", t.s.Activity.Params.Type)
		return nil, false
	}
	return t.e.content, true
}

func (t *txn) location(id string) (content.LocationDef, bool) {
	idx, ok := t.index()
	if !ok {
		return content.LocationDef{}, false
	}
	loc, ok := idx.Location(id)
	if !ok {
		t.abort(event.CodeLocationMissing, "location %q not found", id)
		return content.LocationDef{}, false
	}
	return loc, true
}

func (t *txn) tickRecovery() {
	a := t.s.Activity
	if t.at >= a.StartedAtMs+a.Params.DurationMs {
		t.switchActivity(state.Idle())
	}
}

func (t *txn) tickTrain(skillID string) {
	if t.s.Player.Gold < trainCost {
		t.abort(event.CodeInsufficientGold, "training %q needs %d gold", skillID, trainCost)
		return
	}
	t.changeGold(-trainCost, "train")
	t.grantSkillXP(skillID, trainXP)
	t.grantXP(trainXP, "train", skillID)
}

// tickGather draws once from the location's resource table. An empty table
// yields no loot but still grants xp.
func (t *txn) tickGather(loc content.LocationDef, purpose string) {
	key := rng.Key(t.s.SaveID, purpose, loc.ID, t.s.TickIndex)
	if it, ok := loot.Roll(loc.Resources, key); ok {
		t.s.AddItem(it.ItemID, it.Qty)
		t.emit(event.LootGained, event.Payload{LocationID: loc.ID, Items: []content.ItemQty{it}})
		t.bumpQuests(content.ObjectiveGather, it.ItemID, it.Qty)
	}
	t.grantXP(gatherXP, purpose, "")
	t.completeQuests()
}

// tickCraft makes one attempt. Missing inputs are a silent wait.
func (t *txn) tickCraft(recipeID string) {
	idx, ok := t.index()
	if !ok {
		return
	}
	r, ok := idx.Recipe(recipeID)
	if !ok {
		t.abort(event.CodeRecipeMissing, "recipe %q not found", recipeID)
		return
	}
	for _, in := range r.Inputs {
		if t.s.ItemQty(in.ItemID) < in.Qty {
			return
		}
	}
	for _, in := range r.Inputs {
		t.s.RemoveItem(in.ItemID, in.Qty)
	}
	for _, out := range r.Outputs {
		t.s.AddItem(out.ItemID, out.Qty)
	}
	outputs := append([]content.ItemQty(nil), r.Outputs...)
	t.emit(event.LootGained, event.Payload{Items: outputs, Reason: "craft:" + r.ID})
	t.bumpQuests(content.ObjectiveCraft, r.ID, 1)
	t.grantSkillXP(r.SkillID, craftSkillXP)
	t.grantXP(craftXP, "craft", r.SkillID)
	t.completeQuests()
}

// tickQuest works the quest named by the activity. Kill objectives fight the
// target enemy at the quest location; gather objectives roll the quest
// location's resources. Other objectives do nothing yet.
func (t *txn) tickQuest(questID string) {
	idx, ok := t.index()
	if !ok {
		return
	}
	q := t.s.Quest(questID)
	if q == nil || q.Status != state.QuestActive {
		t.abort(event.CodeQuestMissing, "no active quest %q", questID)
		return
	}
	tpl, ok := idx.QuestTemplate(q.TemplateID)
	if !ok {
		t.abort(event.CodeQuestTemplateMissing, "quest template %q not found", q.TemplateID)
		return
	}

	switch tpl.ObjectiveType {
	case content.ObjectiveKill:
		t.encounter(q.LocationID, tpl.TargetID)
	case content.ObjectiveGather:
		if loc, ok := t.location(q.LocationID); ok {
			t.tickGather(loc, "quest")
		}
	}
}
