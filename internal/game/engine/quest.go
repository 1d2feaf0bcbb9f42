package engine

import (
	"github.com/cory-johannsen/idlerpg/internal/game/content"
	"github.com/cory-johannsen/idlerpg/internal/game/event"
	"github.com/cory-johannsen/idlerpg/internal/game/state"
)

// bumpQuests advances every active quest whose template targets targetID
// with the given objective, clamped to the required count.
func (t *txn) bumpQuests(objective content.ObjectiveType, targetID string, amount int) {
	if t.e.content == nil || amount <= 0 {
		return
	}
	for i := range t.s.Quests {
		q := &t.s.Quests[i]
		if q.Status != state.QuestActive {
			continue
		}
		tpl, ok := t.e.content.QuestTemplate(q.TemplateID)
		if !ok || tpl.ObjectiveType != objective || tpl.TargetID != targetID {
			continue
		}
		q.Progress.Current += amount
		if q.Progress.Current > q.Progress.Required {
			q.Progress.Current = q.Progress.Required
		}
		progress := q.Progress
		t.emit(event.QuestProgress, event.Payload{QuestID: q.ID, TemplateID: q.TemplateID, Progress: &progress})
	}
}

// completeQuests finalizes every active quest that reached its target and
// pays out its rewards. If the running activity was a completed quest the
// player goes idle.
func (t *txn) completeQuests() {
	for i := range t.s.Quests {
		q := &t.s.Quests[i]
		if q.Status != state.QuestActive || q.Progress.Current < q.Progress.Required {
			continue
		}
		at := t.at
		q.Status = state.QuestCompleted
		q.CompletedAtMs = &at
		questID, templateID := q.ID, q.TemplateID

		var rewards content.RewardPack
		if t.e.content != nil {
			if tpl, ok := t.e.content.QuestTemplate(templateID); ok {
				rewards = copyRewards(tpl.Rewards)
			}
		}
		t.emit(event.QuestCompleted, event.Payload{QuestID: questID, TemplateID: templateID, Rewards: &rewards})
		t.applyRewards(rewards)

		if a := t.s.Activity.Params; a.Type == state.ActivityQuest && a.QuestID == questID {
			t.switchActivity(state.Idle())
		}
	}
}

func (t *txn) applyRewards(r content.RewardPack) {
	for _, it := range r.Items {
		t.s.AddItem(it.ItemID, it.Qty)
	}
	t.grantXP(r.XP, "quest", "")
	t.changeGold(r.Gold, "quest")
	for faction, delta := range r.Reputation {
		t.s.Player.Reputation[faction] += delta
	}
}

func copyRewards(r content.RewardPack) content.RewardPack {
	c := r
	c.Items = append([]content.ItemQty(nil), r.Items...)
	if r.Reputation != nil {
		c.Reputation = make(map[string]int, len(r.Reputation))
		for k, v := range r.Reputation {
			c.Reputation[k] = v
		}
	}
	return c
}
