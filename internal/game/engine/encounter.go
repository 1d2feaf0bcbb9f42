package engine

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/idlerpg/internal/game/combat"
	"github.com/cory-johannsen/idlerpg/internal/game/content"
	"github.com/cory-johannsen/idlerpg/internal/game/event"
	"github.com/cory-johannsen/idlerpg/internal/game/loot"
	"github.com/cory-johannsen/idlerpg/internal/game/rng"
	"github.com/cory-johannsen/idlerpg/internal/game/state"
)

const winXP = 2

func (t *txn) huntKey(locationID string) string {
	return rng.Key(t.s.SaveID, "hunt", locationID, t.s.TickIndex)
}

// pickEnemy draws from the location's encounter table.
func (t *txn) pickEnemy(loc content.LocationDef) (string, bool) {
	if len(loc.Encounters) == 0 {
		t.abort(event.CodeEnemyMissing, "location %q has no encounters", loc.ID)
		return "", false
	}
	weights := make([]float64, len(loc.Encounters))
	for i, enc := range loc.Encounters {
		weights[i] = enc.Weight
	}
	i := rng.WeightedIndex(weights, rng.HashFloat(t.huntKey(loc.ID)+":pick"))
	return loc.Encounters[i].EnemyID, true
}

// encounter resolves one fight against enemyID. A loss applies the defeat
// penalty, forces recovery and skips the quest completion scan.
func (t *txn) encounter(locationID, enemyID string) {
	idx, ok := t.index()
	if !ok {
		return
	}
	def, ok := idx.Enemy(enemyID)
	if !ok {
		t.abort(event.CodeEnemyMissing, "enemy %q not found", enemyID)
		return
	}

	key := t.huntKey(locationID)
	p := &t.s.Player
	enemyLevel := combat.EnemyLevel(p.Level, rng.Offset(key+":lvl"))
	t.emit(event.EncounterStarted, event.Payload{LocationID: locationID, EnemyID: def.ID, EnemyLevel: enemyLevel})

	res := combat.Resolve(
		combat.Combatant{ID: p.ID, Level: p.Level, Atk: p.Stats.Atk, Def: p.Stats.Def},
		p.Tactics,
		combat.Combatant{ID: def.ID, Level: enemyLevel, Atk: def.Atk, Def: def.Def},
		combat.Jitter{
			Player: rng.HashFloat(key+":pjit") * combat.MaxJitter,
			Enemy:  rng.HashFloat(key+":ejit") * combat.MaxJitter,
		},
	)
	outcome := event.Outcome(res.Outcome.String())
	t.emit(event.EncounterResolved, event.Payload{
		LocationID:  locationID,
		EnemyID:     def.ID,
		EnemyLevel:  enemyLevel,
		Outcome:     outcome,
		PlayerPower: res.PlayerPower,
		EnemyPower:  res.EnemyPower,
	})
	t.e.logger.Debug("encounter resolved",
		zap.String("save_id", t.s.SaveID),
		zap.Int64("tick_index", t.s.TickIndex),
		zap.String("enemy", def.ID),
		zap.String("outcome", string(outcome)),
	)

	if res.Outcome == combat.Loss {
		if penalty := combat.DefeatPenalty(p.Level, p.XP); penalty > 0 {
			t.grantXP(-penalty, "defeat", "")
		}
		t.switchActivity(state.Recovery(state.RecoveryDurationMs))
		return
	}

	drop := loot.RollEnemy(def, key+":"+def.ID)
	if len(drop.Items) > 0 {
		for _, it := range drop.Items {
			t.s.AddItem(it.ItemID, it.Qty)
		}
		t.emit(event.LootGained, event.Payload{LocationID: locationID, EnemyID: def.ID, Items: drop.Items})
	}
	t.changeGold(drop.Gold, "loot")
	t.bumpQuests(content.ObjectiveKill, def.ID, 1)
	t.grantXP(winXP, "combat", "")
	t.completeQuests()
}
