// Package loot rolls deterministic drops from content loot tables.
package loot

import (
	"github.com/cory-johannsen/idlerpg/internal/game/content"
	"github.com/cory-johannsen/idlerpg/internal/game/rng"
)

// Drop holds everything granted by one enemy defeat.
type Drop struct {
	Items []content.ItemQty
	Gold  int
}

// Roll draws one entry from table and a quantity for it.
// The entry is chosen with HashFloat(key+":pick"), the quantity with
// HashInt(key+":qty", MinQty, MaxQty).
//
// Precondition: table entries have passed content validation.
// Postcondition: Returns false iff table is empty; otherwise Qty is in
// [MinQty, MaxQty] of the chosen entry.
func Roll(table []content.LootEntry, key string) (content.ItemQty, bool) {
	if len(table) == 0 {
		return content.ItemQty{}, false
	}
	weights := make([]float64, len(table))
	for i, e := range table {
		weights[i] = e.Weight
	}
	entry := table[rng.WeightedIndex(weights, rng.HashFloat(key+":pick"))]

	qty, err := rng.HashInt(key+":qty", entry.MinQty, entry.MaxQty)
	if err != nil {
		qty = entry.MinQty
	}
	if qty < 1 {
		return content.ItemQty{}, false
	}
	return content.ItemQty{ItemID: entry.ItemID, Qty: qty}, true
}

// RollGold draws a gold amount from gr using HashInt(key+":gold", ...).
//
// Postcondition: Returns 0 when gr is nil; otherwise a value in [Min, Max].
func RollGold(gr *content.GoldRange, key string) int {
	if gr == nil || gr.Max <= 0 {
		return 0
	}
	gold, err := rng.HashInt(key+":gold", gr.Min, gr.Max)
	if err != nil {
		return 0
	}
	return gold
}

// RollEnemy rolls an enemy's item drop and gold for one defeat.
//
// Postcondition: Items holds at most one stack.
func RollEnemy(e content.EnemyDef, key string) Drop {
	var d Drop
	if it, ok := Roll(e.Loot, key); ok {
		d.Items = append(d.Items, it)
	}
	d.Gold = RollGold(e.Gold, key)
	return d
}
