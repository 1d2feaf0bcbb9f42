package content

import (
	"fmt"
	"sort"
	"strings"
)

var validObjectives = map[ObjectiveType]bool{
	ObjectiveKill:    true,
	ObjectiveGather:  true,
	ObjectiveCraft:   true,
	ObjectiveExplore: true,
	ObjectiveDeliver: true,
}

// Validate checks the cross-reference integrity of the index.
//
// Postcondition: Returns nil if every reference resolves and every table row
// is well-formed, or one error describing all violations in a stable order.
func (idx *Index) Validate() error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	for id, e := range idx.EnemiesByID {
		if e.ID != id {
			add("enemy %q: id mismatch %q", id, e.ID)
		}
		idx.validateLoot(fmt.Sprintf("enemy %q loot", id), e.Loot, add)
		if e.Gold != nil && (e.Gold.Min < 0 || e.Gold.Min > e.Gold.Max) {
			add("enemy %q: gold range [%d,%d] is invalid", id, e.Gold.Min, e.Gold.Max)
		}
	}

	for id, loc := range idx.LocationsByID {
		if loc.ID != id {
			add("location %q: id mismatch %q", id, loc.ID)
		}
		for i, enc := range loc.Encounters {
			if _, ok := idx.EnemiesByID[enc.EnemyID]; !ok {
				add("location %q encounter[%d]: unknown enemy %q", id, i, enc.EnemyID)
			}
			if enc.Weight <= 0 {
				add("location %q encounter[%d]: weight must be > 0", id, i)
			}
		}
		idx.validateLoot(fmt.Sprintf("location %q resources", id), loc.Resources, add)
	}

	for id, r := range idx.RecipesByID {
		if r.ID != id {
			add("recipe %q: id mismatch %q", id, r.ID)
		}
		if len(r.Outputs) == 0 {
			add("recipe %q: must have at least one output", id)
		}
		idx.validateItemQtys(fmt.Sprintf("recipe %q inputs", id), r.Inputs, add)
		idx.validateItemQtys(fmt.Sprintf("recipe %q outputs", id), r.Outputs, add)
	}

	for id, q := range idx.QuestTemplatesByID {
		if q.ID != id {
			add("quest %q: id mismatch %q", id, q.ID)
		}
		if !validObjectives[q.ObjectiveType] {
			add("quest %q: unknown objective %q", id, q.ObjectiveType)
		}
		if q.QtyMin < 1 || q.QtyMin > q.QtyMax {
			add("quest %q: quantity range [%d,%d] is invalid", id, q.QtyMin, q.QtyMax)
		}
		switch q.ObjectiveType {
		case ObjectiveKill:
			if _, ok := idx.EnemiesByID[q.TargetID]; !ok {
				add("quest %q: unknown kill target %q", id, q.TargetID)
			}
		case ObjectiveGather:
			if _, ok := idx.ItemsByID[q.TargetID]; !ok {
				add("quest %q: unknown gather target %q", id, q.TargetID)
			}
		case ObjectiveCraft:
			if _, ok := idx.RecipesByID[q.TargetID]; !ok {
				add("quest %q: unknown craft target %q", id, q.TargetID)
			}
		}
		for _, locID := range q.LocationPool {
			if _, ok := idx.LocationsByID[locID]; !ok {
				add("quest %q: unknown location %q", id, locID)
			}
		}
		idx.validateItemQtys(fmt.Sprintf("quest %q rewards", id), q.Rewards.Items, add)
		if q.Rewards.XP < 0 || q.Rewards.Gold < 0 {
			add("quest %q: rewards must not be negative", id)
		}
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("content validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (idx *Index) validateLoot(where string, table []LootEntry, add func(string, ...any)) {
	for i, e := range table {
		if _, ok := idx.ItemsByID[e.ItemID]; !ok {
			add("%s[%d]: unknown item %q", where, i, e.ItemID)
		}
		if e.Weight <= 0 {
			add("%s[%d]: weight must be > 0", where, i)
		}
		if e.MinQty < 1 || e.MinQty > e.MaxQty {
			add("%s[%d]: quantity range [%d,%d] is invalid", where, i, e.MinQty, e.MaxQty)
		}
	}
}

func (idx *Index) validateItemQtys(where string, items []ItemQty, add func(string, ...any)) {
	for i, it := range items {
		if _, ok := idx.ItemsByID[it.ItemID]; !ok {
			add("%s[%d]: unknown item %q", where, i, it.ItemID)
		}
		if it.Qty < 1 {
			add("%s[%d]: qty must be >= 1", where, i)
		}
	}
}
