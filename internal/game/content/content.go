// Package content defines the read-only content index consumed by the engine:
// items, enemies, locations, recipes and quest templates keyed by ID.
//
// The engine never loads content itself; an Index is built by LoadDir (or by
// hand in tests) and injected.
package content

import "sort"

// ObjectiveType names what a quest template asks the player to do.
type ObjectiveType string

const (
	ObjectiveKill    ObjectiveType = "kill"
	ObjectiveGather  ObjectiveType = "gather"
	ObjectiveCraft   ObjectiveType = "craft"
	ObjectiveExplore ObjectiveType = "explore"
	ObjectiveDeliver ObjectiveType = "deliver"
)

// ItemDef describes an item.
type ItemDef struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Kind  string `yaml:"kind" json:"kind"`
	Slot  string `yaml:"slot,omitempty" json:"slot,omitempty"`
	Value int    `yaml:"value,omitempty" json:"value,omitempty"`
}

// LootEntry is one weighted row of a loot or resource table.
type LootEntry struct {
	ItemID string  `yaml:"item" json:"item"`
	Weight float64 `yaml:"weight" json:"weight"`
	MinQty int     `yaml:"min_qty" json:"min_qty"`
	MaxQty int     `yaml:"max_qty" json:"max_qty"`
}

// GoldRange is the range of gold an enemy drops on defeat.
type GoldRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// EnemyDef describes an enemy and its loot.
type EnemyDef struct {
	ID    string      `yaml:"id" json:"id"`
	Name  string      `yaml:"name" json:"name"`
	Level int         `yaml:"level,omitempty" json:"level,omitempty"`
	Atk   int         `yaml:"atk" json:"atk"`
	Def   int         `yaml:"def" json:"def"`
	Loot  []LootEntry `yaml:"loot,omitempty" json:"loot,omitempty"`
	Gold  *GoldRange  `yaml:"gold,omitempty" json:"gold,omitempty"`
}

// EncounterEntry is one weighted row of a location's encounter table.
type EncounterEntry struct {
	EnemyID string  `yaml:"enemy" json:"enemy"`
	Weight  float64 `yaml:"weight" json:"weight"`
}

// Requirements gate access to a location. They are informational content:
// the engine does not enforce them.
type Requirements struct {
	MinLevel int `yaml:"min_level,omitempty" json:"min_level,omitempty"`
}

// LocationDef describes a location.
type LocationDef struct {
	ID           string           `yaml:"id" json:"id"`
	Name         string           `yaml:"name" json:"name"`
	Encounters   []EncounterEntry `yaml:"encounters,omitempty" json:"encounters,omitempty"`
	Resources    []LootEntry      `yaml:"resources,omitempty" json:"resources,omitempty"`
	Activities   []string         `yaml:"activities,omitempty" json:"activities,omitempty"`
	Requirements Requirements     `yaml:"requirements,omitempty" json:"requirements,omitempty"`
}

// ItemQty is an item id with a quantity.
type ItemQty struct {
	ItemID string `yaml:"item" json:"item"`
	Qty    int    `yaml:"qty" json:"qty"`
}

// RewardPack is granted when a quest completes.
type RewardPack struct {
	XP         int            `yaml:"xp,omitempty" json:"xp,omitempty"`
	Gold       int            `yaml:"gold,omitempty" json:"gold,omitempty"`
	Items      []ItemQty      `yaml:"items,omitempty" json:"items,omitempty"`
	Reputation map[string]int `yaml:"reputation,omitempty" json:"reputation,omitempty"`
}

// QuestTemplateDef describes a quest that can be accepted.
type QuestTemplateDef struct {
	ID            string        `yaml:"id" json:"id"`
	Name          string        `yaml:"name" json:"name"`
	ObjectiveType ObjectiveType `yaml:"objective" json:"objective"`
	TargetID      string        `yaml:"target" json:"target"`
	QtyMin        int           `yaml:"qty_min" json:"qty_min"`
	QtyMax        int           `yaml:"qty_max" json:"qty_max"`
	Rewards       RewardPack    `yaml:"rewards" json:"rewards"`
	LocationPool  []string      `yaml:"locations,omitempty" json:"locations,omitempty"`
}

// RecipeDef describes a crafting recipe.
type RecipeDef struct {
	ID         string    `yaml:"id" json:"id"`
	Name       string    `yaml:"name" json:"name"`
	Inputs     []ItemQty `yaml:"inputs" json:"inputs"`
	Outputs    []ItemQty `yaml:"outputs" json:"outputs"`
	SkillID    string    `yaml:"skill,omitempty" json:"skill,omitempty"`
	SkillLevel int       `yaml:"skill_level,omitempty" json:"skill_level,omitempty"`
}

// Index is the read-only lookup of all authored content.
type Index struct {
	ItemsByID          map[string]ItemDef          `json:"items"`
	EnemiesByID        map[string]EnemyDef         `json:"enemies"`
	LocationsByID      map[string]LocationDef      `json:"locations"`
	RecipesByID        map[string]RecipeDef        `json:"recipes"`
	QuestTemplatesByID map[string]QuestTemplateDef `json:"quests"`
}

// NewIndex returns an empty Index with all maps allocated.
func NewIndex() *Index {
	return &Index{
		ItemsByID:          make(map[string]ItemDef),
		EnemiesByID:        make(map[string]EnemyDef),
		LocationsByID:      make(map[string]LocationDef),
		RecipesByID:        make(map[string]RecipeDef),
		QuestTemplatesByID: make(map[string]QuestTemplateDef),
	}
}

// Item looks up an item definition.
func (idx *Index) Item(id string) (ItemDef, bool) {
	d, ok := idx.ItemsByID[id]
	return d, ok
}

// Enemy looks up an enemy definition.
func (idx *Index) Enemy(id string) (EnemyDef, bool) {
	d, ok := idx.EnemiesByID[id]
	return d, ok
}

// Location looks up a location definition.
func (idx *Index) Location(id string) (LocationDef, bool) {
	d, ok := idx.LocationsByID[id]
	return d, ok
}

// Recipe looks up a recipe definition.
func (idx *Index) Recipe(id string) (RecipeDef, bool) {
	d, ok := idx.RecipesByID[id]
	return d, ok
}

// QuestTemplate looks up a quest template definition.
func (idx *Index) QuestTemplate(id string) (QuestTemplateDef, bool) {
	d, ok := idx.QuestTemplatesByID[id]
	return d, ok
}

// LocationIDs returns every location id in sorted order.
func (idx *Index) LocationIDs() []string {
	ids := make([]string, 0, len(idx.LocationsByID))
	for id := range idx.LocationsByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
