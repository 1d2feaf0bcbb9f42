// Package state holds the serializable world snapshot advanced by the engine.
//
// An EngineState is plain data: no functions, no cycles, JSON-ready. The
// engine never mutates a state it was handed; it works on Clone().
package state

// Version is the schema version stamped on every new state.
const Version = 1

// Tactics is the player's combat stance.
type Tactics string

const (
	TacticsAggressive Tactics = "aggressive"
	TacticsBalanced   Tactics = "balanced"
	TacticsDefensive  Tactics = "defensive"
)

// Valid reports whether t is one of the known stances.
func (t Tactics) Valid() bool {
	switch t {
	case TacticsAggressive, TacticsBalanced, TacticsDefensive:
		return true
	}
	return false
}

// DefaultSkills are created at level 1 on every new save.
var DefaultSkills = []string{"melee", "defense", "gathering", "crafting", "exploration"}

// Stats are the player's base combat stats.
type Stats struct {
	Atk int `json:"atk"`
	Def int `json:"def"`
}

// SkillProgress is the level and cumulative xp of one skill.
type SkillProgress struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
}

// Player is the player character.
type Player struct {
	ID         string                   `json:"id"`
	Name       string                   `json:"name"`
	Level      int                      `json:"level"`
	XP         int                      `json:"xp"`
	Gold       int                      `json:"gold"`
	Tactics    Tactics                  `json:"tactics"`
	Stats      Stats                    `json:"stats"`
	Skills     map[string]SkillProgress `json:"skills"`
	Reputation map[string]int           `json:"reputation"`
	Flags      map[string]bool          `json:"flags"`
}

// ItemStack is one inventory row. Stacks are unique per ItemID and Qty > 0.
type ItemStack struct {
	ItemID string `json:"itemId"`
	Qty    int    `json:"qty"`
}

// QuestStatus is the lifecycle state of a quest instance.
type QuestStatus string

const (
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
	QuestAbandoned QuestStatus = "abandoned"
)

// Progress counts towards a quest objective.
type Progress struct {
	Current  int `json:"current"`
	Required int `json:"required"`
}

// QuestInstance is an accepted quest.
type QuestInstance struct {
	ID            string      `json:"id"`
	TemplateID    string      `json:"templateId"`
	Status        QuestStatus `json:"status"`
	Progress      Progress    `json:"progress"`
	LocationID    string      `json:"locationId"`
	NpcID         string      `json:"npcId,omitempty"`
	CreatedAtMs   int64       `json:"createdAtMs"`
	CompletedAtMs *int64      `json:"completedAtMs,omitempty"`
}

// Activity is the single running activity plan.
type Activity struct {
	ID          string         `json:"id"`
	Params      ActivityParams `json:"params"`
	StartedAtMs int64          `json:"startedAtMs"`
}

// Metrics is the baseline used to compute xp and gold rates.
type Metrics struct {
	StartTimeMs int64 `json:"startTimeMs"`
	StartXP     int   `json:"startXp"`
	StartGold   int   `json:"startGold"`
}

// EngineState is the authoritative snapshot of one save.
type EngineState struct {
	Version           int             `json:"version"`
	SaveID            string          `json:"saveId"`
	CreatedAtMs       int64           `json:"createdAtMs"`
	UpdatedAtMs       int64           `json:"updatedAtMs"`
	TickIndex         int64           `json:"tickIndex"`
	LastTickAtMs      int64           `json:"lastTickAtMs"`
	NextEventID       int64           `json:"nextEventId"`
	CurrentLocationID string          `json:"currentLocationId"`
	Player            Player          `json:"player"`
	Inventory         []ItemStack     `json:"inventory"`
	Equipment         Equipment       `json:"equipment"`
	Quests            []QuestInstance `json:"quests"`
	Activity          Activity        `json:"activity"`
	Metrics           Metrics         `json:"metrics"`
}

// NewStateParams are the inputs to NewState.
type NewStateParams struct {
	SaveID          string
	PlayerID        string
	PlayerName      string
	NowMs           int64
	StartLocationID string
}

// NewState builds the canonical fresh-save snapshot.
//
// Postcondition: level 1, zero xp and gold, DefaultSkills at level 1, empty
// inventory, equipment and quests, idle activity started at NowMs, metrics
// baselined to NowMs and LastTickAtMs == NowMs.
func NewState(p NewStateParams) *EngineState {
	skills := make(map[string]SkillProgress, len(DefaultSkills))
	for _, id := range DefaultSkills {
		skills[id] = SkillProgress{Level: 1}
	}
	return &EngineState{
		Version:           Version,
		SaveID:            p.SaveID,
		CreatedAtMs:       p.NowMs,
		UpdatedAtMs:       p.NowMs,
		LastTickAtMs:      p.NowMs,
		NextEventID:       1,
		CurrentLocationID: p.StartLocationID,
		Player: Player{
			ID:         p.PlayerID,
			Name:       p.PlayerName,
			Level:      1,
			Tactics:    TacticsBalanced,
			Stats:      Stats{Atk: 5, Def: 5},
			Skills:     skills,
			Reputation: make(map[string]int),
			Flags:      make(map[string]bool),
		},
		Inventory: []ItemStack{},
		Quests:    []QuestInstance{},
		Activity: Activity{
			ID:          "act_0",
			Params:      Idle(),
			StartedAtMs: p.NowMs,
		},
		Metrics: Metrics{StartTimeMs: p.NowMs},
	}
}

// Clone returns a deep copy of s. No map, slice or pointer is shared between
// the copy and s.
func (s *EngineState) Clone() *EngineState {
	c := *s

	c.Player.Skills = make(map[string]SkillProgress, len(s.Player.Skills))
	for k, v := range s.Player.Skills {
		c.Player.Skills[k] = v
	}
	c.Player.Reputation = make(map[string]int, len(s.Player.Reputation))
	for k, v := range s.Player.Reputation {
		c.Player.Reputation[k] = v
	}
	c.Player.Flags = make(map[string]bool, len(s.Player.Flags))
	for k, v := range s.Player.Flags {
		c.Player.Flags[k] = v
	}

	c.Inventory = make([]ItemStack, len(s.Inventory))
	copy(c.Inventory, s.Inventory)

	c.Quests = make([]QuestInstance, len(s.Quests))
	for i, q := range s.Quests {
		if q.CompletedAtMs != nil {
			at := *q.CompletedAtMs
			q.CompletedAtMs = &at
		}
		c.Quests[i] = q
	}
	return &c
}

// Quest returns a pointer to the quest instance with the given id, or nil.
// The pointer aliases s.Quests and is only valid until the slice is appended to.
func (s *EngineState) Quest(id string) *QuestInstance {
	for i := range s.Quests {
		if s.Quests[i].ID == id {
			return &s.Quests[i]
		}
	}
	return nil
}
