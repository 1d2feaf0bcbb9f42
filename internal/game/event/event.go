// Package event defines the append-only event records emitted by the engine.
package event

import (
	"github.com/cory-johannsen/idlerpg/internal/game/content"
	"github.com/cory-johannsen/idlerpg/internal/game/state"
)

// Type is the closed set of event kinds.
type Type string

const (
	TickProcessed     Type = "TICK_PROCESSED"
	ActivitySet       Type = "ACTIVITY_SET"
	QuestAccepted     Type = "QUEST_ACCEPTED"
	QuestProgress     Type = "QUEST_PROGRESS"
	QuestCompleted    Type = "QUEST_COMPLETED"
	QuestAbandoned    Type = "QUEST_ABANDONED"
	EncounterStarted  Type = "ENCOUNTER_STARTED"
	EncounterResolved Type = "ENCOUNTER_RESOLVED"
	LootGained        Type = "LOOT_GAINED"
	XPGained          Type = "XP_GAINED"
	GoldChanged       Type = "GOLD_CHANGED"
	LevelUp           Type = "LEVEL_UP"
	ItemConsumed      Type = "ITEM_CONSUMED"
	ItemEquipped      Type = "ITEM_EQUIPPED"
	ItemUnequipped    Type = "ITEM_UNEQUIPPED"
	MetricsReset      Type = "METRICS_RESET"
	TacticsSet        Type = "TACTICS_SET"
	Error             Type = "ERROR"
)

// Code classifies an ERROR event.
type Code string

const (
	CodeContentMissing       Code = "CONTENT_MISSING"
	CodeLocationMissing      Code = "LOCATION_MISSING"
	CodeEnemyMissing         Code = "ENEMY_MISSING"
	CodeRecipeMissing        Code = "RECIPE_MISSING"
	CodeQuestTemplateMissing Code = "QUEST_TEMPLATE_MISSING"
	CodeQuestMissing         Code = "QUEST_MISSING"
	CodeItemNotOwned         Code = "ITEM_NOT_OWNED"
	CodeInsufficientGold     Code = "INSUFFICIENT_GOLD"
	CodeInvalidActivity      Code = "INVALID_ACTIVITY"
	CodeInvalidSlot          Code = "INVALID_SLOT"
	CodeInvalidTactics       Code = "INVALID_TACTICS"
	CodeUnknownCommand       Code = "UNKNOWN_COMMAND"
)

// Outcome of an encounter.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// LevelKind distinguishes player and skill LEVEL_UP events.
type LevelKind string

const (
	LevelPlayer LevelKind = "player"
	LevelSkill  LevelKind = "skill"
)

// Payload carries the event-specific fields. Only the fields relevant to the
// event Type are set.
type Payload struct {
	Ticks       int64               `json:"ticks,omitempty"`
	Activity    *state.Activity     `json:"activity,omitempty"`
	QuestID     string              `json:"questId,omitempty"`
	TemplateID  string              `json:"templateId,omitempty"`
	Progress    *state.Progress     `json:"progress,omitempty"`
	EnemyID     string              `json:"enemyId,omitempty"`
	EnemyLevel  int                 `json:"enemyLevel,omitempty"`
	LocationID  string              `json:"locationId,omitempty"`
	Outcome     Outcome             `json:"outcome,omitempty"`
	PlayerPower float64             `json:"playerPower,omitempty"`
	EnemyPower  float64             `json:"enemyPower,omitempty"`
	Items       []content.ItemQty   `json:"items,omitempty"`
	ItemID      string              `json:"itemId,omitempty"`
	Slot        state.Slot          `json:"slot,omitempty"`
	Amount      int                 `json:"amount,omitempty"`
	SkillID     string              `json:"skillId,omitempty"`
	Kind        LevelKind           `json:"kind,omitempty"`
	Tactics     state.Tactics       `json:"tactics,omitempty"`
	Level       int                 `json:"level,omitempty"`
	Reason      string              `json:"reason,omitempty"`
	Code        Code                `json:"code,omitempty"`
	Message     string              `json:"message,omitempty"`
	Rewards     *content.RewardPack `json:"rewards,omitempty"`
}

// GameEvent is an immutable record of something that happened.
type GameEvent struct {
	ID      int64   `json:"id"`
	AtMs    int64   `json:"atMs"`
	Type    Type    `json:"type"`
	Payload Payload `json:"payload"`
}

// Log appends events to a transition's output, stamping ids from the state's
// NextEventID counter.
type Log struct {
	s      *state.EngineState
	events []GameEvent
}

// NewLog binds a log to the state being transformed.
//
// Precondition: s must be the transition's private copy.
func NewLog(s *state.EngineState) *Log {
	return &Log{s: s}
}

// Emit appends an event and consumes one event id.
//
// Postcondition: s.NextEventID is incremented by one.
func (l *Log) Emit(atMs int64, typ Type, p Payload) {
	l.events = append(l.events, GameEvent{
		ID:      l.s.NextEventID,
		AtMs:    atMs,
		Type:    typ,
		Payload: p,
	})
	l.s.NextEventID++
}

// Fail appends an ERROR event.
func (l *Log) Fail(atMs int64, code Code, message string) {
	l.Emit(atMs, Error, Payload{Code: code, Message: message})
}

// Events returns the collected events. A log with no events returns an empty,
// non-nil slice.
func (l *Log) Events() []GameEvent {
	if l.events == nil {
		return []GameEvent{}
	}
	return l.events
}
