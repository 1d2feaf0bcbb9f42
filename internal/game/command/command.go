package command

import "github.com/cory-johannsen/idlerpg/internal/game/state"

// Command is a single player intent applied by the engine. The set of
// implementations is closed; the engine matches on the concrete type.
type Command interface {
	// At returns the command timestamp in milliseconds.
	At() int64
	sealed()
}

// SetActivity replaces the running activity.
type SetActivity struct {
	Params state.ActivityParams
	AtMs   int64
}

// AcceptQuest starts a new quest instance from a template.
type AcceptQuest struct {
	TemplateID string
	NpcID      string
	AtMs       int64
}

// AbandonQuest marks an active quest abandoned.
type AbandonQuest struct {
	QuestID string
	AtMs    int64
}

// EquipItem puts an owned item into a slot.
type EquipItem struct {
	ItemID string
	Slot   state.Slot
	AtMs   int64
}

// UnequipItem clears a slot.
type UnequipItem struct {
	Slot state.Slot
	AtMs int64
}

// UseItem consumes one unit of an owned item.
type UseItem struct {
	ItemID string
	AtMs   int64
}

// SetTactics changes the player's combat stance.
type SetTactics struct {
	Tactics state.Tactics
	AtMs    int64
}

// ResetMetrics rebases the rate metrics to now.
type ResetMetrics struct {
	AtMs int64
}

func (c SetActivity) At() int64  { return c.AtMs }
func (c AcceptQuest) At() int64  { return c.AtMs }
func (c AbandonQuest) At() int64 { return c.AtMs }
func (c EquipItem) At() int64    { return c.AtMs }
func (c UnequipItem) At() int64  { return c.AtMs }
func (c UseItem) At() int64      { return c.AtMs }
func (c SetTactics) At() int64   { return c.AtMs }
func (c ResetMetrics) At() int64 { return c.AtMs }

func (SetActivity) sealed()  {}
func (AcceptQuest) sealed()  {}
func (AbandonQuest) sealed() {}
func (EquipItem) sealed()    {}
func (UnequipItem) sealed()  {}
func (UseItem) sealed()      {}
func (SetTactics) sealed()   {}
func (ResetMetrics) sealed() {}
