// Package command provides the closed command vocabulary applied by the
// engine, plus the text verb registry and parser used by the CLIs.
package command

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/idlerpg/internal/game/state"
)

// Categories for organizing verbs.
const (
	CategoryActivity = "activity"
	CategoryQuest    = "quest"
	CategoryItem     = "item"
	CategorySystem   = "system"
)

// ErrUnknownCommand is returned when a line names no registered verb.
var ErrUnknownCommand = errors.New("unknown command")

// BuildFunc turns parsed arguments into a Command stamped atMs.
type BuildFunc func(args []string, atMs int64) (Command, error)

// Verb defines a text verb.
type Verb struct {
	// Name is the canonical verb.
	Name string
	// Aliases are alternate spellings.
	Aliases []string
	// Usage is the argument synopsis shown in help.
	Usage string
	// Help is the short help text.
	Help string
	// Category groups the verb.
	Category string
	// Build constructs the command.
	Build BuildFunc
}

// BuiltinVerbs returns all built-in verbs.
func BuiltinVerbs() []Verb {
	return []Verb{
		// Activities
		{Name: "idle", Aliases: []string{"rest"}, Help: "Stop the current activity", Category: CategoryActivity, Build: activity0(state.Idle)},
		{Name: "hunt", Usage: "<location>", Help: "Fight enemies at a location", Category: CategoryActivity, Build: activity1("location", state.Hunt)},
		{Name: "gather", Aliases: []string{"g"}, Usage: "<location>", Help: "Gather resources at a location", Category: CategoryActivity, Build: activity1("location", state.Gather)},
		{Name: "explore", Usage: "<location>", Help: "Explore a location", Category: CategoryActivity, Build: activity1("location", state.Explore)},
		{Name: "trade", Usage: "<location>", Help: "Trade at a location", Category: CategoryActivity, Build: activity1("location", state.Trade)},
		{Name: "craft", Usage: "<recipe>", Help: "Craft a recipe once per tick", Category: CategoryActivity, Build: activity1("recipe", state.Craft)},
		{Name: "train", Usage: "<skill>", Help: "Train a skill for 1 gold per tick", Category: CategoryActivity, Build: activity1("skill", state.Train)},
		{Name: "recover", Usage: "[ms]", Help: "Rest for a fixed duration", Category: CategoryActivity, Build: buildRecover},
		{Name: "quest", Usage: "<quest id>", Help: "Work on an accepted quest", Category: CategoryActivity, Build: activity1("quest id", state.Quest)},

		// Quests
		{Name: "accept", Usage: "<template> [npc]", Help: "Accept a quest", Category: CategoryQuest, Build: buildAccept},
		{Name: "abandon", Usage: "<quest id>", Help: "Abandon an active quest", Category: CategoryQuest, Build: buildAbandon},

		// Items
		{Name: "equip", Aliases: []string{"eq"}, Usage: "<item> <slot>", Help: "Equip an owned item", Category: CategoryItem, Build: buildEquip},
		{Name: "unequip", Aliases: []string{"uneq"}, Usage: "<slot>", Help: "Clear an equipment slot", Category: CategoryItem, Build: buildUnequip},
		{Name: "use", Usage: "<item>", Help: "Consume one unit of an item", Category: CategoryItem, Build: buildUse},

		// System
		{Name: "tactics", Aliases: []string{"stance"}, Usage: "<aggressive|balanced|defensive>", Help: "Set combat stance", Category: CategorySystem, Build: buildTactics},
		{Name: "reset", Help: "Reset rate metrics", Category: CategorySystem, Build: buildReset},
	}
}

func wantArgs(args []string, min, max int, usage string) error {
	if len(args) < min || len(args) > max {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func activity0(params func() state.ActivityParams) BuildFunc {
	return func(args []string, atMs int64) (Command, error) {
		if err := wantArgs(args, 0, 0, "takes no arguments"); err != nil {
			return nil, err
		}
		return SetActivity{Params: params(), AtMs: atMs}, nil
	}
}

func activity1(arg string, params func(string) state.ActivityParams) BuildFunc {
	return func(args []string, atMs int64) (Command, error) {
		if err := wantArgs(args, 1, 1, "<"+arg+">"); err != nil {
			return nil, err
		}
		return SetActivity{Params: params(args[0]), AtMs: atMs}, nil
	}
}

func buildRecover(args []string, atMs int64) (Command, error) {
	if err := wantArgs(args, 0, 1, "[ms]"); err != nil {
		return nil, err
	}
	d := state.RecoveryDurationMs
	if len(args) == 1 {
		if _, err := fmt.Sscan(args[0], &d); err != nil || d <= 0 {
			return nil, fmt.Errorf("recover: duration must be a positive integer, got %q", args[0])
		}
	}
	return SetActivity{Params: state.Recovery(d), AtMs: atMs}, nil
}

func buildAccept(args []string, atMs int64) (Command, error) {
	if err := wantArgs(args, 1, 2, "<template> [npc]"); err != nil {
		return nil, err
	}
	c := AcceptQuest{TemplateID: args[0], AtMs: atMs}
	if len(args) == 2 {
		c.NpcID = args[1]
	}
	return c, nil
}

func buildAbandon(args []string, atMs int64) (Command, error) {
	if err := wantArgs(args, 1, 1, "<quest id>"); err != nil {
		return nil, err
	}
	return AbandonQuest{QuestID: args[0], AtMs: atMs}, nil
}

// buildEquip leaves slot validation to the engine so an unknown slot
// surfaces as an INVALID_SLOT event.
func buildEquip(args []string, atMs int64) (Command, error) {
	if err := wantArgs(args, 2, 2, "<item> <slot>"); err != nil {
		return nil, err
	}
	return EquipItem{ItemID: args[0], Slot: state.Slot(args[1]), AtMs: atMs}, nil
}

func buildUnequip(args []string, atMs int64) (Command, error) {
	if err := wantArgs(args, 1, 1, "<slot>"); err != nil {
		return nil, err
	}
	return UnequipItem{Slot: state.Slot(args[0]), AtMs: atMs}, nil
}

func buildUse(args []string, atMs int64) (Command, error) {
	if err := wantArgs(args, 1, 1, "<item>"); err != nil {
		return nil, err
	}
	return UseItem{ItemID: args[0], AtMs: atMs}, nil
}

func buildTactics(args []string, atMs int64) (Command, error) {
	if err := wantArgs(args, 1, 1, "<aggressive|balanced|defensive>"); err != nil {
		return nil, err
	}
	t := state.Tactics(args[0])
	if !t.Valid() {
		return nil, fmt.Errorf("tactics: unknown stance %q", args[0])
	}
	return SetTactics{Tactics: t, AtMs: atMs}, nil
}

func buildReset(args []string, atMs int64) (Command, error) {
	if err := wantArgs(args, 0, 0, "takes no arguments"); err != nil {
		return nil, err
	}
	return ResetMetrics{AtMs: atMs}, nil
}
