// Package combat implements the single-comparison encounter math.
package combat

import "github.com/cory-johannsen/idlerpg/internal/game/state"

// Outcome is the result of one encounter.
type Outcome int

const (
	Win Outcome = iota
	Loss
)

// String returns the outcome label used in events.
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	default:
		return "unknown"
	}
}

// Combatant is one side of an encounter.
type Combatant struct {
	ID    string
	Level int
	Atk   int
	Def   int
}

// Multipliers scale a player's attack and defense by stance.
type Multipliers struct {
	Atk float64
	Def float64
}

// TacticsMultipliers returns the stance multipliers for t.
//
// Postcondition: unknown stances are treated as balanced.
func TacticsMultipliers(t state.Tactics) Multipliers {
	switch t {
	case state.TacticsAggressive:
		return Multipliers{Atk: 1.2, Def: 0.8}
	case state.TacticsDefensive:
		return Multipliers{Atk: 0.8, Def: 1.2}
	default:
		return Multipliers{Atk: 1.0, Def: 1.0}
	}
}

// MaxJitter is the exclusive upper bound of the power jitter.
const MaxJitter = 3.0

// PlayerPower computes the player's power for one encounter.
// Formula: (atk*atkMult)*2 + (def*defMult)*2 + level*2 + jitter.
//
// Precondition: 0 <= jitter < MaxJitter.
func PlayerPower(p Combatant, t state.Tactics, jitter float64) float64 {
	m := TacticsMultipliers(t)
	return float64(p.Atk)*m.Atk*2 + float64(p.Def)*m.Def*2 + float64(p.Level)*2 + jitter
}

// EnemyPower computes an enemy's power for one encounter.
// Formula: atk*2 + def*2 + jitter.
//
// Precondition: 0 <= jitter < MaxJitter.
func EnemyPower(e Combatant, jitter float64) float64 {
	return float64(e.Atk)*2 + float64(e.Def)*2 + jitter
}
