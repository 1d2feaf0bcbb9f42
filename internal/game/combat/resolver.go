package combat

import "github.com/cory-johannsen/idlerpg/internal/game/state"

const (
	minEnemyLevel = 1
	maxEnemyLevel = 99
)

// Result holds the outcome of a single encounter.
type Result struct {
	Outcome     Outcome
	PlayerPower float64
	EnemyPower  float64
}

// Jitter is the pair of power jitters drawn for one encounter.
type Jitter struct {
	Player float64
	Enemy  float64
}

// Resolve compares player and enemy power once.
//
// Postcondition: Outcome is Win iff PlayerPower >= EnemyPower.
func Resolve(player Combatant, tactics state.Tactics, enemy Combatant, j Jitter) Result {
	r := Result{
		PlayerPower: PlayerPower(player, tactics, j.Player),
		EnemyPower:  EnemyPower(enemy, j.Enemy),
	}
	if r.PlayerPower >= r.EnemyPower {
		r.Outcome = Win
	} else {
		r.Outcome = Loss
	}
	return r
}

// EnemyLevel applies a level offset to the player's level.
//
// Precondition: offset is in [-1, 1].
// Postcondition: Returns a value in [1, 99].
func EnemyLevel(playerLevel, offset int) int {
	l := playerLevel + offset
	if l < minEnemyLevel {
		return minEnemyLevel
	}
	if l > maxEnemyLevel {
		return maxEnemyLevel
	}
	return l
}

// DefeatPenalty returns how much xp a player of the given level and xp loses
// on defeat: 10% of the xp span of the current level, never taking xp below
// the level's floor.
//
// Postcondition: 0 <= result <= xp - state.LevelFloorXP(level).
func DefeatPenalty(level, xp int) int {
	floor := state.LevelFloorXP(level)
	penalty := (state.XPThreshold(level) - floor) / 10
	if room := xp - floor; penalty > room {
		penalty = room
	}
	if penalty < 0 {
		return 0
	}
	return penalty
}
