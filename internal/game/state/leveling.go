package state

// XPThreshold is the total xp at which a player of the given level advances.
func XPThreshold(level int) int {
	return 100 * level * level
}

// LevelFloorXP is the minimum xp consistent with holding level.
func LevelFloorXP(level int) int {
	if level <= 1 {
		return 0
	}
	return XPThreshold(level - 1)
}

// LevelForXP derives the player level from total xp.
func LevelForXP(xp int) int {
	level := 1
	for xp >= XPThreshold(level) {
		level++
	}
	return level
}

// SkillThreshold is the cumulative skill xp at which a skill advances.
func SkillThreshold(level int) int {
	return level * 50
}

// SkillLevelForXP derives a skill level from cumulative skill xp.
func SkillLevelForXP(xp int) int {
	level := 1
	for xp >= SkillThreshold(level) {
		level++
	}
	return level
}
