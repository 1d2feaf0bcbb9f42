package state

import (
	"fmt"
	"strings"
)

// Validate checks the snapshot invariants.
//
// Postcondition: Returns nil when inventory stacks are unique and positive,
// the player level matches xp, the activity is a valid variant, quests are
// well-formed and the tick counters are non-negative; otherwise one error
// listing every violation.
func (s *EngineState) Validate() error {
	var errs []string

	if s.Version != Version {
		errs = append(errs, fmt.Sprintf("version must be %d, got %d", Version, s.Version))
	}
	if s.SaveID == "" {
		errs = append(errs, "saveId must not be empty")
	}
	if s.TickIndex < 0 {
		errs = append(errs, "tickIndex must not be negative")
	}
	if s.NextEventID < 1 {
		errs = append(errs, "nextEventId must be >= 1")
	}

	seen := make(map[string]bool, len(s.Inventory))
	for i, st := range s.Inventory {
		if st.Qty <= 0 {
			errs = append(errs, fmt.Sprintf("inventory[%d] %q: qty must be > 0, got %d", i, st.ItemID, st.Qty))
		}
		if seen[st.ItemID] {
			errs = append(errs, fmt.Sprintf("inventory[%d]: duplicate stack for %q", i, st.ItemID))
		}
		seen[st.ItemID] = true
	}

	p := s.Player
	if p.XP < 0 {
		errs = append(errs, "player.xp must not be negative")
	}
	if p.Gold < 0 {
		errs = append(errs, "player.gold must not be negative")
	}
	if p.XP < LevelFloorXP(p.Level) || p.XP >= XPThreshold(p.Level) {
		errs = append(errs, fmt.Sprintf("player.level %d inconsistent with xp %d", p.Level, p.XP))
	}
	if !p.Tactics.Valid() {
		errs = append(errs, fmt.Sprintf("player.tactics %q is unknown", p.Tactics))
	}

	if err := s.Activity.Params.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	for i, q := range s.Quests {
		switch q.Status {
		case QuestActive, QuestCompleted, QuestAbandoned:
		default:
			errs = append(errs, fmt.Sprintf("quests[%d]: unknown status %q", i, q.Status))
		}
		if q.Progress.Required < 1 || q.Progress.Current < 0 || q.Progress.Current > q.Progress.Required {
			errs = append(errs, fmt.Sprintf("quests[%d]: progress %d/%d is invalid", i, q.Progress.Current, q.Progress.Required))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("state validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
