package state

const msPerHour = 3_600_000

// Rates are xp and gold earned per hour since the metrics baseline.
type Rates struct {
	ElapsedMs   int64   `json:"elapsedMs"`
	XPGained    int     `json:"xpGained"`
	GoldGained  int     `json:"goldGained"`
	XPPerHour   float64 `json:"xpPerHour"`
	GoldPerHour float64 `json:"goldPerHour"`
}

// Rates computes earning rates between the metrics baseline and nowMs.
//
// Postcondition: per-hour figures are zero when no time has elapsed.
func (s *EngineState) Rates(nowMs int64) Rates {
	r := Rates{
		ElapsedMs:  nowMs - s.Metrics.StartTimeMs,
		XPGained:   s.Player.XP - s.Metrics.StartXP,
		GoldGained: s.Player.Gold - s.Metrics.StartGold,
	}
	if r.ElapsedMs <= 0 {
		r.ElapsedMs = 0
		return r
	}
	hours := float64(r.ElapsedMs) / msPerHour
	r.XPPerHour = float64(r.XPGained) / hours
	r.GoldPerHour = float64(r.GoldGained) / hours
	return r
}
