// Package progression owns experience accumulation and the evolution
// table lookup.
package progression

import "github.com/pocketpet/pocketpet/internal/pet"

// Evolution describes a completed level-up for the presentation layer.
type Evolution struct {
	NewLevel   int
	NewSpecies string
}

// Result is the progression state after an XP grant.
type Result struct {
	Level     int
	XP        int
	Species   string
	CoinBonus int
	Evolved   bool
}

// ApplyGain adds gain to xp and processes at most one level-up.
//
// Single-step semantics are deliberate: even if the new total crosses
// two thresholds, only one evolution is applied per grant. No action
// grants a full level's worth of XP, so the remainder always lands
// below the threshold in practice; the excess simply carries over to
// the next grant.
//
// At the level cap, XP pins to exactly one threshold's worth and the
// pet stays on the final form.
func ApplyGain(level, xp, gain int, cfg pet.Config) Result {
	xp += gain
	res := Result{Level: level, XP: xp, Species: cfg.SpeciesFor(level)}

	if xp < cfg.XPPerLevel {
		return res
	}

	if level >= cfg.LevelCap {
		res.XP = cfg.XPPerLevel
		return res
	}

	res.Level = level + 1
	res.XP = xp - cfg.XPPerLevel
	res.Species = cfg.SpeciesFor(res.Level)
	res.CoinBonus = cfg.LevelUpCoinBonus
	res.Evolved = true
	return res
}
