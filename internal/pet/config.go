package pet

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// StatDeltas are the per-action adjustments to the vital axes. Values
// are additive and may be negative; the engine clamps afterwards.
type StatDeltas struct {
	Hunger    int `toml:"hunger,omitempty"`
	Happiness int `toml:"happiness,omitempty"`
	Energy    int `toml:"energy,omitempty"`
	Hygiene   int `toml:"hygiene,omitempty"`
}

// ActionDef declares the full cost and effect of one named action.
// The action table is data, not code: game balance changes happen in
// the config file without touching the engine.
type ActionDef struct {
	StaminaCost int        `toml:"staminaCost"`
	CoinCost    int        `toml:"coinCost"`
	Deltas      StatDeltas `toml:"deltas"`
	XPGained    int        `toml:"xpGained"`
}

// Config holds every game-balance number: stamina tuning, the
// evolution table, action definitions, store products and the trait
// pool. Defaults mirror the shipped app; a TOML file overrides them.
type Config struct {
	MaxStamina         int    `toml:"maxStamina"`
	RechargeIntervalMs int64  `toml:"rechargeIntervalMs"`
	RefillCost         int    `toml:"refillCost"`
	XPPerLevel         int    `toml:"xpPerLevel"`
	LevelUpCoinBonus   int    `toml:"levelUpCoinBonus"`
	LevelCap           int    `toml:"levelCap"`
	StartingCoins      int    `toml:"startingCoins"`
	DefaultName        string `toml:"defaultName"`

	EvolutionOrder []string             `toml:"evolutionOrder"`
	Actions        map[string]ActionDef `toml:"actions"`
	Products       map[string]int       `toml:"products"`
	TraitPool      []string             `toml:"traitPool"`
}

// Default returns the built-in balance table.
func Default() Config {
	return Config{
		MaxStamina:         5,
		RechargeIntervalMs: 30 * 60 * 1000,
		RefillCost:         100,
		XPPerLevel:         100,
		LevelUpCoinBonus:   100,
		LevelCap:           7,
		StartingCoins:      250,
		DefaultName:        "Bubbles",
		EvolutionOrder: []string{
			"Duck", "Flamingo", "Parrot", "Stork", "Fox",
			"Pinguin", "Wolf", "Horse", "Cat", "Tiger",
			"BlackWolf", "Demon", "Spider", "TRex", "Dragon",
		},
		Actions: map[string]ActionDef{
			"feed": {
				StaminaCost: 1,
				CoinCost:    10,
				Deltas:      StatDeltas{Hunger: 15},
				XPGained:    5,
			},
			"clean": {
				StaminaCost: 1,
				CoinCost:    2,
				Deltas:      StatDeltas{Hygiene: 40},
				XPGained:    4,
			},
			"play": {
				StaminaCost: 1,
				CoinCost:    5,
				Deltas:      StatDeltas{Happiness: 15, Energy: -10, Hygiene: -15},
				XPGained:    8,
			},
			"sleep": {
				StaminaCost: 1,
				CoinCost:    0,
				Deltas:      StatDeltas{Energy: 25},
				XPGained:    4,
			},
		},
		Products: map[string]int{
			"com.tamagotchi.pacotebasico_500": 500,
			"com.tamagotchi.bauestrelas_1500": 1500,
		},
		TraitPool: []string{
			"Playful", "Curious", "Sleepy", "Brave",
			"Shy", "Clever", "Loyal", "Mischievous",
		},
	}
}

// LoadConfig reads a TOML balance file over the defaults, so partial
// files only override the keys they mention.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.MaxStamina < 1 {
		return fmt.Errorf("maxStamina must be at least 1, got %d", c.MaxStamina)
	}
	if c.RechargeIntervalMs <= 0 {
		return fmt.Errorf("rechargeIntervalMs must be positive, got %d", c.RechargeIntervalMs)
	}
	if len(c.EvolutionOrder) == 0 {
		return fmt.Errorf("evolutionOrder must not be empty")
	}
	if c.LevelCap < 1 || c.LevelCap > len(c.EvolutionOrder) {
		return fmt.Errorf("levelCap %d out of range for %d-entry evolution order", c.LevelCap, len(c.EvolutionOrder))
	}
	for name, a := range c.Actions {
		if a.StaminaCost < 0 || a.CoinCost < 0 || a.XPGained < 0 {
			return fmt.Errorf("action %q has negative costs", name)
		}
	}
	return nil
}

// RechargeInterval returns the per-unit stamina recharge duration.
func (c Config) RechargeInterval() time.Duration {
	return time.Duration(c.RechargeIntervalMs) * time.Millisecond
}

// SpeciesFor maps a level to its species. Levels past the end of the
// table stay on the final entry.
func (c Config) SpeciesFor(level int) string {
	if len(c.EvolutionOrder) == 0 {
		return ""
	}
	idx := level - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(c.EvolutionOrder) {
		idx = len(c.EvolutionOrder) - 1
	}
	return c.EvolutionOrder[idx]
}
