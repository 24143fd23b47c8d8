package pet

// PetState is the pet's identity: who it is, not how it is doing.
// Species and Level move together through the evolution order; Name,
// Traits and ImageRef are set at hatch/reroll time.
type PetState struct {
	Species  string   `json:"species"`
	Level    int      `json:"level"`
	Name     string   `json:"name"`
	Traits   []string `json:"traits,omitempty"`
	ImageRef string   `json:"imageRef,omitempty"`
}

// Vitals are the four wellbeing axes, each clamped to [0, 100].
// They only change through actions; there is no passive decay.
type Vitals struct {
	Hunger    int `json:"hunger"`
	Happiness int `json:"happiness"`
	Energy    int `json:"energy"`
	Hygiene   int `json:"hygiene"`
}

// Snapshot is the persisted record: pet identity plus the flat economy
// and vital fields, matching the single stored document of the app.
// LastSavedAt (epoch millis) exists solely to compute offline stamina
// regeneration on the next load.
type Snapshot struct {
	Pet         PetState `json:"pet"`
	Hunger      int      `json:"hunger"`
	Happiness   int      `json:"happiness"`
	Energy      int      `json:"energy"`
	Hygiene     int      `json:"hygiene"`
	Coins       int      `json:"coins"`
	XP          int      `json:"xp"`
	Stamina     int      `json:"stamina"`
	LastSavedAt int64    `json:"lastSavedTime"`
}

// MinStat and MaxStat bound every vital axis.
const (
	MinStat = 0
	MaxStat = 100
)

// NewSnapshot returns the starting state for a fresh game. Older or
// partial stored documents are unmarshaled over this value so that
// missing fields fall back to these defaults.
func NewSnapshot(cfg Config) Snapshot {
	return Snapshot{
		Pet: PetState{
			Species: cfg.SpeciesFor(1),
			Level:   1,
			Name:    cfg.DefaultName,
		},
		Hunger:    60,
		Happiness: 40,
		Energy:    90,
		Hygiene:   100,
		Coins:     cfg.StartingCoins,
		XP:        0,
		Stamina:   cfg.MaxStamina,
	}
}

// Vitals bundles the four stat fields of the snapshot.
func (s Snapshot) Vitals() Vitals {
	return Vitals{
		Hunger:    s.Hunger,
		Happiness: s.Happiness,
		Energy:    s.Energy,
		Hygiene:   s.Hygiene,
	}
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampVitals re-clamps every axis after deltas have been applied.
func (s *Snapshot) ClampVitals() {
	s.Hunger = Clamp(s.Hunger, MinStat, MaxStat)
	s.Happiness = Clamp(s.Happiness, MinStat, MaxStat)
	s.Energy = Clamp(s.Energy, MinStat, MaxStat)
	s.Hygiene = Clamp(s.Hygiene, MinStat, MaxStat)
}
