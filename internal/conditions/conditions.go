package conditions

import "github.com/pocketpet/pocketpet/internal/pet"

type Condition string

const (
	CondHungry  Condition = "hungry"
	CondSad     Condition = "sad"
	CondTired   Condition = "tired"
	CondSmelly  Condition = "smelly"
	CondDrained Condition = "out of energy"
	CondHappy   Condition = "happy"
)

type DerivedStatus struct {
	Wellbeing  int
	Conditions map[Condition]bool
	Primary    Condition
	AllOrdered []Condition
}

// DeriveStatus maps the vitals and stamina onto display conditions in
// priority order. The pet is happy only when nothing else applies.
func DeriveStatus(v pet.Vitals, staminaLeft int, wellbeing int) DerivedStatus {
	conds := make(map[Condition]bool)
	var allOrdered []Condition

	add := func(c Condition) {
		if !conds[c] {
			conds[c] = true
			allOrdered = append(allOrdered, c)
		}
	}

	// Priority 1: hungry
	if v.Hunger < 50 {
		add(CondHungry)
	}

	// Priority 2: sad
	if v.Happiness < 50 {
		add(CondSad)
	}

	// Priority 3: tired
	if v.Energy < 40 {
		add(CondTired)
	}

	// Priority 4: smelly
	if v.Hygiene < 50 {
		add(CondSmelly)
	}

	// Priority 5: no actions left
	if staminaLeft <= 0 {
		add(CondDrained)
	}

	if len(allOrdered) == 0 {
		add(CondHappy)
	}

	return DerivedStatus{
		Wellbeing:  wellbeing,
		Conditions: conds,
		Primary:    allOrdered[0],
		AllOrdered: allOrdered,
	}
}

// FormatConditions formats conditions into a comma-separated string.
// Returns "happy" if the slice is empty.
func FormatConditions(conds []Condition) string {
	if len(conds) == 0 {
		return string(CondHappy)
	}

	result := string(conds[0])
	for i := 1; i < len(conds); i++ {
		result += ", " + string(conds[i])
	}
	return result
}
