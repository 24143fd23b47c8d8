package health

// ComputationMode selects how the overall wellbeing score is derived
// from the four vital axes.
type ComputationMode string

const (
	ComputationAverage  ComputationMode = "average"
	ComputationWeighted ComputationMode = "weighted"
)

// ComputeWellbeing collapses the vitals into one [0, 100] score for
// status display. Weighted mode leans on hunger and happiness, the two
// axes the player notices first.
func ComputeWellbeing(hunger, happiness, energy, hygiene int, mode ComputationMode) int {
	var score int

	switch mode {
	case ComputationWeighted:
		score = int(float64(hunger)*0.3 + float64(happiness)*0.3 + float64(energy)*0.2 + float64(hygiene)*0.2)
	default: // average
		score = (hunger + happiness + energy + hygiene) / 4
	}

	// Clamp to [0, 100]
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return score
}
