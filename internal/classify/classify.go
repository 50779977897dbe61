// Package classify turns a combined scenario score into a discrete buy
// decision and strength tier.
package classify

import (
	"github.com/Alias1177/Accumulator/models"
)

// Override is a scenario-specific rule that can force a buy decision below
// the normal threshold. It returns the forced tier when it fires.
type Override func(combinedScore float64) (bool, string)

// Strength maps a combined score to its tier. The tier boundaries are fixed
// and independent of any scenario's buy threshold.
func Strength(combinedScore float64) string {
	switch {
	case combinedScore >= 0.8:
		return models.StrengthVeryStrong
	case combinedScore >= 0.6:
		return models.StrengthStrong
	case combinedScore >= 0.4:
		return models.StrengthModerate
	default:
		return models.StrengthWeak
	}
}

// Evaluate applies the inclusive buy threshold and then any override. A score
// exactly equal to the threshold is a buy.
func Evaluate(combinedScore, threshold float64, override Override) (bool, string) {
	buySignal := combinedScore >= threshold
	strength := Strength(combinedScore)

	if override != nil {
		if forced, tier := override(combinedScore); forced {
			buySignal = true
			strength = tier
		}
	}
	return buySignal, strength
}
