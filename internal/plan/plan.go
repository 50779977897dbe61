// Package plan builds staged trade plans from signal results and position
// sizing limits.
package plan

import (
	"github.com/Alias1177/Accumulator/internal/config"
	"github.com/Alias1177/Accumulator/internal/normalize"
	"github.com/Alias1177/Accumulator/models"
)

// SizeCurve scales the base position size by how far the combined score sits
// above the buy threshold. multiplier = Floor + (excess/maxExcess)*Slope.
type SizeCurve struct {
	Floor float64
	Slope float64
}

// Tranche is one staged entry in the accumulation schedule.
type Tranche struct {
	Timing   string
	Fraction float64
}

// Spec describes how a scenario turns a buy signal into an actionable plan.
type Spec struct {
	Action         string
	Strategy       string
	Curve          SizeCurve
	Tranches       []Tranche
	HoldPeriod     string
	ExitConditions []string
	Rationale      func(sig models.SignalResult) string
}

// Generate produces the trade plan for a signal. Non-buy signals get a
// no-action plan with zero size.
func Generate(sig models.SignalResult, portfolioValue float64, limits config.PositionLimits, spec Spec) models.TradePlan {
	if !sig.BuySignal {
		return models.TradePlan{
			Action:       models.ActionNone,
			Reason:       "Signal threshold not met",
			PositionSize: 0,
		}
	}

	excess := sig.CombinedScore - sig.Threshold
	if excess < 0 {
		excess = 0
	}
	maxExcess := 1.0 - sig.Threshold

	multiplier := spec.Curve.Floor
	if maxExcess > 0 {
		multiplier += (excess / maxExcess) * spec.Curve.Slope
	}

	size := limits.Base * multiplier
	if size > limits.Max {
		size = limits.Max
	}
	size = normalize.Clamp(size, 0, limits.Max)

	entries := make([]models.EntryTranche, 0, len(spec.Tranches))
	for _, tr := range spec.Tranches {
		entries = append(entries, models.EntryTranche{
			Timing:   tr.Timing,
			Fraction: tr.Fraction,
			Value:    portfolioValue * size * tr.Fraction,
		})
	}

	p := models.TradePlan{
		Action:         spec.Action,
		PositionSize:   size,
		PositionValue:  portfolioValue * size,
		EntryStrategy:  spec.Strategy,
		EntryPlan:      entries,
		HoldPeriod:     spec.HoldPeriod,
		ExitConditions: spec.ExitConditions,
	}
	if spec.Rationale != nil {
		p.Rationale = spec.Rationale(sig)
	}
	return p
}
