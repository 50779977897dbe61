package scenario

import (
	"github.com/Alias1177/Accumulator/internal/config"
	"github.com/Alias1177/Accumulator/internal/normalize"
)

// fedRateTable classifies the fed funds rate level. Lower rates score higher;
// bands are strict upper bounds in percent.
func fedRateTable(t config.FedRateThresholds) normalize.Table {
	return normalize.Table{
		Name: "fed_rate",
		Buckets: []normalize.Bucket{
			{Label: "ultra_low", Op: normalize.OpBelow, Boundary: t.UltraLow, Score: 0.8},
			{Label: "low", Op: normalize.OpBelow, Boundary: t.Low, Score: 0.5},
			{Label: "neutral", Op: normalize.OpBelow, Boundary: t.Neutral, Score: 0.3},
			{Label: "high", Op: normalize.OpAny, Score: 0.1},
		},
	}
}

// reserveTable classifies exchange reserves in BTC. Both tails are checked
// before the middle band, so the bucket order here is load-bearing.
func reserveTable(t config.ReserveThresholds) normalize.Table {
	return normalize.Table{
		Name: "exchange_reserves",
		Buckets: []normalize.Bucket{
			{Label: "critical_low", Op: normalize.OpBelow, Boundary: t.CriticalLow, Score: 1.0},
			{Label: "low", Op: normalize.OpBelow, Boundary: t.Low, Score: 0.7},
			{Label: "critical_high", Op: normalize.OpAbove, Boundary: t.CriticalHigh, Score: 0.0},
			{Label: "high", Op: normalize.OpAbove, Boundary: t.High, Score: 0.2},
			{Label: "normal", Op: normalize.OpAny, Score: 0.4},
		},
	}
}

// m2GrowthTable classifies year-over-year M2 growth. Unlike the rate and
// reserve tables these bands are inclusive on the low side.
func m2GrowthTable(t config.M2Thresholds) normalize.Table {
	return normalize.Table{
		Name: "m2_growth",
		Buckets: []normalize.Bucket{
			{Label: "extreme_expansion", Op: normalize.OpAtLeast, Boundary: t.ExtremeExpansion, Score: 1.0},
			{Label: "strong_expansion", Op: normalize.OpAtLeast, Boundary: t.StrongExpansion, Score: 0.8},
			{Label: "normal_expansion", Op: normalize.OpAtLeast, Boundary: t.NormalExpansion, Score: 0.5},
			{Label: "slow_growth", Op: normalize.OpAtLeast, Boundary: t.Contraction, Score: 0.2},
			{Label: "contraction", Op: normalize.OpAny, Score: 0.0},
		},
	}
}
