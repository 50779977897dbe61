package normalize

import (
	"math"
	"testing"
)

func reserveTable() Table {
	return Table{
		Name: "exchange_reserves",
		Buckets: []Bucket{
			{Label: "critical_low", Op: OpBelow, Boundary: 2.35e6, Score: 1.0},
			{Label: "low", Op: OpBelow, Boundary: 2.5e6, Score: 0.7},
			{Label: "critical_high", Op: OpAbove, Boundary: 3.0e6, Score: 0.0},
			{Label: "high", Op: OpAbove, Boundary: 2.8e6, Score: 0.2},
			{Label: "normal", Op: OpAny, Score: 0.4},
		},
	}
}

func TestNormalizeReserveBuckets(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		wantLabel string
		wantScore float64
	}{
		{"deep below critical low", 1.0e6, "critical_low", 1.0},
		{"just below critical low", 2.349e6, "critical_low", 1.0},
		{"exactly critical low boundary", 2.35e6, "low", 0.7},
		{"low band", 2.45e6, "low", 0.7},
		{"exactly low boundary falls to normal", 2.5e6, "normal", 0.4},
		{"normal band", 2.6e6, "normal", 0.4},
		{"exactly high boundary stays normal", 2.8e6, "normal", 0.4},
		{"high band", 2.9e6, "high", 0.2},
		{"exactly critical high boundary stays high", 3.0e6, "high", 0.2},
		{"above critical high", 3.5e6, "critical_high", 0.0},
		{"far above critical high", 9.9e6, "critical_high", 0.0},
	}

	table := reserveTable()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.value, table)
			if got.Label != tt.wantLabel {
				t.Errorf("Normalize(%v) label = %v, want %v", tt.value, got.Label, tt.wantLabel)
			}
			if got.Score != tt.wantScore {
				t.Errorf("Normalize(%v) score = %v, want %v", tt.value, got.Score, tt.wantScore)
			}
		})
	}
}

func TestNormalizeInclusiveBoundary(t *testing.T) {
	table := Table{
		Name: "m2_growth",
		Buckets: []Bucket{
			{Label: "extreme_expansion", Op: OpAtLeast, Boundary: 0.15, Score: 1.0},
			{Label: "strong_expansion", Op: OpAtLeast, Boundary: 0.10, Score: 0.8},
			{Label: "normal_expansion", Op: OpAtLeast, Boundary: 0.05, Score: 0.5},
			{Label: "slow_growth", Op: OpAtLeast, Boundary: 0.0, Score: 0.2},
			{Label: "contraction", Op: OpAny, Score: 0.0},
		},
	}

	// Growth of exactly 15% classifies as extreme expansion; the inclusive
	// comparison matters because the override rule keys off this label.
	if got := Normalize(0.15, table); got.Label != "extreme_expansion" {
		t.Errorf("Normalize(0.15) label = %v, want extreme_expansion", got.Label)
	}
	if got := Normalize(0.1499, table); got.Label != "strong_expansion" {
		t.Errorf("Normalize(0.1499) label = %v, want strong_expansion", got.Label)
	}
	if got := Normalize(-0.02, table); got.Label != "contraction" || got.Score != 0.0 {
		t.Errorf("Normalize(-0.02) = %+v, want contraction/0.0", got)
	}
}

func TestNormalizeNoMatch(t *testing.T) {
	table := Table{
		Name: "open_ended",
		Buckets: []Bucket{
			{Label: "hot", Op: OpAbove, Boundary: 10, Score: 1.0},
		},
	}

	got := Normalize(5, table)
	if got != Unclassified {
		t.Errorf("Normalize with no matching bucket = %+v, want %+v", got, Unclassified)
	}
}

func TestNormalizeScoreBounds(t *testing.T) {
	table := Table{
		Name: "overdriven",
		Buckets: []Bucket{
			{Label: "too_big", Op: OpAbove, Boundary: 0, Score: 1.8},
			{Label: "too_small", Op: OpAny, Score: -0.3},
		},
	}

	for _, v := range []float64{-100, -1, 0, 0.5, 1, 100} {
		got := Normalize(v, table)
		if got.Score < 0 || got.Score > 1 {
			t.Errorf("Normalize(%v) score %v out of [0,1]", v, got.Score)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{-0.5, -0.2, 0.2, -0.2},
		{0.5, -0.2, 0.2, 0.2},
		{0.1, -0.2, 0.2, 0.1},
		{math.Inf(1), 0, 1, 1},
		{math.Inf(-1), 0, 1, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
