package classify

import (
	"testing"

	"github.com/Alias1177/Accumulator/models"
)

func TestStrengthTiers(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"very strong at boundary", 0.8, models.StrengthVeryStrong},
		{"very strong above", 0.95, models.StrengthVeryStrong},
		{"strong at boundary", 0.6, models.StrengthStrong},
		{"strong below very strong", 0.79, models.StrengthStrong},
		{"moderate at boundary", 0.4, models.StrengthModerate},
		{"moderate below strong", 0.59, models.StrengthModerate},
		{"weak below moderate", 0.39, models.StrengthWeak},
		{"weak at zero", 0.0, models.StrengthWeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strength(tt.score); got != tt.want {
				t.Errorf("Strength(%v) = %q, want %q", tt.score, got, tt.want)
			}
		})
	}
}

func TestEvaluateThresholdInclusive(t *testing.T) {
	buy, strength := Evaluate(0.70, 0.70, nil)
	if !buy {
		t.Error("score equal to threshold should produce a buy signal")
	}
	if strength != models.StrengthStrong {
		t.Errorf("strength = %q, want %q", strength, models.StrengthStrong)
	}

	buy, _ = Evaluate(0.699, 0.70, nil)
	if buy {
		t.Error("score below threshold should not produce a buy signal")
	}
}

func TestEvaluateOverride(t *testing.T) {
	override := func(combined float64) (bool, string) {
		if combined >= 0.6 {
			return true, models.StrengthM2Override
		}
		return false, ""
	}

	buy, strength := Evaluate(0.65, 0.75, override)
	if !buy {
		t.Error("override should force buy below threshold")
	}
	if strength != models.StrengthM2Override {
		t.Errorf("strength = %q, want %q", strength, models.StrengthM2Override)
	}

	buy, strength = Evaluate(0.55, 0.75, override)
	if buy {
		t.Error("override must not fire below its own floor")
	}
	if strength != models.StrengthModerate {
		t.Errorf("strength = %q, want %q", strength, models.StrengthModerate)
	}
}
