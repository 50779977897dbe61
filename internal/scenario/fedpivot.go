package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Accumulator/internal/classify"
	"github.com/Alias1177/Accumulator/internal/config"
	"github.com/Alias1177/Accumulator/internal/normalize"
	"github.com/Alias1177/Accumulator/internal/plan"
	"github.com/Alias1177/Accumulator/models"
)

const (
	fedPivotID       = 1
	fedPivotName     = "Fed Pivot + Low Exchange Reserves"
	fedWeight        = 0.6
	reserveWeight    = 0.4
	pivotLookbackDay = 180
)

// FedPivot is scenario 1: a monetary policy pivot combined with low Bitcoin
// exchange reserves.
type FedPivot struct {
	cfg     *config.Settings
	macro   models.MacroProvider
	market  models.MarketProvider
	onchain models.OnChainProvider

	rateTable    normalize.Table
	reserveTable normalize.Table
	planSpec     plan.Spec
}

// NewFedPivot wires the scenario to its data providers.
func NewFedPivot(cfg *config.Settings, macro models.MacroProvider, market models.MarketProvider, onchain models.OnChainProvider) *FedPivot {
	return &FedPivot{
		cfg:          cfg,
		macro:        macro,
		market:       market,
		onchain:      onchain,
		rateTable:    fedRateTable(cfg.FedRate),
		reserveTable: reserveTable(cfg.ExchangeReserves),
		planSpec: plan.Spec{
			Action:   models.ActionBuy,
			Strategy: "scaled_72h",
			Curve:    plan.SizeCurve{Floor: 1.0, Slope: 2.0},
			Tranches: []plan.Tranche{
				{Timing: "immediate", Fraction: 0.40},
				{Timing: "24_hours", Fraction: 0.30},
				{Timing: "48_hours", Fraction: 0.20},
				{Timing: "72_hours", Fraction: 0.10},
			},
			HoldPeriod: "minimum_90_days",
			ExitConditions: []string{
				"NUPL > 0.70 (euphoria)",
				"Exchange reserves > 2.8M BTC",
				"Fed policy reversal (rate hikes)",
			},
			Rationale: func(sig models.SignalResult) string {
				return fmt.Sprintf("Fed pivot signal (%s) with low exchange reserves. Combined score: %.2f",
					sig.Strength, sig.CombinedScore)
			},
		},
	}
}

func (f *FedPivot) ID() int      { return fedPivotID }
func (f *FedPivot) Name() string { return fedPivotName }

// fedPolicy collects the monetary policy leg. Provider failures are recorded
// in the snapshot, not raised; a nil rate later scores zero.
func (f *FedPivot) fedPolicy(ctx context.Context) *models.FedPolicySnapshot {
	snap := &models.FedPolicySnapshot{Timestamp: time.Now()}

	rate, err := f.macro.CurrentFedRate(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get fed funds rate")
		snap.Error = err.Error()
		return snap
	}
	snap.FedFundsRate = models.Float(rate)

	pivot, err := f.macro.DetectPivot(ctx, pivotLookbackDay)
	if err != nil {
		log.Error().Err(err).Msg("failed to detect fed pivot")
		snap.Error = err.Error()
		return snap
	}
	snap.PivotDetected = pivot.PivotDetected
	snap.PivotDirection = pivot.Direction
	snap.PivotMagnitude = pivot.Magnitude
	snap.TrendChange = pivot.TrendChange

	if m2, err := f.macro.M2GrowthRate(ctx); err == nil {
		snap.M2GrowthRate = models.Float(m2)
	}
	return snap
}

func (f *FedPivot) exchangeReserves(ctx context.Context) *models.ReserveSnapshot {
	snap := &models.ReserveSnapshot{Timestamp: time.Now()}

	reserves, err := f.onchain.ExchangeReserves(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get exchange reserves")
		snap.Error = err.Error()
		return snap
	}

	sub := normalize.Normalize(reserves, f.reserveTable)
	snap.ExchangeReserves = models.Float(reserves)
	snap.ReserveLevel = sub.Label
	snap.ReserveScore = sub.Score
	return snap
}

// fedScore turns the policy snapshot into a [0,1] sub-score. The base level
// score is amplified or suppressed by the pivot direction before weighting.
func (f *FedPivot) fedScore(snap *models.FedPolicySnapshot) float64 {
	if snap.FedFundsRate == nil {
		return 0.0
	}

	base := normalize.Normalize(*snap.FedFundsRate, f.rateTable).Score

	multiplier := 1.0
	if snap.PivotDetected {
		switch snap.PivotDirection {
		case models.DirectionCutting:
			multiplier = 1.5 + min(0.5, snap.PivotMagnitude/2.0)
		case models.DirectionHiking:
			multiplier = 0.3
		}
	} else if snap.PivotDirection == models.DirectionCutting {
		// ongoing cuts that have not crossed the pivot threshold yet
		multiplier = 1.2
	}

	score := min(1.0, base*multiplier)
	log.Debug().
		Float64("rate", *snap.FedFundsRate).
		Bool("pivot", snap.PivotDetected).
		Str("direction", snap.PivotDirection).
		Float64("score", score).
		Msg("fed score calculated")
	return score
}

func (f *FedPivot) signals(fed *models.FedPolicySnapshot, reserves *models.ReserveSnapshot) models.SignalResult {
	fedScore := f.fedScore(fed)
	reserveScore := reserves.ReserveScore

	combined := normalize.Clamp01(fedScore*fedWeight + reserveScore*reserveWeight)
	threshold := f.cfg.GetSignalThreshold(fedPivotID)
	buy, strength := classify.Evaluate(combined, threshold, nil)

	return models.SignalResult{
		MacroScore:    fedScore,
		SupplyScore:   reserveScore,
		CombinedScore: combined,
		BuySignal:     buy,
		Strength:      strength,
		Threshold:     threshold,
	}
}

// Analyze runs the full scenario cycle: read both legs, score, classify,
// plan. It never returns an error; degraded inputs degrade the score.
func (f *FedPivot) Analyze(ctx context.Context, portfolioValue float64, asOf *time.Time) models.AnalysisResult {
	log.Info().Msg("running fed pivot + exchange reserves analysis")

	fed := f.fedPolicy(ctx)
	reserves := f.exchangeReserves(ctx)
	signals := f.signals(fed, reserves)

	limits := f.cfg.GetPositionLimits(f.cfg.RiskProfile)
	tradePlan := plan.Generate(signals, portfolioValue, limits, f.planSpec)

	log.Info().
		Bool("buy_signal", signals.BuySignal).
		Float64("score", signals.CombinedScore).
		Msg("fed pivot analysis complete")

	return models.AnalysisResult{
		Scenario:     fedPivotID,
		ScenarioName: fedPivotName,
		Data: models.ScenarioData{
			FedPolicy:        fed,
			ExchangeReserves: reserves,
		},
		Signals:        signals,
		TradePlan:      tradePlan,
		PortfolioValue: portfolioValue,
		AsOf:           asOf,
		Timestamp:      time.Now(),
	}
}

func (f *FedPivot) HealthCheck(ctx context.Context) models.ScenarioHealth {
	providers := map[string]models.ProviderHealth{
		"fred":    f.macro.HealthCheck(ctx),
		"crypto":  f.market.HealthCheck(ctx),
		"onchain": f.onchain.HealthCheck(ctx),
	}
	return reduceProviderHealth(fedPivotID, providers)
}
