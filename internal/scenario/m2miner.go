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
	m2MinerID       = 2
	m2MinerName     = "M2 Expansion + Miner Capitulation"
	m2Weight        = 0.5
	minerWeight     = 0.5
	m2HistoryMonths = 18

	// override floor: extreme M2 expansion forces a buy at a lower score
	m2OverrideFloor = 0.6
)

// M2Miner is scenario 2: rapid M2 money supply expansion combined with a
// post-capitulation miner recovery.
type M2Miner struct {
	cfg     *config.Settings
	macro   models.MacroProvider
	market  models.MarketProvider
	onchain models.OnChainProvider

	growthTable normalize.Table
	planSpec    plan.Spec
}

// NewM2Miner wires the scenario to its data providers.
func NewM2Miner(cfg *config.Settings, macro models.MacroProvider, market models.MarketProvider, onchain models.OnChainProvider) *M2Miner {
	return &M2Miner{
		cfg:         cfg,
		macro:       macro,
		market:      market,
		onchain:     onchain,
		growthTable: m2GrowthTable(cfg.M2Growth),
		planSpec: plan.Spec{
			Action:   models.ActionAccumulate,
			Strategy: "accumulate_30_days",
			Curve:    plan.SizeCurve{Floor: 1.2, Slope: 2.5},
			Tranches: []plan.Tranche{
				{Timing: "week_1", Fraction: 0.30},
				{Timing: "week_2", Fraction: 0.25},
				{Timing: "week_3", Fraction: 0.25},
				{Timing: "week_4", Fraction: 0.20},
			},
			HoldPeriod: "minimum_180_days",
			ExitConditions: []string{
				"M2 growth deceleration below 5% YoY",
				"Hash ribbon sell signal",
				"NUPL > 0.75 (euphoria)",
				"Fed aggressive tightening cycle",
			},
			Rationale: func(sig models.SignalResult) string {
				return fmt.Sprintf("M2 expansion signal (%s) with miner capitulation. Combined score: %.2f",
					sig.Strength, sig.CombinedScore)
			},
		},
	}
}

func (m *M2Miner) ID() int      { return m2MinerID }
func (m *M2Miner) Name() string { return m2MinerName }

// m2Data collects the money supply leg: YoY growth, its level classification
// and a growth acceleration estimate from the observation history.
func (m *M2Miner) m2Data(ctx context.Context) *models.M2Snapshot {
	snap := &models.M2Snapshot{Timestamp: time.Now()}

	growth, err := m.macro.M2GrowthRate(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get m2 growth rate")
		snap.Error = err.Error()
		return snap
	}
	snap.GrowthRate = models.Float(growth)

	if obs, err := m.macro.M2Observations(ctx, m2HistoryMonths); err == nil {
		if accel, ok := m2Acceleration(obs); ok {
			snap.Acceleration = models.Float(accel)
		}
	} else {
		log.Warn().Err(err).Msg("m2 observations unavailable, skipping acceleration")
	}

	sub := normalize.Normalize(growth, m.growthTable)
	snap.GrowthLevel = sub.Label
	snap.GrowthScore = sub.Score
	return snap
}

// m2Acceleration estimates the change in YoY growth over the last quarter.
// Needs two years of monthly observations; returns false otherwise.
func m2Acceleration(obs []models.Observation) (float64, bool) {
	if len(obs) < 24 {
		return 0, false
	}

	var recent []float64
	for i := 0; i < 3; i++ {
		if len(obs) > 13+i {
			current := obs[len(obs)-1-i].Value
			yearAgo := obs[len(obs)-13-i].Value
			if yearAgo != 0 {
				recent = append(recent, (current-yearAgo)/yearAgo)
			}
		}
	}
	if len(recent) < 2 {
		return 0, false
	}
	return recent[0] - recent[len(recent)-1], true
}

// minerData collects the hash ribbon leg with its capitulation bonus already
// folded into the ribbon score.
func (m *M2Miner) minerData(ctx context.Context) *models.MinerSnapshot {
	snap := &models.MinerSnapshot{Timestamp: time.Now()}

	ribbon, err := m.onchain.HashRibbon(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hash ribbon data")
		snap.Error = err.Error()
		return snap
	}

	var score float64
	var strength string
	switch ribbon.Signal {
	case "buy":
		score, strength = 1.0, "strong_buy"
	case "sell":
		score, strength = 0.0, "strong_sell"
	default:
		score, strength = 0.4, "neutral"
	}
	if ribbon.MinerCapitulation {
		score = min(1.0, score+0.3)
	}

	snap.HashRibbonSignal = ribbon.Signal
	snap.MinerCapitulation = ribbon.MinerCapitulation
	snap.RibbonScore = score
	snap.SignalStrength = strength
	snap.MA30 = ribbon.MA30
	snap.MA60 = ribbon.MA60
	snap.Trend = ribbon.Trend
	return snap
}

// m2Score combines the growth level score with an acceleration bonus. The
// bonus is bounded so a wild acceleration reading cannot dominate the level.
func m2Score(snap *models.M2Snapshot) float64 {
	if snap.GrowthRate == nil {
		return 0.0
	}

	bonus := 0.0
	if snap.Acceleration != nil {
		bonus = normalize.Clamp(*snap.Acceleration*5, -0.2, 0.2)
	}
	return normalize.Clamp01(snap.GrowthScore + bonus)
}

func (m *M2Miner) signals(m2 *models.M2Snapshot, miner *models.MinerSnapshot) models.SignalResult {
	macroScore := m2Score(m2)
	minerScore := miner.RibbonScore

	combined := normalize.Clamp01(macroScore*m2Weight + minerScore*minerWeight)
	threshold := m.cfg.GetSignalThreshold(m2MinerID)

	override := func(combined float64) (bool, string) {
		if m2.GrowthLevel == "extreme_expansion" && combined >= m2OverrideFloor {
			return true, models.StrengthM2Override
		}
		return false, ""
	}
	buy, strength := classify.Evaluate(combined, threshold, override)

	return models.SignalResult{
		MacroScore:    macroScore,
		SupplyScore:   minerScore,
		CombinedScore: combined,
		BuySignal:     buy,
		Strength:      strength,
		Threshold:     threshold,
	}
}

// Analyze runs the full scenario cycle. It never returns an error; degraded
// inputs degrade the score.
func (m *M2Miner) Analyze(ctx context.Context, portfolioValue float64, asOf *time.Time) models.AnalysisResult {
	log.Info().Msg("running m2 expansion + miner capitulation analysis")

	m2 := m.m2Data(ctx)
	miner := m.minerData(ctx)
	signals := m.signals(m2, miner)

	limits := m.cfg.GetPositionLimits(m.cfg.RiskProfile)
	tradePlan := plan.Generate(signals, portfolioValue, limits, m.planSpec)

	log.Info().
		Bool("buy_signal", signals.BuySignal).
		Float64("score", signals.CombinedScore).
		Msg("m2 miner analysis complete")

	return models.AnalysisResult{
		Scenario:     m2MinerID,
		ScenarioName: m2MinerName,
		Data: models.ScenarioData{
			M2MoneySupply: m2,
			MinerMetrics:  miner,
		},
		Signals:        signals,
		TradePlan:      tradePlan,
		PortfolioValue: portfolioValue,
		AsOf:           asOf,
		Timestamp:      time.Now(),
	}
}

func (m *M2Miner) HealthCheck(ctx context.Context) models.ScenarioHealth {
	providers := map[string]models.ProviderHealth{
		"fred":    m.macro.HealthCheck(ctx),
		"crypto":  m.market.HealthCheck(ctx),
		"onchain": m.onchain.HealthCheck(ctx),
	}
	return reduceProviderHealth(m2MinerID, providers)
}
