package scenario

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Alias1177/Accumulator/internal/config"
	"github.com/Alias1177/Accumulator/models"
)

type fakeMacro struct {
	rate     float64
	rateErr  error
	m2Growth float64
	m2Err    error
	obs      []models.Observation
	obsErr   error
	pivot    models.PivotInfo
	pivotErr error
	health   string
}

func (f *fakeMacro) CurrentFedRate(ctx context.Context) (float64, error) {
	return f.rate, f.rateErr
}

func (f *fakeMacro) M2GrowthRate(ctx context.Context) (float64, error) {
	return f.m2Growth, f.m2Err
}

func (f *fakeMacro) M2Observations(ctx context.Context, monthsBack int) ([]models.Observation, error) {
	return f.obs, f.obsErr
}

func (f *fakeMacro) DetectPivot(ctx context.Context, lookbackDays int) (models.PivotInfo, error) {
	return f.pivot, f.pivotErr
}

func (f *fakeMacro) HealthCheck(ctx context.Context) models.ProviderHealth {
	return models.ProviderHealth{Status: f.health, Provider: "fred", Timestamp: time.Now()}
}

type fakeMarket struct {
	price  float64
	health string
}

func (f *fakeMarket) BitcoinPrice(ctx context.Context) (float64, error) { return f.price, nil }

func (f *fakeMarket) MarketData(ctx context.Context) (models.MarketData, error) {
	return models.MarketData{PriceUSD: f.price}, nil
}

func (f *fakeMarket) HealthCheck(ctx context.Context) models.ProviderHealth {
	return models.ProviderHealth{Status: f.health, Provider: "coingecko", Timestamp: time.Now()}
}

type fakeOnChain struct {
	reserves    float64
	reservesErr error
	ribbon      models.HashRibbon
	ribbonErr   error
	health      string
}

func (f *fakeOnChain) ExchangeReserves(ctx context.Context) (float64, error) {
	return f.reserves, f.reservesErr
}

func (f *fakeOnChain) LongTermHolderSupply(ctx context.Context) (float64, error) {
	return 0.78, nil
}

func (f *fakeOnChain) NUPL(ctx context.Context) (float64, error) { return 0.15, nil }

func (f *fakeOnChain) HashRibbon(ctx context.Context) (models.HashRibbon, error) {
	return f.ribbon, f.ribbonErr
}

func (f *fakeOnChain) HealthCheck(ctx context.Context) models.ProviderHealth {
	return models.ProviderHealth{Status: f.health, Provider: "onchain", Timestamp: time.Now()}
}

func healthyMarket() *fakeMarket { return &fakeMarket{price: 50000, health: models.StatusHealthy} }

func TestFedPivotStrongSignal(t *testing.T) {
	cfg := config.Default()
	macro := &fakeMacro{
		rate: 0.5,
		pivot: models.PivotInfo{
			PivotDetected: true,
			Direction:     models.DirectionCutting,
			Magnitude:     1.0,
			TrendChange:   -1.0,
		},
		m2Growth: 0.08,
		health:   models.StatusHealthy,
	}
	onchain := &fakeOnChain{reserves: 2.3e6, health: models.StatusHealthy}

	model := NewFedPivot(cfg, macro, healthyMarket(), onchain)
	result := model.Analyze(context.Background(), 100000, nil)

	// ultra-low rate base 0.8, cutting pivot multiplier 2.0, capped at 1.0;
	// critical-low reserves score 1.0
	if math.Abs(result.Signals.MacroScore-1.0) > 1e-9 {
		t.Errorf("macro score = %v, want 1.0", result.Signals.MacroScore)
	}
	if math.Abs(result.Signals.SupplyScore-1.0) > 1e-9 {
		t.Errorf("supply score = %v, want 1.0", result.Signals.SupplyScore)
	}
	if math.Abs(result.Signals.CombinedScore-1.0) > 1e-9 {
		t.Errorf("combined score = %v, want 1.0", result.Signals.CombinedScore)
	}
	if !result.Signals.BuySignal {
		t.Error("expected buy signal")
	}
	if result.Signals.Strength != models.StrengthVeryStrong {
		t.Errorf("strength = %q, want %q", result.Signals.Strength, models.StrengthVeryStrong)
	}
	if result.TradePlan.Action != models.ActionBuy {
		t.Errorf("action = %q, want %q", result.TradePlan.Action, models.ActionBuy)
	}
	// max score hits the moderate cap
	if math.Abs(result.TradePlan.PositionSize-0.15) > 1e-9 {
		t.Errorf("position size = %v, want 0.15", result.TradePlan.PositionSize)
	}
	if result.Data.FedPolicy == nil || result.Data.ExchangeReserves == nil {
		t.Fatal("scenario data legs not populated")
	}
	if result.Data.ExchangeReserves.ReserveLevel != "critical_low" {
		t.Errorf("reserve level = %q, want critical_low", result.Data.ExchangeReserves.ReserveLevel)
	}
}

func TestFedPivotMissingRateNeverBuys(t *testing.T) {
	cfg := config.Default()
	macro := &fakeMacro{rateErr: errors.New("fred unavailable"), health: models.StatusError}
	onchain := &fakeOnChain{reserves: 2.0e6, health: models.StatusHealthy}

	model := NewFedPivot(cfg, macro, healthyMarket(), onchain)
	result := model.Analyze(context.Background(), 100000, nil)

	if result.Signals.MacroScore != 0 {
		t.Errorf("macro score = %v, want 0 with missing rate", result.Signals.MacroScore)
	}
	// supply leg alone tops out at 0.4, below every threshold
	if result.Signals.CombinedScore > 0.4+1e-9 {
		t.Errorf("combined score = %v, want <= 0.4", result.Signals.CombinedScore)
	}
	if result.Signals.BuySignal {
		t.Error("missing fed rate must not produce a buy signal")
	}
	if result.TradePlan.Action != models.ActionNone {
		t.Errorf("action = %q, want %q", result.TradePlan.Action, models.ActionNone)
	}
	if result.Data.FedPolicy.Error == "" {
		t.Error("fed policy snapshot should carry the provider error")
	}
}

func TestFedPivotHikingSuppressesScore(t *testing.T) {
	cfg := config.Default()
	macro := &fakeMacro{
		rate: 0.5,
		pivot: models.PivotInfo{
			PivotDetected: true,
			Direction:     models.DirectionHiking,
			Magnitude:     0.75,
		},
		health: models.StatusHealthy,
	}
	onchain := &fakeOnChain{reserves: 2.3e6, health: models.StatusHealthy}

	model := NewFedPivot(cfg, macro, healthyMarket(), onchain)
	result := model.Analyze(context.Background(), 100000, nil)

	// base 0.8 * hiking multiplier 0.3 = 0.24
	if math.Abs(result.Signals.MacroScore-0.24) > 1e-9 {
		t.Errorf("macro score = %v, want 0.24", result.Signals.MacroScore)
	}
	if result.Signals.BuySignal {
		t.Error("hiking pivot should suppress the buy signal")
	}
}

func TestFedPivotOngoingCutsWithoutPivot(t *testing.T) {
	cfg := config.Default()
	macro := &fakeMacro{
		rate: 2.0,
		pivot: models.PivotInfo{
			PivotDetected: false,
			Direction:     models.DirectionCutting,
			TrendChange:   -0.3,
		},
		health: models.StatusHealthy,
	}
	onchain := &fakeOnChain{reserves: 2.6e6, health: models.StatusHealthy}

	model := NewFedPivot(cfg, macro, healthyMarket(), onchain)
	result := model.Analyze(context.Background(), 100000, nil)

	// low-band base 0.5 * ongoing-cuts multiplier 1.2 = 0.6
	if math.Abs(result.Signals.MacroScore-0.6) > 1e-9 {
		t.Errorf("macro score = %v, want 0.6", result.Signals.MacroScore)
	}
}

func TestFedPivotIdempotent(t *testing.T) {
	cfg := config.Default()
	macro := &fakeMacro{
		rate:   0.5,
		pivot:  models.PivotInfo{PivotDetected: true, Direction: models.DirectionCutting, Magnitude: 1.0},
		health: models.StatusHealthy,
	}
	onchain := &fakeOnChain{reserves: 2.3e6, health: models.StatusHealthy}
	model := NewFedPivot(cfg, macro, healthyMarket(), onchain)

	first := model.Analyze(context.Background(), 100000, nil)
	second := model.Analyze(context.Background(), 100000, nil)

	if first.Signals != second.Signals {
		t.Errorf("signals differ across identical runs: %+v vs %+v", first.Signals, second.Signals)
	}
	if first.TradePlan.PositionSize != second.TradePlan.PositionSize {
		t.Error("position size differs across identical runs")
	}
}

func TestM2MinerStrongSignal(t *testing.T) {
	cfg := config.Default()
	macro := &fakeMacro{m2Growth: 0.16, health: models.StatusHealthy}
	onchain := &fakeOnChain{
		ribbon: models.HashRibbon{Signal: "neutral", MinerCapitulation: true, Trend: "recovering"},
		health: models.StatusHealthy,
	}

	model := NewM2Miner(cfg, macro, healthyMarket(), onchain)
	result := model.Analyze(context.Background(), 100000, nil)

	// extreme expansion 1.0; neutral ribbon 0.4 + capitulation bonus 0.3
	if math.Abs(result.Signals.MacroScore-1.0) > 1e-9 {
		t.Errorf("macro score = %v, want 1.0", result.Signals.MacroScore)
	}
	if math.Abs(result.Signals.SupplyScore-0.7) > 1e-9 {
		t.Errorf("supply score = %v, want 0.7", result.Signals.SupplyScore)
	}
	if math.Abs(result.Signals.CombinedScore-0.85) > 1e-9 {
		t.Errorf("combined score = %v, want 0.85", result.Signals.CombinedScore)
	}
	if !result.Signals.BuySignal {
		t.Error("expected buy signal")
	}
	if result.TradePlan.Action != models.ActionAccumulate {
		t.Errorf("action = %q, want %q", result.TradePlan.Action, models.ActionAccumulate)
	}
	if result.TradePlan.EntryStrategy != "accumulate_30_days" {
		t.Errorf("entry strategy = %q", result.TradePlan.EntryStrategy)
	}
}

func TestM2MinerOverride(t *testing.T) {
	cfg := config.Default()
	// extreme expansion 1.0 * 0.5 + bare neutral ribbon 0.4 * 0.5 = 0.7:
	// below the 0.75 threshold but above the override floor
	macro := &fakeMacro{m2Growth: 0.16, health: models.StatusHealthy}
	onchain := &fakeOnChain{
		ribbon: models.HashRibbon{Signal: "neutral"},
		health: models.StatusHealthy,
	}

	model := NewM2Miner(cfg, macro, healthyMarket(), onchain)
	result := model.Analyze(context.Background(), 100000, nil)

	if math.Abs(result.Signals.CombinedScore-0.7) > 1e-9 {
		t.Fatalf("combined score = %v, want 0.7", result.Signals.CombinedScore)
	}
	if !result.Signals.BuySignal {
		t.Error("extreme expansion override should force a buy")
	}
	if result.Signals.Strength != models.StrengthM2Override {
		t.Errorf("strength = %q, want %q", result.Signals.Strength, models.StrengthM2Override)
	}
}

func TestM2MinerOverrideFloorHolds(t *testing.T) {
	cfg := config.Default()
	// extreme expansion but sell-signal ribbon: combined 0.5 stays below the
	// override floor
	macro := &fakeMacro{m2Growth: 0.16, health: models.StatusHealthy}
	onchain := &fakeOnChain{
		ribbon: models.HashRibbon{Signal: "sell"},
		health: models.StatusHealthy,
	}

	model := NewM2Miner(cfg, macro, healthyMarket(), onchain)
	result := model.Analyze(context.Background(), 100000, nil)

	if math.Abs(result.Signals.CombinedScore-0.5) > 1e-9 {
		t.Fatalf("combined score = %v, want 0.5", result.Signals.CombinedScore)
	}
	if result.Signals.BuySignal {
		t.Error("override must not fire below its floor")
	}
}

func TestM2MinerMissingGrowthNeverBuys(t *testing.T) {
	cfg := config.Default()
	macro := &fakeMacro{m2Err: errors.New("series unavailable"), health: models.StatusError}
	onchain := &fakeOnChain{
		ribbon: models.HashRibbon{Signal: "buy", MinerCapitulation: true},
		health: models.StatusHealthy,
	}

	model := NewM2Miner(cfg, macro, healthyMarket(), onchain)
	result := model.Analyze(context.Background(), 100000, nil)

	if result.Signals.MacroScore != 0 {
		t.Errorf("macro score = %v, want 0 with missing growth", result.Signals.MacroScore)
	}
	if result.Signals.BuySignal {
		t.Error("missing m2 growth must not produce a buy signal")
	}
}

func TestM2AccelerationFromObservations(t *testing.T) {
	// 26 monthly observations with growth speeding up at the tail
	obs := make([]models.Observation, 26)
	base := 20000.0
	for i := range obs {
		obs[i] = models.Observation{
			Date:  time.Date(2024, time.Month(1+i%12), 1, 0, 0, 0, 0, time.UTC),
			Value: base + float64(i)*100,
		}
	}
	obs[25].Value = base + 2500*1.5

	accel, ok := m2Acceleration(obs)
	if !ok {
		t.Fatal("expected acceleration with 26 observations")
	}
	if accel <= 0 {
		t.Errorf("acceleration = %v, want positive for speeding growth", accel)
	}
}

func TestM2AccelerationNeedsTwoYears(t *testing.T) {
	obs := make([]models.Observation, 18)
	for i := range obs {
		obs[i] = models.Observation{Value: 20000 + float64(i)*100}
	}
	if _, ok := m2Acceleration(obs); ok {
		t.Error("acceleration should require at least 24 observations")
	}
}

func TestScenarioScoreBounds(t *testing.T) {
	cfg := config.Default()
	cases := []struct {
		rate     float64
		reserves float64
	}{
		{-1.0, 0}, {0, 1e6}, {0.5, 2.3e6}, {10.0, 5e6}, {100, 1e9},
	}
	for _, tc := range cases {
		macro := &fakeMacro{
			rate:   tc.rate,
			pivot:  models.PivotInfo{PivotDetected: true, Direction: models.DirectionCutting, Magnitude: 5},
			health: models.StatusHealthy,
		}
		onchain := &fakeOnChain{reserves: tc.reserves, health: models.StatusHealthy}
		result := NewFedPivot(cfg, macro, healthyMarket(), onchain).Analyze(context.Background(), 100000, nil)

		s := result.Signals
		for name, v := range map[string]float64{
			"macro": s.MacroScore, "supply": s.SupplyScore, "combined": s.CombinedScore,
		} {
			if v < 0 || v > 1 {
				t.Errorf("rate=%v reserves=%v: %s score %v out of [0,1]", tc.rate, tc.reserves, name, v)
			}
		}
	}
}

func TestHealthCheckAggregation(t *testing.T) {
	cfg := config.Default()
	macro := &fakeMacro{health: models.StatusHealthy}
	onchain := &fakeOnChain{health: models.StatusDegraded}

	model := NewFedPivot(cfg, macro, healthyMarket(), onchain)
	h := model.HealthCheck(context.Background())

	if h.Status != models.StatusDegraded {
		t.Errorf("status = %q, want %q", h.Status, models.StatusDegraded)
	}
	if len(h.Providers) != 3 {
		t.Errorf("providers = %d, want 3", len(h.Providers))
	}

	onchain.health = models.StatusError
	if h := model.HealthCheck(context.Background()); h.Status != models.StatusError {
		t.Errorf("status = %q, want %q", h.Status, models.StatusError)
	}
}
