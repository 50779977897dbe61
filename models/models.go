package models

import (
	"time"
)

// Risk profiles for position sizing.
const (
	RiskConservative = "conservative"
	RiskModerate     = "moderate"
	RiskAggressive   = "aggressive"
)

// Policy trend directions reported by the macro provider.
const (
	DirectionCutting = "cutting"
	DirectionHiking  = "hiking"
	DirectionNeutral = "neutral"
)

// Signal strength tiers.
const (
	StrengthWeak       = "weak"
	StrengthModerate   = "moderate"
	StrengthStrong     = "strong"
	StrengthVeryStrong = "very_strong"
	StrengthM2Override = "strong_m2_override"
)

// Trade plan actions.
const (
	ActionNone       = "no_action"
	ActionBuy        = "buy"
	ActionAccumulate = "accumulate"
)

// Provider and component health statuses.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
	StatusError    = "error"
	StatusUnknown  = "unknown"
)

// Observation is a single dated value from an economic time series.
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// PivotInfo describes a detected (or absent) policy pivot.
type PivotInfo struct {
	PivotDetected bool    `json:"pivot_detected"`
	Direction     string  `json:"direction"`
	Magnitude     float64 `json:"magnitude"`
	CurrentRate   float64 `json:"current_rate"`
	TrendChange   float64 `json:"trend_change"`
	Reason        string  `json:"reason,omitempty"`
}

// HashRibbon is the raw miner-health reading from the on-chain provider.
type HashRibbon struct {
	Signal            string  `json:"signal"` // buy, sell, neutral
	MA30              float64 `json:"ma_30"`
	MA60              float64 `json:"ma_60"`
	Trend             string  `json:"trend"`
	MinerCapitulation bool    `json:"miner_capitulation"`
}

// MarketData holds spot market metrics for Bitcoin.
type MarketData struct {
	PriceUSD          float64 `json:"price_usd"`
	MarketCap         float64 `json:"market_cap"`
	Volume24h         float64 `json:"volume_24h"`
	PriceChange24h    float64 `json:"price_change_24h"`
	PriceChange7d     float64 `json:"price_change_7d"`
	PriceChange30d    float64 `json:"price_change_30d"`
	CirculatingSupply float64 `json:"circulating_supply"`
}

// FedPolicySnapshot is the macro leg input for the fed-pivot scenario.
// A nil FedFundsRate means the reading was unavailable; downstream scoring
// treats that as a zero sub-score, never as a failure.
type FedPolicySnapshot struct {
	FedFundsRate   *float64  `json:"fed_funds_rate"`
	PivotDetected  bool      `json:"pivot_detected"`
	PivotDirection string    `json:"pivot_direction"`
	PivotMagnitude float64   `json:"pivot_magnitude"`
	TrendChange    float64   `json:"trend_change"`
	M2GrowthRate   *float64  `json:"m2_growth_rate,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Error          string    `json:"error,omitempty"`
}

// ReserveSnapshot is the supply leg input for the fed-pivot scenario.
type ReserveSnapshot struct {
	ExchangeReserves *float64  `json:"exchange_reserves"`
	ReserveLevel     string    `json:"reserve_level,omitempty"`
	ReserveScore     float64   `json:"reserve_score"`
	Timestamp        time.Time `json:"timestamp"`
	Error            string    `json:"error,omitempty"`
}

// M2Snapshot is the macro leg input for the M2-miner scenario.
type M2Snapshot struct {
	GrowthRate   *float64  `json:"m2_growth_rate"`
	Acceleration *float64  `json:"m2_acceleration,omitempty"`
	GrowthLevel  string    `json:"growth_level,omitempty"`
	GrowthScore  float64   `json:"growth_score"`
	Timestamp    time.Time `json:"timestamp"`
	Error        string    `json:"error,omitempty"`
}

// MinerSnapshot is the supply leg input for the M2-miner scenario.
type MinerSnapshot struct {
	HashRibbonSignal  string    `json:"hash_ribbon_signal,omitempty"`
	MinerCapitulation bool      `json:"miner_capitulation"`
	RibbonScore       float64   `json:"ribbon_score"`
	SignalStrength    string    `json:"signal_strength,omitempty"`
	MA30              float64   `json:"ma_30,omitempty"`
	MA60              float64   `json:"ma_60,omitempty"`
	Trend             string    `json:"trend,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
	Error             string    `json:"error,omitempty"`
}

// ScenarioData bundles the raw readings a scenario analyzed. Only the legs
// relevant to the scenario are populated.
type ScenarioData struct {
	FedPolicy        *FedPolicySnapshot `json:"fed_policy,omitempty"`
	ExchangeReserves *ReserveSnapshot   `json:"exchange_reserves,omitempty"`
	M2MoneySupply    *M2Snapshot        `json:"m2_money_supply,omitempty"`
	MinerMetrics     *MinerSnapshot     `json:"miner_metrics,omitempty"`
}

// SignalResult is the outcome of combining a scenario's two sub-scores.
type SignalResult struct {
	MacroScore    float64 `json:"macro_score"`
	SupplyScore   float64 `json:"supply_score"`
	CombinedScore float64 `json:"combined_score"`
	BuySignal     bool    `json:"buy_signal"`
	Strength      string  `json:"signal_strength"`
	Threshold     float64 `json:"threshold"`
}

// EntryTranche is one step of a staged entry schedule.
type EntryTranche struct {
	Timing   string  `json:"timing"`
	Fraction float64 `json:"percentage"`
	Value    float64 `json:"value"`
}

// TradePlan is the staged accumulation plan derived from a signal.
type TradePlan struct {
	Action         string         `json:"action"`
	Reason         string         `json:"reason,omitempty"`
	PositionSize   float64        `json:"position_size"`
	PositionValue  float64        `json:"position_value,omitempty"`
	EntryStrategy  string         `json:"entry_strategy,omitempty"`
	EntryPlan      []EntryTranche `json:"entry_plan,omitempty"`
	Rationale      string         `json:"rationale,omitempty"`
	HoldPeriod     string         `json:"hold_period,omitempty"`
	ExitConditions []string       `json:"exit_conditions,omitempty"`
}

// AnalysisResult is the full output of one scenario analysis cycle.
type AnalysisResult struct {
	Scenario       int          `json:"scenario"`
	ScenarioName   string       `json:"scenario_name"`
	Data           ScenarioData `json:"data"`
	Signals        SignalResult `json:"signals"`
	TradePlan      TradePlan    `json:"trade_plan"`
	PortfolioValue float64      `json:"portfolio_value,omitempty"`
	AsOf           *time.Time   `json:"as_of,omitempty"`
	Timestamp      time.Time    `json:"timestamp"`
	Error          string       `json:"error,omitempty"`
}

// ProviderHealth is a single data provider's health report.
type ProviderHealth struct {
	Status    string    `json:"status"`
	Provider  string    `json:"provider,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ScenarioHealth aggregates the health of one scenario's providers.
type ScenarioHealth struct {
	Scenario  int                       `json:"scenario"`
	Status    string                    `json:"status"`
	Providers map[string]ProviderHealth `json:"providers,omitempty"`
	Error     string                    `json:"error,omitempty"`
	Timestamp time.Time                 `json:"timestamp"`
}

// EngineHealth is the whole engine's health report.
type EngineHealth struct {
	OverallStatus string                    `json:"overall_status"`
	Components    map[string]ScenarioHealth `json:"components"`
	Timestamp     time.Time                 `json:"timestamp"`
}

// SignalRecord is a persisted row of signal history.
type SignalRecord struct {
	ID            int64     `json:"id"`
	Scenario      int       `json:"scenario"`
	ScenarioName  string    `json:"scenario_name"`
	CombinedScore float64   `json:"combined_score"`
	BuySignal     bool      `json:"buy_signal"`
	Strength      string    `json:"signal_strength"`
	Action        string    `json:"action"`
	PositionSize  float64   `json:"position_size"`
	PositionValue float64   `json:"position_value"`
	CreatedAt     time.Time `json:"created_at"`
}

// Float returns a pointer to v, for optional readings.
func Float(v float64) *float64 { return &v }
