// Package trading holds the execution guardrails: configuration validation
// and the circuit breakers that gate automated order flow.
package trading

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Config describes an exchange connection and its safety limits.
type Config struct {
	Exchange  string
	APIKey    string
	APISecret string
	Testnet   bool
	DryRun    bool

	MaxPositionSize   float64
	MinOrderSizeBTC   float64
	MaxDailyTrades    int
	MaxDailyLoss      float64
	SlippageTolerance float64
}

// DefaultConfig returns paper-trading defaults. Real execution has to be
// opted into explicitly.
func DefaultConfig(exchange, apiKey, apiSecret string) Config {
	return Config{
		Exchange:          exchange,
		APIKey:            apiKey,
		APISecret:         apiSecret,
		Testnet:           true,
		DryRun:            true,
		MaxPositionSize:   0.10,
		MinOrderSizeBTC:   0.001,
		MaxDailyTrades:    10,
		MaxDailyLoss:      0.02,
		SlippageTolerance: 0.02,
	}
}

var supportedExchanges = map[string]bool{
	"binance":  true,
	"coinbase": true,
	"kraken":   true,
}

// Validate returns every problem with the configuration. Live-trading flags
// are reported as warnings in the same list so callers see them before
// connecting.
func (c Config) Validate() []string {
	var errs []string

	if c.APIKey == "" {
		errs = append(errs, "API key is required")
	}
	if c.APISecret == "" {
		errs = append(errs, "API secret is required")
	}
	if !supportedExchanges[c.Exchange] {
		errs = append(errs, fmt.Sprintf("Unsupported exchange: %s", c.Exchange))
	}
	if c.MaxPositionSize <= 0 || c.MaxPositionSize > 1.0 {
		errs = append(errs, "max_position_size must be between 0 and 1.0")
	}
	if c.MinOrderSizeBTC <= 0 {
		errs = append(errs, "min_order_size_btc must be positive")
	}
	if c.MaxDailyLoss <= 0 || c.MaxDailyLoss > 1.0 {
		errs = append(errs, "max_daily_loss must be between 0 and 1.0")
	}
	if c.SlippageTolerance < 0 || c.SlippageTolerance > 0.5 {
		errs = append(errs, "slippage_tolerance must be between 0 and 0.5")
	}
	if !c.Testnet {
		errs = append(errs, "WARNING: testnet=false means real money trading!")
	}
	if !c.DryRun {
		errs = append(errs, "WARNING: dry_run=false means real order execution!")
	}

	return errs
}

// CheckResult is the outcome of a safety evaluation.
type CheckResult struct {
	SafeToTrade bool
	Reasons     []string
	Warnings    []string
}

// SafetyManager tracks daily loss and loss streaks and trips the circuit
// breaker before the next trade goes out.
type SafetyManager struct {
	DailyLossLimit      float64
	ConsecutiveLossStop int
	PriceMoveThreshold  float64

	mu                sync.Mutex
	dailyPnL          float64
	tradesToday       int
	consecutiveLosses int
	lastPriceCheck    float64
}

// NewSafetyManager builds a manager with the default circuit breaker limits.
func NewSafetyManager() *SafetyManager {
	return &SafetyManager{
		DailyLossLimit:      0.02,
		ConsecutiveLossStop: 3,
		PriceMoveThreshold:  0.10,
	}
}

// Check evaluates all circuit breakers against the current portfolio value
// and BTC price. Unusual price movements warn but do not block.
func (s *SafetyManager) Check(portfolioValue, btcPrice float64) CheckResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := CheckResult{SafeToTrade: true}

	if portfolioValue > 0 {
		dailyLossPct := abs(s.dailyPnL) / portfolioValue
		if dailyLossPct >= s.DailyLossLimit {
			result.SafeToTrade = false
			result.Reasons = append(result.Reasons, fmt.Sprintf("Daily loss limit exceeded: %.2f%%", dailyLossPct*100))
		}
	}

	if s.consecutiveLosses >= s.ConsecutiveLossStop {
		result.SafeToTrade = false
		result.Reasons = append(result.Reasons, fmt.Sprintf("Consecutive loss limit exceeded: %d", s.consecutiveLosses))
	}

	if s.lastPriceCheck > 0 {
		priceChange := abs(btcPrice-s.lastPriceCheck) / s.lastPriceCheck
		if priceChange >= s.PriceMoveThreshold {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Unusual price movement detected: %.2f%%", priceChange*100))
		}
	}
	s.lastPriceCheck = btcPrice

	return result
}

// RecordTrade updates the loss tracking after a trade settles.
func (s *SafetyManager) RecordTrade(pnl float64, profitable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dailyPnL += pnl
	s.tradesToday++
	if profitable {
		s.consecutiveLosses = 0
	} else {
		s.consecutiveLosses++
	}

	log.Info().
		Float64("pnl", pnl).
		Float64("daily_pnl", s.dailyPnL).
		Int("consecutive_losses", s.consecutiveLosses).
		Msg("trade recorded")
}

// ResetDaily clears the daily counters; call at the start of each day.
func (s *SafetyManager) ResetDaily() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dailyPnL = 0
	s.tradesToday = 0
	log.Info().Msg("daily safety counters reset")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
