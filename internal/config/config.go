package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// PositionLimits bound position sizing for one risk profile.
type PositionLimits struct {
	Base float64 `yaml:"base"`
	Max  float64 `yaml:"max"`
}

// ReserveThresholds classify exchange reserve levels (in BTC).
type ReserveThresholds struct {
	CriticalLow  float64 `yaml:"critical_low"`
	Low          float64 `yaml:"low"`
	High         float64 `yaml:"high"`
	CriticalHigh float64 `yaml:"critical_high"`
}

// M2Thresholds classify year-over-year M2 growth (as decimals).
type M2Thresholds struct {
	ExtremeExpansion float64 `yaml:"extreme_expansion"`
	StrongExpansion  float64 `yaml:"strong_expansion"`
	NormalExpansion  float64 `yaml:"normal_expansion"`
	Contraction      float64 `yaml:"contraction"`
}

// FedRateThresholds classify the fed funds rate level (in percent).
type FedRateThresholds struct {
	UltraLow float64 `yaml:"ultra_low"`
	Low      float64 `yaml:"low"`
	Neutral  float64 `yaml:"neutral"`
}

// Settings is the immutable configuration passed into the scoring engine.
// Build it once with Load (or Default in tests) and hand it around by pointer;
// nothing mutates it after construction.
type Settings struct {
	FREDAPIKey      string `yaml:"-"`
	CoinGeckoAPIKey string `yaml:"-"`
	GlassnodeAPIKey string `yaml:"-"`

	RiskProfile           string  `yaml:"risk_profile"`
	DefaultPortfolioValue float64 `yaml:"default_portfolio_value"`
	LogLevel              string  `yaml:"log_level"`
	RequestTimeout        int     `yaml:"request_timeout"` // seconds

	PositionLimits   map[string]PositionLimits `yaml:"position_limits"`
	SignalThresholds map[int]float64           `yaml:"signal_thresholds"`

	ExchangeReserves ReserveThresholds `yaml:"exchange_reserve_thresholds"`
	M2Growth         M2Thresholds      `yaml:"m2_thresholds"`
	FedRate          FedRateThresholds `yaml:"fed_rate_thresholds"`
}

// Default returns the built-in settings, matching the documented model
// parameters. Tests and the YAML loader both start from here.
func Default() *Settings {
	return &Settings{
		RiskProfile:           "moderate",
		DefaultPortfolioValue: 100000,
		LogLevel:              "info",
		RequestTimeout:        30,
		PositionLimits: map[string]PositionLimits{
			"conservative": {Base: 0.03, Max: 0.10},
			"moderate":     {Base: 0.05, Max: 0.15},
			"aggressive":   {Base: 0.10, Max: 0.25},
		},
		SignalThresholds: map[int]float64{
			1: 0.70, // fed pivot + exchange reserves
			2: 0.75, // m2 expansion + miner capitulation
		},
		ExchangeReserves: ReserveThresholds{
			CriticalLow:  2.35e6,
			Low:          2.5e6,
			High:         2.8e6,
			CriticalHigh: 3.0e6,
		},
		M2Growth: M2Thresholds{
			ExtremeExpansion: 0.15,
			StrongExpansion:  0.10,
			NormalExpansion:  0.05,
			Contraction:      0.0,
		},
		FedRate: FedRateThresholds{
			UltraLow: 1.0,
			Low:      3.0,
			Neutral:  5.0,
		},
	}
}

// Load builds settings from defaults, an optional YAML file (CONFIG_FILE) and
// environment variables, in that order of precedence.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.FREDAPIKey = os.Getenv("FRED_API_KEY")
	cfg.CoinGeckoAPIKey = os.Getenv("COINGECKO_API_KEY")
	cfg.GlassnodeAPIKey = os.Getenv("GLASSNODE_API_KEY")
	cfg.RiskProfile = getEnvWithDefault("RISK_PROFILE", cfg.RiskProfile)
	cfg.DefaultPortfolioValue = getEnvFloatWithDefault("DEFAULT_PORTFOLIO_VALUE", cfg.DefaultPortfolioValue)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile overlays values from a YAML file. Absent keys keep their defaults.
func (s *Settings) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate checks that the settings describe a usable model configuration.
func (s *Settings) Validate() error {
	if _, ok := s.PositionLimits[s.RiskProfile]; !ok {
		return fmt.Errorf("invalid risk profile: %q", s.RiskProfile)
	}
	if s.DefaultPortfolioValue <= 0 {
		return fmt.Errorf("invalid portfolio value: %v", s.DefaultPortfolioValue)
	}
	for profile, limits := range s.PositionLimits {
		if limits.Base <= 0 || limits.Max <= 0 || limits.Base > limits.Max || limits.Max > 1.0 {
			return fmt.Errorf("invalid position limits for %q: base=%v max=%v", profile, limits.Base, limits.Max)
		}
	}
	for scenario, threshold := range s.SignalThresholds {
		if threshold <= 0 || threshold >= 1 {
			return fmt.Errorf("invalid signal threshold for scenario %d: %v", scenario, threshold)
		}
	}
	return nil
}

// GetPositionLimits returns the limits for the given risk profile, falling
// back to moderate for unknown profiles.
func (s *Settings) GetPositionLimits(riskProfile string) PositionLimits {
	profile := riskProfile
	if profile == "" {
		profile = s.RiskProfile
	}
	if limits, ok := s.PositionLimits[profile]; ok {
		return limits
	}
	return s.PositionLimits["moderate"]
}

// GetSignalThreshold returns the buy threshold for a scenario, with a 0.7
// fallback for unregistered scenario ids.
func (s *Settings) GetSignalThreshold(scenario int) float64 {
	if threshold, ok := s.SignalThresholds[scenario]; ok {
		return threshold
	}
	return 0.7
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
