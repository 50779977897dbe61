package models

import "context"

// MacroProvider supplies monetary policy and money supply series.
type MacroProvider interface {
	CurrentFedRate(ctx context.Context) (float64, error)
	M2GrowthRate(ctx context.Context) (float64, error)
	M2Observations(ctx context.Context, monthsBack int) ([]Observation, error)
	DetectPivot(ctx context.Context, lookbackDays int) (PivotInfo, error)
	HealthCheck(ctx context.Context) ProviderHealth
}

// MarketProvider supplies spot market data.
type MarketProvider interface {
	BitcoinPrice(ctx context.Context) (float64, error)
	MarketData(ctx context.Context) (MarketData, error)
	HealthCheck(ctx context.Context) ProviderHealth
}

// OnChainProvider supplies network and supply metrics.
type OnChainProvider interface {
	ExchangeReserves(ctx context.Context) (float64, error)
	LongTermHolderSupply(ctx context.Context) (float64, error)
	NUPL(ctx context.Context) (float64, error)
	HashRibbon(ctx context.Context) (HashRibbon, error)
	HealthCheck(ctx context.Context) ProviderHealth
}

// Notifier delivers buy-signal alerts to an external channel.
type Notifier interface {
	Alert(ctx context.Context, result *AnalysisResult) error
}

// SignalStore persists analysis results outside the scoring core.
type SignalStore interface {
	SaveResult(ctx context.Context, result *AnalysisResult) error
	RecentResults(ctx context.Context, limit int) ([]SignalRecord, error)
}
