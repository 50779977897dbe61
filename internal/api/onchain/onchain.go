// Package onchain supplies exchange reserve and miner metrics. The static
// provider stands in for a Glassnode or CryptoQuant integration and returns
// representative readings so the scoring pipeline stays exercisable without
// a paid subscription.
package onchain

import (
	"context"
	"time"

	"github.com/Alias1177/Accumulator/models"
)

// StaticProvider serves fixed on-chain readings.
type StaticProvider struct{}

// NewStaticProvider returns the placeholder on-chain data source.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

// ExchangeReserves returns total BTC held on exchanges.
func (p *StaticProvider) ExchangeReserves(ctx context.Context) (float64, error) {
	return 2.35e6, nil
}

// LongTermHolderSupply returns the fraction of supply held long term.
func (p *StaticProvider) LongTermHolderSupply(ctx context.Context) (float64, error) {
	return 0.78, nil
}

// NUPL returns net unrealized profit/loss.
func (p *StaticProvider) NUPL(ctx context.Context) (float64, error) {
	return 0.15, nil
}

// HashRibbon returns the miner health indicator.
func (p *StaticProvider) HashRibbon(ctx context.Context) (models.HashRibbon, error) {
	return models.HashRibbon{
		Signal:            "neutral",
		MA30:              450e18,
		MA60:              440e18,
		Trend:             "recovering",
		MinerCapitulation: false,
	}, nil
}

// HealthCheck always reports healthy; the readings are local.
func (p *StaticProvider) HealthCheck(ctx context.Context) models.ProviderHealth {
	return models.ProviderHealth{
		Status:    models.StatusHealthy,
		Provider:  "onchain-static",
		Timestamp: time.Now(),
	}
}
