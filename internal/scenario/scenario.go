// Package scenario implements the individual macro trading scenarios. Each
// scenario reads two indicator legs, normalizes them to sub-scores, combines
// them into a weighted signal and derives a staged trade plan.
package scenario

import (
	"context"
	"time"

	"github.com/Alias1177/Accumulator/internal/health"
	"github.com/Alias1177/Accumulator/models"
)

// Model is one self-contained trading scenario.
type Model interface {
	ID() int
	Name() string
	Analyze(ctx context.Context, portfolioValue float64, asOf *time.Time) models.AnalysisResult
	HealthCheck(ctx context.Context) models.ScenarioHealth
}

func reduceProviderHealth(scenarioID int, providers map[string]models.ProviderHealth) models.ScenarioHealth {
	statuses := make([]string, 0, len(providers))
	for _, p := range providers {
		statuses = append(statuses, p.Status)
	}
	return models.ScenarioHealth{
		Scenario:  scenarioID,
		Status:    health.Reduce(statuses),
		Providers: providers,
		Timestamp: time.Now(),
	}
}
