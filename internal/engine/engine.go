// Package engine orchestrates the scenario models: it runs them, ranks their
// signals and aggregates their health.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Accumulator/internal/health"
	"github.com/Alias1177/Accumulator/internal/scenario"
	"github.com/Alias1177/Accumulator/models"
)

// Engine coordinates all registered scenario models.
type Engine struct {
	order  []int
	models map[int]scenario.Model
}

// New builds an engine over the given models. Registration order determines
// iteration order everywhere results are keyed or ranked.
func New(scenarios ...scenario.Model) *Engine {
	e := &Engine{models: make(map[int]scenario.Model, len(scenarios))}
	for _, m := range scenarios {
		e.order = append(e.order, m.ID())
		e.models[m.ID()] = m
	}
	log.Info().Ints("scenarios", e.order).Msg("engine initialized")
	return e
}

// Analyze runs one scenario. Unknown scenario ids are the caller's mistake
// and return an error.
func (e *Engine) Analyze(ctx context.Context, scenarioID int, portfolioValue float64, asOf *time.Time) (models.AnalysisResult, error) {
	m, ok := e.models[scenarioID]
	if !ok {
		return models.AnalysisResult{}, fmt.Errorf("unknown scenario: %d (available: %v)", scenarioID, e.order)
	}

	log.Info().Int("scenario", scenarioID).Msg("running analysis")
	result := m.Analyze(ctx, portfolioValue, asOf)
	log.Info().
		Int("scenario", scenarioID).
		Bool("buy_signal", result.Signals.BuySignal).
		Msg("analysis complete")
	return result, nil
}

// GetAllSignals runs every scenario and keys the results by scenario id.
// A failing scenario is isolated: its slot carries an error result instead
// of aborting the sweep.
func (e *Engine) GetAllSignals(ctx context.Context, portfolioValue float64, asOf *time.Time) map[string]models.AnalysisResult {
	results := make(map[string]models.AnalysisResult, len(e.order))
	for _, id := range e.order {
		key := fmt.Sprintf("scenario_%d", id)
		result, err := e.Analyze(ctx, id, portfolioValue, asOf)
		if err != nil {
			log.Error().Err(err).Int("scenario", id).Msg("failed to get signals")
			results[key] = models.AnalysisResult{
				Scenario:  id,
				Error:     err.Error(),
				Timestamp: time.Now(),
			}
			continue
		}
		results[key] = result
	}
	return results
}

// GetStrongestSignal picks the result with the highest combined score across
// all scenarios. Errored results never win; ties keep the earlier scenario.
// When nothing scores above zero, a sentinel result is returned.
func (e *Engine) GetStrongestSignal(ctx context.Context, portfolioValue float64, asOf *time.Time) models.AnalysisResult {
	all := e.GetAllSignals(ctx, portfolioValue, asOf)

	var strongest *models.AnalysisResult
	maxScore := 0.0
	for _, id := range e.order {
		result, ok := all[fmt.Sprintf("scenario_%d", id)]
		if !ok || result.Error != "" {
			continue
		}
		if result.Signals.CombinedScore > maxScore {
			maxScore = result.Signals.CombinedScore
			r := result
			strongest = &r
		}
	}

	if strongest == nil {
		log.Warn().Msg("no valid signals found")
		return models.AnalysisResult{
			Signals: models.SignalResult{BuySignal: false, CombinedScore: 0.0},
			Error:   "No valid signals available",
		}
	}
	return *strongest
}

// HealthCheck aggregates per-scenario health into one engine-level status.
func (e *Engine) HealthCheck(ctx context.Context) models.EngineHealth {
	eh := models.EngineHealth{
		Components: make(map[string]models.ScenarioHealth, len(e.order)),
		Timestamp:  time.Now(),
	}

	statuses := make([]string, 0, len(e.order))
	for _, id := range e.order {
		sh := e.models[id].HealthCheck(ctx)
		eh.Components[fmt.Sprintf("scenario_%d", id)] = sh
		statuses = append(statuses, sh.Status)
	}
	eh.OverallStatus = health.Reduce(statuses)
	return eh
}
