package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Accumulator/internal/api/coingecko"
	"github.com/Alias1177/Accumulator/internal/api/fred"
	"github.com/Alias1177/Accumulator/internal/api/onchain"
	"github.com/Alias1177/Accumulator/internal/config"
	"github.com/Alias1177/Accumulator/internal/engine"
	platformhttp "github.com/Alias1177/Accumulator/internal/platform/http"
	"github.com/Alias1177/Accumulator/internal/scenario"
	"github.com/Alias1177/Accumulator/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	httpClient := platformhttp.NewClient(platformhttp.ClientOptions{
		Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
	})
	macro := fred.NewClient(cfg.FREDAPIKey, httpClient)
	market := coingecko.NewClient(cfg.CoinGeckoAPIKey, httpClient)
	chain := onchain.NewStaticProvider()

	eng := engine.New(
		scenario.NewFedPivot(cfg, macro, market, chain),
		scenario.NewM2Miner(cfg, macro, market, chain),
	)

	ctx := context.Background()
	portfolioValue := cfg.DefaultPortfolioValue

	fmt.Printf("Bitcoin Macro Signal Analysis\n")
	fmt.Printf("Portfolio value: $%.2f, risk profile: %s\n\n", portfolioValue, cfg.RiskProfile)

	all := eng.GetAllSignals(ctx, portfolioValue, nil)
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		result := all[key]
		if result.Error != "" {
			fmt.Printf("%s: ERROR - %s\n", key, result.Error)
			continue
		}
		printResult(result)
	}

	strongest := eng.GetStrongestSignal(ctx, portfolioValue, nil)
	fmt.Printf("===== STRONGEST SIGNAL =====\n")
	if strongest.Error != "" {
		fmt.Printf("%s\n\n", strongest.Error)
	} else {
		fmt.Printf("%s (score %.3f)\n\n", strongest.ScenarioName, strongest.Signals.CombinedScore)
	}

	h := eng.HealthCheck(ctx)
	fmt.Printf("===== HEALTH =====\n")
	fmt.Printf("Overall: %s\n", h.OverallStatus)
	for name, component := range h.Components {
		fmt.Printf("  %s: %s\n", name, component.Status)
	}
}

func printResult(result models.AnalysisResult) {
	signals := result.Signals
	status := "Monitor"
	if signals.BuySignal {
		status = "BUY SIGNAL"
	}

	fmt.Printf("===== %s =====\n", result.ScenarioName)
	fmt.Printf("Status: %s\n", status)
	fmt.Printf("Macro score: %.3f, supply score: %.3f\n", signals.MacroScore, signals.SupplyScore)
	fmt.Printf("Combined score: %.3f (threshold %.2f, strength %s)\n",
		signals.CombinedScore, signals.Threshold, signals.Strength)

	tp := result.TradePlan
	if tp.Action == models.ActionNone {
		fmt.Printf("Action: %s (%s)\n\n", tp.Action, tp.Reason)
		return
	}

	fmt.Printf("Action: %s via %s\n", tp.Action, tp.EntryStrategy)
	fmt.Printf("Position: %.1f%% ($%.2f), hold %s\n", tp.PositionSize*100, tp.PositionValue, tp.HoldPeriod)
	for _, tranche := range tp.EntryPlan {
		fmt.Printf("  %-10s %4.0f%%  $%.2f\n", tranche.Timing, tranche.Fraction*100, tranche.Value)
	}
	fmt.Printf("Rationale: %s\n\n", tp.Rationale)
}
