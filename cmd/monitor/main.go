package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Accumulator/internal/api/coingecko"
	"github.com/Alias1177/Accumulator/internal/api/fred"
	"github.com/Alias1177/Accumulator/internal/api/onchain"
	"github.com/Alias1177/Accumulator/internal/config"
	"github.com/Alias1177/Accumulator/internal/database"
	"github.com/Alias1177/Accumulator/internal/engine"
	"github.com/Alias1177/Accumulator/internal/metrics"
	"github.com/Alias1177/Accumulator/internal/notify"
	platformhttp "github.com/Alias1177/Accumulator/internal/platform/http"
	"github.com/Alias1177/Accumulator/internal/scenario"
	"github.com/Alias1177/Accumulator/internal/trading"
	"github.com/Alias1177/Accumulator/models"
)

type monitor struct {
	cfg    *config.Settings
	engine *engine.Engine
	market models.MarketProvider
	safety *trading.SafetyManager

	notifier models.Notifier
	store    models.SignalStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(lvl)

	httpClient := platformhttp.NewClient(platformhttp.ClientOptions{
		Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
	})
	macro := fred.NewClient(cfg.FREDAPIKey, httpClient)
	market := coingecko.NewClient(cfg.CoinGeckoAPIKey, httpClient)
	chain := onchain.NewStaticProvider()

	m := &monitor{
		cfg:    cfg,
		market: market,
		safety: trading.NewSafetyManager(),
		engine: engine.New(
			scenario.NewFedPivot(cfg, macro, market, chain),
			scenario.NewM2Miner(cfg, macro, market, chain),
		),
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
		if err != nil {
			log.Fatal().Err(err).Msg("TELEGRAM_CHAT_ID must be a numeric chat id")
		}
		notifier, err := notify.NewTelegram(token, chatID)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect telegram notifier")
		}
		m.notifier = notifier
	}

	if host := os.Getenv("DB_HOST"); host != "" {
		db, err := database.New(database.ConnectionParams{
			Host:     host,
			Port:     envOr("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
			SSLMode:  envOr("DB_SSLMODE", "disable"),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect database")
		}
		defer db.Close()
		m.store = db
	}

	metricsSrv := metrics.Serve(envOr("METRICS_ADDR", ":9090"))
	defer metricsSrv.Close()

	checkInterval := durationEnv("SIGNAL_CHECK_INTERVAL", 30*time.Minute)
	healthInterval := durationEnv("HEALTH_CHECK_INTERVAL", 6*time.Hour)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Dur("check_interval", checkInterval).
		Dur("health_interval", healthInterval).
		Msg("monitor started")

	m.checkSignals(ctx)
	m.checkHealth(ctx)

	checkTicker := time.NewTicker(checkInterval)
	defer checkTicker.Stop()
	healthTicker := time.NewTicker(healthInterval)
	defer healthTicker.Stop()
	dailyTicker := time.NewTicker(24 * time.Hour)
	defer dailyTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("monitor stopped")
			return
		case <-checkTicker.C:
			m.checkSignals(ctx)
		case <-healthTicker.C:
			m.checkHealth(ctx)
		case <-dailyTicker.C:
			m.safety.ResetDaily()
		}
	}
}

// checkSignals runs one full analysis sweep, records the results and alerts
// on buy signals that pass the safety gate.
func (m *monitor) checkSignals(ctx context.Context) {
	log.Info().Msg("checking signals")
	metrics.SignalChecksTotal.Inc()

	portfolioValue := m.cfg.DefaultPortfolioValue
	all := m.engine.GetAllSignals(ctx, portfolioValue, nil)

	btcPrice, err := m.market.BitcoinPrice(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("btc price unavailable, safety check degraded")
	}

	for key, result := range all {
		if result.Error != "" {
			log.Error().Str("scenario", key).Str("error", result.Error).Msg("scenario failed")
			continue
		}

		label := strconv.Itoa(result.Scenario)
		metrics.ScenarioCombinedScore.WithLabelValues(label).Set(result.Signals.CombinedScore)
		if result.Signals.BuySignal {
			metrics.ScenarioBuySignal.WithLabelValues(label).Set(1)
		} else {
			metrics.ScenarioBuySignal.WithLabelValues(label).Set(0)
		}

		log.Info().
			Str("scenario", key).
			Float64("score", result.Signals.CombinedScore).
			Bool("buy_signal", result.Signals.BuySignal).
			Msg("scenario analyzed")

		if m.store != nil {
			if err := m.store.SaveResult(ctx, &result); err != nil {
				log.Error().Err(err).Str("scenario", key).Msg("failed to persist result")
			}
		}

		if result.Signals.BuySignal {
			m.alert(ctx, result, portfolioValue, btcPrice)
		}
	}
}

func (m *monitor) alert(ctx context.Context, result models.AnalysisResult, portfolioValue, btcPrice float64) {
	check := m.safety.Check(portfolioValue, btcPrice)
	for _, w := range check.Warnings {
		log.Warn().Str("warning", w).Msg("safety warning")
	}
	if !check.SafeToTrade {
		log.Warn().Strs("reasons", check.Reasons).Msg("buy signal suppressed by safety breaker")
		return
	}

	if m.notifier == nil {
		return
	}
	if err := m.notifier.Alert(ctx, &result); err != nil {
		log.Error().Err(err).Int("scenario", result.Scenario).Msg("failed to send alert")
		return
	}
	metrics.AlertsTotal.WithLabelValues(strconv.Itoa(result.Scenario)).Inc()
}

func (m *monitor) checkHealth(ctx context.Context) {
	h := m.engine.HealthCheck(ctx)

	switch h.OverallStatus {
	case models.StatusHealthy:
		metrics.OverallHealth.Set(1)
	case models.StatusDegraded:
		metrics.OverallHealth.Set(0.5)
	default:
		metrics.OverallHealth.Set(0)
	}

	log.Info().Str("status", h.OverallStatus).Msg("health check complete")
	for name, component := range h.Components {
		if component.Status != models.StatusHealthy {
			log.Warn().Str("component", name).Str("status", component.Status).Msg("component unhealthy")
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
