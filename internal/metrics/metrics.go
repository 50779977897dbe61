package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignalChecksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "signal_checks_total", Help: "Count of signal check cycles run"},
	)
	ScenarioCombinedScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "scenario_combined_score", Help: "Latest combined score per scenario"},
		[]string{"scenario"},
	)
	ScenarioBuySignal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "scenario_buy_signal", Help: "Whether the scenario currently signals a buy (0/1)"},
		[]string{"scenario"},
	)
	AlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "alerts_total", Help: "Buy signal alerts delivered"},
		[]string{"scenario"},
	)
	OverallHealth = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "overall_health", Help: "Engine health: 1 healthy, 0.5 degraded, 0 error"},
	)
)

func init() {
	prometheus.MustRegister(SignalChecksTotal, ScenarioCombinedScore, ScenarioBuySignal, AlertsTotal, OverallHealth)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
