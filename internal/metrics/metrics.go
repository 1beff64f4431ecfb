// Package metrics provides centralized Prometheus metrics registry for the
// value bet engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PipelineRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "valuebet",
		Name:      "pipeline_runs_total",
		Help:      "Total number of pipeline runs started",
	})
	LeagueErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "valuebet",
		Name:      "league_errors_total",
		Help:      "Total number of per-league pipeline errors",
	}, []string{"league"})
	FixturesProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "valuebet",
		Name:      "fixtures_processed_total",
		Help:      "Total number of fixtures run through the predictor",
	})
	ValueBetsFoundTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "valuebet",
		Name:      "value_bets_found_total",
		Help:      "Total number of value bets persisted",
	}, []string{"market"})
	BetsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "valuebet",
		Name:      "bets_settled_total",
		Help:      "Total number of bets settled against final results",
	}, []string{"outcome"})
	StrengthRefreshesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "valuebet",
		Name:      "strength_refreshes_total",
		Help:      "Total number of team strength refreshes",
	})
)

// Gauge metrics
var (
	LastRunTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "valuebet",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last completed pipeline run",
	})
	PendingBets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "valuebet",
		Name:      "pending_bets",
		Help:      "Number of persisted bets awaiting settlement",
	})
)

// Histogram metrics
var (
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "valuebet",
		Name:      "run_duration_seconds",
		Help:      "Duration of full pipeline runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})
	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "valuebet",
		Name:      "provider_request_duration_seconds",
		Help:      "Duration of external provider requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PipelineRunsTotal)
		registry.MustRegister(LeagueErrorsTotal)
		registry.MustRegister(FixturesProcessedTotal)
		registry.MustRegister(ValueBetsFoundTotal)
		registry.MustRegister(BetsSettledTotal)
		registry.MustRegister(StrengthRefreshesTotal)

		registry.MustRegister(LastRunTimestamp)
		registry.MustRegister(PendingBets)

		registry.MustRegister(RunDuration)
		registry.MustRegister(ProviderRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRunStarted records a pipeline run start.
func RecordRunStarted() {
	PipelineRunsTotal.Inc()
}

// RecordLeagueError records a failed league within a run.
func RecordLeagueError(league string) {
	LeagueErrorsTotal.WithLabelValues(league).Inc()
}

// RecordFixtureProcessed records one fixture run through the predictor.
func RecordFixtureProcessed() {
	FixturesProcessedTotal.Inc()
}

// RecordValueBet records a persisted value bet for a market.
func RecordValueBet(market string) {
	ValueBetsFoundTotal.WithLabelValues(market).Inc()
}

// RecordBetSettled records a settled bet with its outcome ("won" or "lost").
func RecordBetSettled(outcome string) {
	BetsSettledTotal.WithLabelValues(outcome).Inc()
}

// SetPendingBets sets the number of bets still awaiting settlement.
func SetPendingBets(count int) {
	PendingBets.Set(float64(count))
}

// RecordStrengthRefresh records a completed strength refresh.
func RecordStrengthRefresh() {
	StrengthRefreshesTotal.Inc()
}

// RecordRunCompleted records duration and completion time of a run.
func RecordRunCompleted(durationSeconds float64) {
	RunDuration.Observe(durationSeconds)
	LastRunTimestamp.SetToCurrentTime()
}

// RecordProviderRequest records the latency of one provider request.
func RecordProviderRequest(provider string, durationSeconds float64) {
	ProviderRequestDuration.WithLabelValues(provider).Observe(durationSeconds)
}
