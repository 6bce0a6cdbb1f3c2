// Package metrics holds the Prometheus collectors for backtest runs and price fetches.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Backtest outcomes used as the outcome label.
const (
	OutcomeSuccess          = "success"
	OutcomeDataUnavailable  = "data_unavailable"
	OutcomeInsufficientData = "insufficient_data"
	OutcomeInvalidRequest   = "invalid_request"
	OutcomeError            = "error"
)

// Collector owns a private registry so several collectors can coexist in tests.
type Collector struct {
	registry *prometheus.Registry

	BacktestsTotal     *prometheus.CounterVec   // labels: strategy, outcome
	StrategyFallbacks  prometheus.Counter       // unknown strategy ids replaced by buy and hold
	PriceFetchDuration *prometheus.HistogramVec // labels: provider
	PricePoints        prometheus.Histogram     // series length per backtest
}

// NewCollector creates and registers all collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		BacktestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coinlab_backtests_total",
			Help: "Backtest runs by evaluated strategy and outcome",
		}, []string{"strategy", "outcome"}),
		StrategyFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coinlab_strategy_fallbacks_total",
			Help: "Requests for an unknown strategy that ran Buy & Hold instead",
		}),
		PriceFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coinlab_price_fetch_seconds",
			Help:    "Price history fetch latency by provider",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		PricePoints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coinlab_price_points",
			Help:    "Number of prices a strategy was evaluated on",
			Buckets: []float64{1, 7, 14, 30, 90, 180, 365, 730},
		}),
	}

	c.registry.MustRegister(
		c.BacktestsTotal,
		c.StrategyFallbacks,
		c.PriceFetchDuration,
		c.PricePoints,
	)

	return c
}

// ObserveBacktest counts one backtest run.
func (c *Collector) ObserveBacktest(strategy string, outcome string) {
	c.BacktestsTotal.WithLabelValues(strategy, outcome).Inc()
}

// ObserveFallback counts one strategy fallback.
func (c *Collector) ObserveFallback() {
	c.StrategyFallbacks.Inc()
}

// ObserveFetch records the duration of one price fetch.
func (c *Collector) ObserveFetch(provider string, elapsed time.Duration) {
	c.PriceFetchDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObservePricePoints records the length of an evaluated series.
func (c *Collector) ObservePricePoints(n int) {
	c.PricePoints.Observe(float64(n))
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	//nolint:exhaustruct // third-party options with many optional fields
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
