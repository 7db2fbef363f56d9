package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides application metrics collection
type Collector struct {
	// Advisory pipeline
	AdvisoryRequestsTotal *prometheus.CounterVec
	AdvisoryNoDataTotal   prometheus.Counter
	DegradedRowsTotal     prometheus.Counter

	// Forecast source
	ForecastCacheHits       prometheus.Counter
	ForecastCacheMisses     prometheus.Counter
	WeatherFetchErrorsTotal prometheus.Counter
	ForecastFetchDuration   prometheus.Histogram

	// Model bridge
	PredictionDuration   prometheus.Histogram
	MockPredictionsTotal prometheus.Counter
}

// NewCollector creates a new metrics collector
func NewCollector(namespace string) *Collector {
	return &Collector{
		AdvisoryRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "advisory_requests_total",
				Help:      "Total number of advisory requests by data source decision",
			},
			[]string{"decision"},
		),

		AdvisoryNoDataTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "advisory_no_data_total",
				Help:      "Total number of advisory requests that found no data in any tier",
			},
		),

		DegradedRowsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "degraded_feature_rows_total",
				Help:      "Total number of feature rows built with default-substituted fields",
			},
		),

		ForecastCacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "forecast_cache_hits_total",
				Help:      "Total number of forecast cache hits",
			},
		),

		ForecastCacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "forecast_cache_misses_total",
				Help:      "Total number of forecast cache misses",
			},
		),

		WeatherFetchErrorsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_fetch_errors_total",
				Help:      "Total number of failed live forecast fetches",
			},
		),

		ForecastFetchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "forecast_fetch_duration_seconds",
				Help:      "Duration of live forecast fetches in seconds",
				Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
		),

		PredictionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "prediction_duration_seconds",
				Help:      "Duration of model service prediction calls in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
			},
		),

		MockPredictionsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mock_predictions_total",
				Help:      "Total number of predictions served from the mock fallback",
			},
		),
	}
}

// RecordDecision increments the advisory counter for a data source decision.
func (c *Collector) RecordDecision(decision string) {
	c.AdvisoryRequestsTotal.WithLabelValues(decision).Inc()
}
