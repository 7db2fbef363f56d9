package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/melakago/backend/internal/domain"
	"github.com/melakago/backend/internal/feature"
	"github.com/melakago/backend/pkg/metrics"
)

// CachedForecastSource wraps a WeatherSource with a TTL memoization keyed by
// (lat, lon, date). Only successful responses are cached, so a failed fetch
// is retried by the next request rather than pinning the failure for the
// whole TTL. Safe for concurrent readers; cached slices are never mutated.
type CachedForecastSource struct {
	source    feature.WeatherSource
	cache     map[string]forecastEntry
	mu        sync.RWMutex
	ttl       time.Duration
	collector *metrics.Collector
}

type forecastEntry struct {
	samples []domain.WeatherSample
	fetched time.Time
}

// NewCachedForecastSource creates a cached wrapper around a weather source.
func NewCachedForecastSource(source feature.WeatherSource, ttl time.Duration, collector *metrics.Collector) *CachedForecastSource {
	return &CachedForecastSource{
		source:    source,
		cache:     make(map[string]forecastEntry),
		ttl:       ttl,
		collector: collector,
	}
}

func cacheKey(lat, lon float64, date string) string {
	return fmt.Sprintf("%.4f:%.4f:%s", lat, lon, date)
}

// HourlyForecast returns the cached hourly table when fresh, fetching
// otherwise.
func (c *CachedForecastSource) HourlyForecast(ctx context.Context, lat, lon float64, date string) ([]domain.WeatherSample, error) {
	key := cacheKey(lat, lon, date)

	c.mu.RLock()
	entry, found := c.cache[key]
	c.mu.RUnlock()

	if found && time.Since(entry.fetched) < c.ttl {
		c.collector.ForecastCacheHits.Inc()
		return entry.samples, nil
	}

	c.collector.ForecastCacheMisses.Inc()

	start := time.Now()
	samples, err := c.source.HourlyForecast(ctx, lat, lon, date)
	c.collector.ForecastFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.collector.WeatherFetchErrorsTotal.Inc()
		return nil, err
	}

	c.mu.Lock()
	c.cache[key] = forecastEntry{samples: samples, fetched: time.Now()}
	c.mu.Unlock()

	return samples, nil
}

// Invalidate drops all cached forecasts. Backs the dashboard's explicit
// refresh action.
func (c *CachedForecastSource) Invalidate() {
	c.mu.Lock()
	c.cache = make(map[string]forecastEntry)
	c.mu.Unlock()
}

var _ feature.WeatherSource = (*CachedForecastSource)(nil)
