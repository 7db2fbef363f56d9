package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melakago/backend/internal/domain"
)

// countingSource counts fetches and can be switched to fail.
type countingSource struct {
	mu     sync.Mutex
	calls  int
	err    error
	hourly []domain.WeatherSample
}

func (s *countingSource) HourlyForecast(ctx context.Context, lat, lon float64, date string) ([]domain.WeatherSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.hourly, nil
}

func (s *countingSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestCachedForecastSource_HitWithinTTL(t *testing.T) {
	src := &countingSource{hourly: []domain.WeatherSample{{Timestamp: time.Now()}}}
	cached := NewCachedForecastSource(src, time.Hour, testCollector)

	ctx := context.Background()
	first, err := cached.HourlyForecast(ctx, 2.19, 102.24, "2024-06-11")
	require.NoError(t, err)

	second, err := cached.HourlyForecast(ctx, 2.19, 102.24, "2024-06-11")
	require.NoError(t, err)

	assert.Equal(t, 1, src.callCount(), "second request must be served from cache")
	assert.Equal(t, first, second)
}

func TestCachedForecastSource_KeyedByLocationAndDate(t *testing.T) {
	src := &countingSource{}
	cached := NewCachedForecastSource(src, time.Hour, testCollector)

	ctx := context.Background()
	_, err := cached.HourlyForecast(ctx, 2.19, 102.24, "2024-06-11")
	require.NoError(t, err)
	_, err = cached.HourlyForecast(ctx, 2.19, 102.24, "2024-06-12")
	require.NoError(t, err)
	_, err = cached.HourlyForecast(ctx, 2.25, 102.24, "2024-06-11")
	require.NoError(t, err)

	assert.Equal(t, 3, src.callCount())
}

func TestCachedForecastSource_TTLExpiry(t *testing.T) {
	src := &countingSource{}
	cached := NewCachedForecastSource(src, 10*time.Millisecond, testCollector)

	ctx := context.Background()
	_, err := cached.HourlyForecast(ctx, 2.19, 102.24, "2024-06-11")
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	_, err = cached.HourlyForecast(ctx, 2.19, 102.24, "2024-06-11")
	require.NoError(t, err)
	assert.Equal(t, 2, src.callCount())
}

func TestCachedForecastSource_FailuresNotCached(t *testing.T) {
	src := &countingSource{err: errors.New("upstream down")}
	cached := NewCachedForecastSource(src, time.Hour, testCollector)

	ctx := context.Background()
	_, err := cached.HourlyForecast(ctx, 2.19, 102.24, "2024-06-11")
	require.Error(t, err)

	// Upstream recovers; the next request must fetch, not replay the failure.
	src.mu.Lock()
	src.err = nil
	src.mu.Unlock()

	_, err = cached.HourlyForecast(ctx, 2.19, 102.24, "2024-06-11")
	require.NoError(t, err)
	assert.Equal(t, 2, src.callCount())
}

func TestCachedForecastSource_Invalidate(t *testing.T) {
	src := &countingSource{}
	cached := NewCachedForecastSource(src, time.Hour, testCollector)

	ctx := context.Background()
	_, err := cached.HourlyForecast(ctx, 2.19, 102.24, "2024-06-11")
	require.NoError(t, err)

	cached.Invalidate()

	_, err = cached.HourlyForecast(ctx, 2.19, 102.24, "2024-06-11")
	require.NoError(t, err)
	assert.Equal(t, 2, src.callCount())
}
