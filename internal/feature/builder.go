package feature

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/melakago/backend/internal/domain"
)

// ErrNoDataAvailable is the only terminal failure of sample selection: no
// row for the requested hour exists in any tier, including the same-hour
// pattern fallback. Callers surface it as "no data for this time" and do
// not retry.
var ErrNoDataAvailable = errors.New("feature: no weather data available for the requested hour")

// Default substitutions for weather fields absent from an upstream row.
// Plausible values for the Malacca climate; substitution is flagged on the
// resulting feature row via Degraded.
const (
	DefaultTemperatureC        = 25.0
	DefaultRelativeHumidityPct = 70.0
	DefaultWeatherCode         = 0
	DefaultWindspeedKmh        = 5.0
)

// WeatherSource provides an hourly forecast table for one date.
type WeatherSource interface {
	HourlyForecast(ctx context.Context, lat, lon float64, date string) ([]domain.WeatherSample, error)
}

// Location is the client position a forecast is requested for.
type Location struct {
	Lat float64
	Lon float64
}

// Builder deterministically selects a weather sample for a requested
// TimePoint and builds the model-ready feature row, tolerating missing or
// partial data at every step.
type Builder struct {
	source  WeatherSource
	history domain.HistoryRepository
	now     func() time.Time // injectable for tests
}

// NewBuilder creates a feature builder over the given collaborators.
func NewBuilder(source WeatherSource, history domain.HistoryRepository) *Builder {
	return &Builder{
		source:  source,
		history: history,
		now:     time.Now,
	}
}

// WithClock overrides the builder's notion of "today".
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// today returns midnight of the current day in the selection's timezone.
func (b *Builder) today(tp domain.TimePoint) time.Time {
	n := b.now().In(tp.Date.Location())
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

// SelectWeatherSample picks the weather sample for tp, first success wins:
//
//  1. present/future date: live forecast, filtered to the requested hour
//  2. past date: exact (date, hour) historical record
//  3. last resort: latest historical row with the same hour of day
//
// The returned decision tells the caller which tier was used.
func (b *Builder) SelectWeatherSample(ctx context.Context, tp domain.TimePoint, loc Location) (domain.WeatherSample, domain.DataSourceDecision, error) {
	if !tp.Date.Before(b.today(tp)) {
		hourly, err := b.source.HourlyForecast(ctx, loc.Lat, loc.Lon, tp.DateString())
		if err != nil {
			log.Printf("feature: live forecast failed, falling back to hour pattern: %v", err)
			return b.fallbackSample(ctx, tp, domain.SourceLivePatternFailover)
		}
		for _, s := range hourly {
			if tp.SameDate(s.Timestamp) && s.Timestamp.Hour() == tp.Hour {
				return s, domain.SourceLive, nil
			}
		}
		// API returned a day with the requested hour missing.
		return b.fallbackSample(ctx, tp, domain.SourceLivePatternFailover)
	}

	rec, err := b.history.GetByDateHour(ctx, tp.Date, tp.Hour)
	switch {
	case err == nil:
		return rec.Sample, domain.SourceHistorical, nil
	case errors.Is(err, domain.ErrNotFound):
		return b.fallbackSample(ctx, tp, domain.SourceHistoricalFallbackPattern)
	default:
		log.Printf("feature: historical lookup failed: %v", err)
		return b.fallbackSample(ctx, tp, domain.SourceHistoricalFallbackPattern)
	}
}

// fallbackSample is the last-resort tier: the latest historical row sharing
// the requested hour of day.
func (b *Builder) fallbackSample(ctx context.Context, tp domain.TimePoint, decision domain.DataSourceDecision) (domain.WeatherSample, domain.DataSourceDecision, error) {
	rec, err := b.history.GetLatestByHour(ctx, tp.Hour)
	if err != nil {
		return domain.WeatherSample{}, decision, ErrNoDataAvailable
	}
	return rec.Sample, decision, nil
}

// IsHoliday reports the holiday flag for date. Dates absent from the
// historical table are not holidays; this never fails.
func (b *Builder) IsHoliday(ctx context.Context, date time.Time) bool {
	holiday, err := b.history.IsHoliday(ctx, date)
	if err != nil {
		return false
	}
	return holiday
}

// BuildFeatureRow derives the model-ready feature row for tp from sample.
// Pure and total: absent weather fields get the documented defaults and
// mark the row degraded instead of failing the request.
func (b *Builder) BuildFeatureRow(tp domain.TimePoint, sample domain.WeatherSample, isHoliday bool) domain.FeatureRow {
	ts := tp.Timestamp()
	month := float64(ts.Month())

	row := domain.FeatureRow{
		HourSin:   math.Sin(2 * math.Pi * float64(tp.Hour) / 24),
		HourCos:   math.Cos(2 * math.Pi * float64(tp.Hour) / 24),
		MonthSin:  math.Sin(2 * math.Pi * month / 12),
		MonthCos:  math.Cos(2 * math.Pi * month / 12),
		DayOfWeek: ts.Weekday().String(),
		IsWeekend: ts.Weekday() == time.Saturday || ts.Weekday() == time.Sunday,
		IsHoliday: isHoliday,
	}

	row.TemperatureC = DefaultTemperatureC
	if sample.TemperatureC != nil {
		row.TemperatureC = *sample.TemperatureC
	} else {
		row.Degraded = true
	}

	row.RelativeHumidityPct = DefaultRelativeHumidityPct
	if sample.RelativeHumidityPct != nil {
		row.RelativeHumidityPct = *sample.RelativeHumidityPct
	} else {
		row.Degraded = true
	}

	row.WeatherCode = DefaultWeatherCode
	if sample.WeatherCode != nil {
		row.WeatherCode = *sample.WeatherCode
	} else {
		row.Degraded = true
	}

	row.WindspeedKmh = DefaultWindspeedKmh
	if sample.WindspeedKmh != nil {
		row.WindspeedKmh = *sample.WindspeedKmh
	} else {
		row.Degraded = true
	}

	return row
}
