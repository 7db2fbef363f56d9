package domain

// DataSourceDecision tags which weather-sample-producing path was taken.
// The advisory changes the confidence it expresses to the user based on
// this tag, so it always travels with the sample.
type DataSourceDecision string

const (
	// SourceLive is an exact row from the live forecast provider.
	SourceLive DataSourceDecision = "live"
	// SourceHistorical is an exact (date, hour) row from the historical table.
	SourceHistorical DataSourceDecision = "historical"
	// SourceHistoricalFallbackPattern is the latest same-hour historical row,
	// used when a past date has no exact record.
	SourceHistoricalFallbackPattern DataSourceDecision = "historical_fallback_pattern"
	// SourceLivePatternFailover is the latest same-hour historical row,
	// used when the live provider failed for a present/future date.
	SourceLivePatternFailover DataSourceDecision = "live_pattern_failover"
)

// Display returns the human-readable data source description shown on the
// dashboard.
func (d DataSourceDecision) Display() string {
	switch d {
	case SourceLive:
		return "Live forecast for your location"
	case SourceHistorical:
		return "Historical weather record for the selected date"
	case SourceHistoricalFallbackPattern:
		return "Typical same-hour weather pattern (no record for the selected date)"
	case SourceLivePatternFailover:
		return "Typical same-hour weather pattern (live forecast unavailable)"
	default:
		return string(d)
	}
}

// Exact reports whether the sample matches the requested (date, hour)
// exactly, as opposed to a degraded same-hour pattern.
func (d DataSourceDecision) Exact() bool {
	return d == SourceLive || d == SourceHistorical
}

// FeatureRow is the fully derived, model-ready encoding of a TimePoint,
// a WeatherSample and the holiday flag. Constructed fresh per request and
// never cached.
type FeatureRow struct {
	HourSin  float64 `json:"hour_sin"`
	HourCos  float64 `json:"hour_cos"`
	MonthSin float64 `json:"month_sin"`
	MonthCos float64 `json:"month_cos"`

	DayOfWeek string `json:"day_of_week"` // "Monday".."Sunday"
	IsWeekend bool   `json:"is_weekend"`
	IsHoliday bool   `json:"is_holiday_mlk"`

	TemperatureC        float64 `json:"temperature_2m"`
	RelativeHumidityPct float64 `json:"relative_humidity_2m"`
	WeatherCode         int     `json:"weathercode"`
	WindspeedKmh        float64 `json:"windspeed_10m"`

	// Degraded is set when any weather field was absent upstream and a
	// default was substituted.
	Degraded bool `json:"degraded"`
}
