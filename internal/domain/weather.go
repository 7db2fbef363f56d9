package domain

import "time"

// WeatherSample is one hour's weather observation or forecast.
// Pointer fields carry absent/null values from upstream rows; the feature
// builder substitutes documented defaults, a sample itself is never mutated.
type WeatherSample struct {
	Timestamp           time.Time `json:"timestamp"`
	TemperatureC        *float64  `json:"temperature_c,omitempty"`
	RelativeHumidityPct *float64  `json:"relative_humidity_pct,omitempty"`
	WeatherCode         *int      `json:"weather_code,omitempty"`
	WindspeedKmh        *float64  `json:"windspeed_kmh,omitempty"`
}

// HistoryRecord is a row of the pre-loaded historical table: an hourly
// weather sample plus the Melaka holiday flag for that date.
type HistoryRecord struct {
	Sample    WeatherSample `json:"sample"`
	IsHoliday bool          `json:"is_holiday"`
}

// ForecastResponse wraps an hourly forecast for one date.
type ForecastResponse struct {
	Date    string          `json:"date"`
	Hourly  []WeatherSample `json:"hourly"`
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
}

// Central Malacca coordinates, used when the client sends none or sends a
// location outside the advisory district.
const (
	MelakaCenterLat = 2.19
	MelakaCenterLon = 102.24
)

// AdvisoryTimezone is the timezone all date/hour selections are local to.
const AdvisoryTimezone = "Asia/Singapore"
