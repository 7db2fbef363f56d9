package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/melakago/backend/internal/domain"
)

func TestWeatherSummary_IconMapping(t *testing.T) {
	tests := []struct {
		code     int
		icon     string
		desc     string
	}{
		{0, "clear", "Clear"},
		{2, "clear", "Clear"},
		{3, "cloudy", "Cloudy"},
		{45, "cloudy", "Cloudy"},
		{51, "drizzle", "Drizzle"},
		{55, "drizzle", "Drizzle"},
		{61, "rain", "Rainy"},
		{95, "rain", "Rainy"},
	}

	for _, tt := range tests {
		row := domain.FeatureRow{WeatherCode: tt.code, TemperatureC: 28.5, RelativeHumidityPct: 75, WindspeedKmh: 6}
		summary := weatherSummary(row)
		assert.Equal(t, tt.icon, summary.Icon, "code %d", tt.code)
		assert.Equal(t, tt.desc, summary.Description, "code %d", tt.code)
		assert.Equal(t, 28.5, summary.TemperatureC)
	}
}

func TestRecommend_RainDominates(t *testing.T) {
	// Rain wins even over a quiet off-peak prediction.
	row := domain.FeatureRow{WeatherCode: 63}
	rec := recommend(row, domain.Prediction{JamLikely: false, TrafficLevel: domain.LevelOffPeak})
	assert.Equal(t, "car", rec.Vehicle)
	assert.Equal(t, "warning", rec.RiskLevel)
}

func TestRecommend_JamOrPeak(t *testing.T) {
	row := domain.FeatureRow{WeatherCode: 1}

	rec := recommend(row, domain.Prediction{JamLikely: true, TrafficLevel: domain.LevelOffPeak})
	assert.Equal(t, "motorcycle", rec.Vehicle)
	assert.Equal(t, "warning", rec.RiskLevel)

	rec = recommend(row, domain.Prediction{JamLikely: false, TrafficLevel: domain.LevelPeak})
	assert.Equal(t, "motorcycle", rec.Vehicle)
}

func TestRecommend_Shoulder(t *testing.T) {
	row := domain.FeatureRow{WeatherCode: 2}
	rec := recommend(row, domain.Prediction{TrafficLevel: domain.LevelShoulder})
	assert.Equal(t, "car_or_motorcycle", rec.Vehicle)
	assert.Equal(t, "good", rec.RiskLevel)
}

func TestRecommend_QuietDefault(t *testing.T) {
	row := domain.FeatureRow{WeatherCode: 0}
	rec := recommend(row, domain.Prediction{TrafficLevel: domain.LevelOffPeak})
	assert.Equal(t, "car", rec.Vehicle)
	assert.Equal(t, "good", rec.RiskLevel)
}
