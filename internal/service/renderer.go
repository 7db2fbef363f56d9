package service

import (
	"github.com/melakago/backend/internal/domain"
	"github.com/melakago/backend/pkg/utils"
)

// WMO weather-code thresholds used by the dashboard.
const (
	codeRain    = 61
	codeDrizzle = 51
	codeCloudy  = 3
)

// weatherSummary maps a weather code and the numeric fields to the rendered
// weather card.
func weatherSummary(row domain.FeatureRow) domain.WeatherSummary {
	var icon, desc string
	switch {
	case row.WeatherCode >= codeRain:
		icon, desc = "rain", "Rainy"
	case row.WeatherCode >= codeDrizzle:
		icon, desc = "drizzle", "Drizzle"
	case row.WeatherCode >= codeCloudy:
		icon, desc = "cloudy", "Cloudy"
	default:
		icon, desc = "clear", "Clear"
	}

	return domain.WeatherSummary{
		Icon:                icon,
		Description:         desc,
		TemperatureC:        utils.RoundTo(row.TemperatureC, 1),
		RelativeHumidityPct: utils.RoundTo(row.RelativeHumidityPct, 0),
		WindspeedKmh:        utils.RoundTo(row.WindspeedKmh, 1),
	}
}

// recommend maps predictions and weather to the vehicle advice and risk
// outlook. Rain dominates; then congestion; then the quiet-hours default.
func recommend(row domain.FeatureRow, pred domain.Prediction) domain.Recommendation {
	switch {
	case row.WeatherCode >= codeRain:
		return domain.Recommendation{
			Vehicle:    "car",
			VehicleWhy: "A car is recommended for safety due to rain in Malacca's narrow streets.",
			Outlook:    "Motorcycle travel during rain can be dangerous on Malacca's historic cobblestone areas.",
			RiskLevel:  "warning",
		}
	case pred.JamLikely || pred.TrafficLevel == domain.LevelPeak:
		return domain.Recommendation{
			Vehicle:    "motorcycle",
			VehicleWhy: "A motorcycle is recommended to navigate through Malacca's busy heritage areas.",
			Outlook:    "Cars may face significant delays in Malacca's narrow heritage streets during peak hours.",
			RiskLevel:  "warning",
		}
	case pred.TrafficLevel == domain.LevelShoulder:
		return domain.Recommendation{
			Vehicle:    "car_or_motorcycle",
			VehicleWhy: "Both vehicles are suitable for exploring Malacca comfortably.",
			Outlook:    "Good time to visit Malacca's attractions with moderate traffic.",
			RiskLevel:  "good",
		}
	default:
		return domain.Recommendation{
			Vehicle:    "car",
			VehicleWhy: "Perfect time for a comfortable car journey through historic Malacca.",
			Outlook:    "Excellent conditions for sightseeing in Malacca's heritage sites.",
			RiskLevel:  "good",
		}
	}
}
