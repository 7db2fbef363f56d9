package domain

// TrafficLevel is the three-level traffic-intensity classification produced
// by the peak classifier.
type TrafficLevel string

const (
	LevelPeak     TrafficLevel = "Peak"
	LevelShoulder TrafficLevel = "Shoulder"
	LevelOffPeak  TrafficLevel = "Off-Peak"
)

// Prediction holds both classifier outputs for one feature row.
type Prediction struct {
	JamLikely    bool         `json:"jam_likely"`
	TrafficLevel TrafficLevel `json:"traffic_level"`
	IsMock       bool         `json:"is_mock"`
}

// WeatherSummary is the rendered weather card.
type WeatherSummary struct {
	Icon                string  `json:"icon"`
	Description         string  `json:"description"`
	TemperatureC        float64 `json:"temperature_c"`
	RelativeHumidityPct float64 `json:"relative_humidity_pct"`
	WindspeedKmh        float64 `json:"windspeed_kmh"`
}

// Recommendation is the vehicle advice and risk outlook for the selection.
type Recommendation struct {
	Vehicle    string `json:"vehicle"`
	VehicleWhy string `json:"vehicle_why"`
	Outlook    string `json:"outlook"`
	RiskLevel  string `json:"risk_level"` // "good" or "warning"
}

// Advisory is the full travel advisory for one (date, hour, location)
// selection.
type Advisory struct {
	Date           string             `json:"date"`
	Hour           int                `json:"hour"`
	DayOfWeek      string             `json:"day_of_week"`
	IsWeekend      bool               `json:"is_weekend"`
	IsHoliday      bool               `json:"is_holiday"`
	Prediction     Prediction         `json:"prediction"`
	Weather        WeatherSummary     `json:"weather"`
	Recommendation Recommendation     `json:"recommendation"`
	DataSource     DataSourceDecision `json:"data_source"`
	DataSourceInfo string             `json:"data_source_info"`
	Degraded       bool               `json:"degraded"`
}

// AdvisoryResponse wraps an advisory with metadata.
type AdvisoryResponse struct {
	Data    Advisory `json:"data"`
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
}
