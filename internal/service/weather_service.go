package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/melakago/backend/internal/domain"
)

// WeatherService fetches hourly forecasts from the Open-Meteo API.
type WeatherService struct {
	baseURL    string
	httpClient *http.Client
	loc        *time.Location
}

// NewWeatherService creates a new weather service. loc is the advisory
// timezone the hourly timestamps are requested in.
func NewWeatherService(loc *time.Location) *WeatherService {
	return &WeatherService{
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		loc: loc,
	}
}

// OpenMeteoResponse represents the Open-Meteo forecast API response.
// Hourly arrays are parallel and may contain nulls.
type OpenMeteoResponse struct {
	Hourly struct {
		Time             []string   `json:"time"`
		Temperature2m    []*float64 `json:"temperature_2m"`
		RelativeHumidity []*float64 `json:"relative_humidity_2m"`
		WeatherCode      []*int     `json:"weather_code"`
		WindSpeed10m     []*float64 `json:"wind_speed_10m"`
	} `json:"hourly"`
}

// HourlyForecast fetches the hourly weather table for one date. Transport
// failures, non-2xx statuses and malformed payloads all return an error;
// the caller decides how to degrade.
func (s *WeatherService) HourlyForecast(ctx context.Context, lat, lon float64, date string) ([]domain.WeatherSample, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("hourly", "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m")
	params.Set("start_date", date)
	params.Set("end_date", date)
	params.Set("timezone", domain.AdvisoryTimezone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather: failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather: unexpected status %d", resp.StatusCode)
	}

	var omResp OpenMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&omResp); err != nil {
		return nil, fmt.Errorf("weather: failed to decode response: %w", err)
	}

	samples := make([]domain.WeatherSample, 0, len(omResp.Hourly.Time))
	for i, tstr := range omResp.Hourly.Time {
		ts, err := time.ParseInLocation("2006-01-02T15:04", tstr, s.loc)
		if err != nil {
			return nil, fmt.Errorf("weather: invalid hourly timestamp %q: %w", tstr, err)
		}
		sample := domain.WeatherSample{Timestamp: ts}
		if i < len(omResp.Hourly.Temperature2m) {
			sample.TemperatureC = omResp.Hourly.Temperature2m[i]
		}
		if i < len(omResp.Hourly.RelativeHumidity) {
			sample.RelativeHumidityPct = omResp.Hourly.RelativeHumidity[i]
		}
		if i < len(omResp.Hourly.WeatherCode) {
			sample.WeatherCode = omResp.Hourly.WeatherCode[i]
		}
		if i < len(omResp.Hourly.WindSpeed10m) {
			sample.WindspeedKmh = omResp.Hourly.WindSpeed10m[i]
		}
		samples = append(samples, sample)
	}

	return samples, nil
}
