package service

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melakago/backend/internal/domain"
)

func rowForHour(hour int) domain.FeatureRow {
	return domain.FeatureRow{
		HourSin:   math.Sin(2 * math.Pi * float64(hour) / 24),
		HourCos:   math.Cos(2 * math.Pi * float64(hour) / 24),
		DayOfWeek: "Tuesday",
	}
}

func TestPredict_ModelService(t *testing.T) {
	var gotRow domain.FeatureRow
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/predict", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRow))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jam_likely":    true,
			"traffic_level": "Peak",
		})
	}))
	defer server.Close()

	bridge := NewMLBridge(server.URL, testCollector)
	row := rowForHour(8)
	row.TemperatureC = 27.5

	pred, err := bridge.Predict(context.Background(), row)
	require.NoError(t, err)
	assert.True(t, pred.JamLikely)
	assert.Equal(t, domain.LevelPeak, pred.TrafficLevel)
	assert.False(t, pred.IsMock)
	assert.Equal(t, 27.5, gotRow.TemperatureC)
}

func TestPredict_UnknownLevelIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jam_likely":    false,
			"traffic_level": "Rush",
		})
	}))
	defer server.Close()

	bridge := NewMLBridge(server.URL, testCollector)
	_, err := bridge.Predict(context.Background(), rowForHour(8))
	assert.Error(t, err)
}

func TestPredict_FallsBackToMockOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	bridge := NewMLBridge(server.URL, testCollector)
	pred, err := bridge.Predict(context.Background(), rowForHour(8))
	require.NoError(t, err)
	assert.True(t, pred.IsMock)
	// Weekday morning rush in the mock pattern.
	assert.True(t, pred.JamLikely)
	assert.Equal(t, domain.LevelPeak, pred.TrafficLevel)
}

func TestPredict_FallsBackToMockOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	bridge := NewMLBridge(server.URL, testCollector)
	pred, err := bridge.Predict(context.Background(), rowForHour(2))
	require.NoError(t, err)
	assert.True(t, pred.IsMock)
	assert.False(t, pred.JamLikely)
	assert.Equal(t, domain.LevelOffPeak, pred.TrafficLevel)
}

func TestMockPrediction_WeekendPattern(t *testing.T) {
	bridge := NewMLBridge("http://127.0.0.1:0", testCollector)

	row := rowForHour(13)
	row.IsWeekend = true
	pred := bridge.getMockPrediction(row)
	assert.False(t, pred.JamLikely)
	assert.Equal(t, domain.LevelShoulder, pred.TrafficLevel)

	row = rowForHour(8)
	row.IsWeekend = true
	pred = bridge.getMockPrediction(row)
	assert.Equal(t, domain.LevelOffPeak, pred.TrafficLevel)
}

func TestHourFromEncoding_RoundTrip(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		assert.Equal(t, hour, hourFromEncoding(rowForHour(hour)), "hour %d", hour)
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	bridge := NewMLBridge(server.URL, testCollector)
	assert.NoError(t, bridge.Health(context.Background()))

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer bad.Close()

	bridge = NewMLBridge(bad.URL, testCollector)
	assert.Error(t, bridge.Health(context.Background()))
}
