package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/melakago/backend/internal/domain"
	"github.com/melakago/backend/pkg/metrics"
)

// MLBridge handles communication with the Python model service hosting the
// jam and peak classifiers (plus their preprocessor).
type MLBridge struct {
	serviceURL string
	httpClient *http.Client
	collector  *metrics.Collector
}

// NewMLBridge creates a new ML bridge
func NewMLBridge(serviceURL string, collector *metrics.Collector) *MLBridge {
	return &MLBridge{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		collector: collector,
	}
}

// predictResponse is the model service's wire format.
type predictResponse struct {
	JamLikely    bool   `json:"jam_likely"`
	TrafficLevel string `json:"traffic_level"`
}

// Predict sends the feature row to the model service and returns both
// classifier outputs. On transport failure or a non-200 status it serves
// the pattern-based mock instead of failing the advisory.
func (b *MLBridge) Predict(ctx context.Context, row domain.FeatureRow) (domain.Prediction, error) {
	body, err := json.Marshal(row)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("ml_bridge: failed to marshal feature row: %w", err)
	}

	url := fmt.Sprintf("%s/predict", b.serviceURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("ml_bridge: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := b.httpClient.Do(httpReq)
	b.collector.PredictionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return b.getMockPrediction(row), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return b.getMockPrediction(row), nil
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return domain.Prediction{}, fmt.Errorf("ml_bridge: failed to decode response: %w", err)
	}

	level := domain.TrafficLevel(pr.TrafficLevel)
	switch level {
	case domain.LevelPeak, domain.LevelShoulder, domain.LevelOffPeak:
	default:
		return domain.Prediction{}, fmt.Errorf("ml_bridge: unknown traffic level %q", pr.TrafficLevel)
	}

	return domain.Prediction{
		JamLikely:    pr.JamLikely,
		TrafficLevel: level,
		IsMock:       false,
	}, nil
}

// Health checks model service connectivity
func (b *MLBridge) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", b.serviceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("ml_bridge: failed to create health request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ml_bridge: health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ml_bridge: health check returned status %d", resp.StatusCode)
	}

	return nil
}

// hourFromEncoding inverts the cyclical hour encoding. The feature row is
// the only input the models see, so the mock recovers the hour from it.
func hourFromEncoding(row domain.FeatureRow) int {
	angle := math.Atan2(row.HourSin, row.HourCos)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	hour := int(math.Round(angle / (2 * math.Pi) * 24))
	return hour % 24
}

// getMockPrediction returns a fallback prediction from Melaka's typical
// weekday traffic pattern.
func (b *MLBridge) getMockPrediction(row domain.FeatureRow) domain.Prediction {
	b.collector.MockPredictionsTotal.Inc()

	hour := hourFromEncoding(row)

	if row.IsWeekend || row.IsHoliday {
		// Tourist traffic clusters around midday on free days.
		level := domain.LevelOffPeak
		if hour >= 11 && hour <= 16 {
			level = domain.LevelShoulder
		}
		return domain.Prediction{JamLikely: false, TrafficLevel: level, IsMock: true}
	}

	switch {
	case hour >= 7 && hour <= 9, hour >= 17 && hour <= 19:
		return domain.Prediction{JamLikely: true, TrafficLevel: domain.LevelPeak, IsMock: true}
	case hour >= 12 && hour <= 14:
		return domain.Prediction{JamLikely: false, TrafficLevel: domain.LevelShoulder, IsMock: true}
	case hour >= 22 || hour <= 5:
		return domain.Prediction{JamLikely: false, TrafficLevel: domain.LevelOffPeak, IsMock: true}
	default:
		return domain.Prediction{JamLikely: false, TrafficLevel: domain.LevelShoulder, IsMock: true}
	}
}
