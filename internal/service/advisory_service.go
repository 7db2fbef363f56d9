package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/melakago/backend/internal/domain"
	"github.com/melakago/backend/internal/feature"
	"github.com/melakago/backend/pkg/metrics"
	"github.com/melakago/backend/pkg/utils"
)

// ErrNoData marks an advisory request with no weather data in any tier.
// Handlers surface it as an explicit "cannot advise for this time" outcome.
var ErrNoData = errors.New("advisory: no data for the selected date and hour")

// AdvisoryService runs the full pipeline: sample selection, feature
// derivation, model inference, rendering.
type AdvisoryService struct {
	builder   *feature.Builder
	mlBridge  *MLBridge
	collector *metrics.Collector
}

// NewAdvisoryService creates a new advisory service
func NewAdvisoryService(builder *feature.Builder, mlBridge *MLBridge, collector *metrics.Collector) *AdvisoryService {
	return &AdvisoryService{
		builder:   builder,
		mlBridge:  mlBridge,
		collector: collector,
	}
}

// GetAdvisory produces the travel advisory for one (date, hour, location)
// selection. Client coordinates far outside the advisory district are
// snapped to central Malacca, matching the dashboard's default-location
// behavior.
func (s *AdvisoryService) GetAdvisory(ctx context.Context, tp domain.TimePoint, lat, lon float64) (domain.Advisory, error) {
	loc := normalizeLocation(lat, lon)

	sample, decision, err := s.builder.SelectWeatherSample(ctx, tp, loc)
	if err != nil {
		if errors.Is(err, feature.ErrNoDataAvailable) {
			s.collector.AdvisoryNoDataTotal.Inc()
			return domain.Advisory{}, ErrNoData
		}
		return domain.Advisory{}, fmt.Errorf("advisory: sample selection failed: %w", err)
	}
	s.collector.RecordDecision(string(decision))

	row := s.builder.BuildFeatureRow(tp, sample, s.builder.IsHoliday(ctx, tp.Date))
	if row.Degraded {
		s.collector.DegradedRowsTotal.Inc()
	}

	pred, err := s.mlBridge.Predict(ctx, row)
	if err != nil {
		return domain.Advisory{}, fmt.Errorf("advisory: prediction failed: %w", err)
	}

	return domain.Advisory{
		Date:           tp.DateString(),
		Hour:           tp.Hour,
		DayOfWeek:      row.DayOfWeek,
		IsWeekend:      row.IsWeekend,
		IsHoliday:      row.IsHoliday,
		Prediction:     pred,
		Weather:        weatherSummary(row),
		Recommendation: recommend(row, pred),
		DataSource:     decision,
		DataSourceInfo: decision.Display(),
		Degraded:       row.Degraded,
	}, nil
}

// maxDistrictDistanceKm bounds how far a client location may be from
// central Malacca before the advisory falls back to the district center.
const maxDistrictDistanceKm = 50.0

func normalizeLocation(lat, lon float64) feature.Location {
	if lat == 0 && lon == 0 {
		return feature.Location{Lat: domain.MelakaCenterLat, Lon: domain.MelakaCenterLon}
	}
	dist := utils.Haversine(lat, lon, domain.MelakaCenterLat, domain.MelakaCenterLon)
	if dist > maxDistrictDistanceKm {
		return feature.Location{Lat: domain.MelakaCenterLat, Lon: domain.MelakaCenterLon}
	}
	return feature.Location{Lat: lat, Lon: lon}
}

// AdvisoryTimeLocation loads the advisory timezone, falling back to UTC if
// the zone database is unavailable.
func AdvisoryTimeLocation() *time.Location {
	loc, err := time.LoadLocation(domain.AdvisoryTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
