package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/melakago/backend/internal/domain"
)

// PostgresRepository implements domain.HistoryRepository over an
// hourly_history table loaded once from the dashboard dataset.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const historyColumns = `ts, temperature_c, relative_humidity_pct, weather_code, windspeed_kmh, is_holiday`

func scanRecord(row pgx.Row) (domain.HistoryRecord, error) {
	var rec domain.HistoryRecord
	err := row.Scan(
		&rec.Sample.Timestamp,
		&rec.Sample.TemperatureC,
		&rec.Sample.RelativeHumidityPct,
		&rec.Sample.WeatherCode,
		&rec.Sample.WindspeedKmh,
		&rec.IsHoliday,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.HistoryRecord{}, domain.ErrNotFound
		}
		return domain.HistoryRecord{}, fmt.Errorf("postgres: failed to scan history row: %w", err)
	}
	return rec, nil
}

// GetByDateHour returns the exact historical row for (date, hour).
func (r *PostgresRepository) GetByDateHour(ctx context.Context, date time.Time, hour int) (domain.HistoryRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM hourly_history
		WHERE ts >= $1 AND ts < $1 + interval '1 day'
		  AND EXTRACT(HOUR FROM ts) = $2
		ORDER BY ts
		LIMIT 1
	`, historyColumns)

	return scanRecord(r.pool.QueryRow(ctx, query, date, hour))
}

// GetLatestByHour returns the chronologically latest row with the given
// hour of day.
func (r *PostgresRepository) GetLatestByHour(ctx context.Context, hour int) (domain.HistoryRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM hourly_history
		WHERE EXTRACT(HOUR FROM ts) = $1
		ORDER BY ts DESC
		LIMIT 1
	`, historyColumns)

	return scanRecord(r.pool.QueryRow(ctx, query, hour))
}

// IsHoliday reports the holiday flag of any row on date.
func (r *PostgresRepository) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	query := `
		SELECT is_holiday
		FROM hourly_history
		WHERE ts >= $1 AND ts < $1 + interval '1 day'
		LIMIT 1
	`

	var holiday bool
	if err := r.pool.QueryRow(ctx, query, date).Scan(&holiday); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("postgres: failed to query holiday flag: %w", err)
	}
	return holiday, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
