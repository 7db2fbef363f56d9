package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by HistoryRepository lookups that match no row.
var ErrNotFound = errors.New("history: record not found")

// HistoryRepository defines read access to the pre-loaded historical table
// of hourly weather and holiday flags.
// This follows the Dependency Inversion Principle - domain defines the interface
type HistoryRepository interface {
	// GetByDateHour returns the exact row for (date, hour), or ErrNotFound.
	GetByDateHour(ctx context.Context, date time.Time, hour int) (HistoryRecord, error)

	// GetLatestByHour returns the chronologically latest row whose hour of
	// day equals hour, or ErrNotFound if no such row exists anywhere.
	GetLatestByHour(ctx context.Context, hour int) (HistoryRecord, error)

	// IsHoliday reports the holiday flag of any row on date. A date with no
	// rows is not a holiday.
	IsHoliday(ctx context.Context, date time.Time) (bool, error)

	// Health checks backing-store connectivity
	Health(ctx context.Context) error
}
