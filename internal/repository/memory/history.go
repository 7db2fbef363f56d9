package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/melakago/backend/internal/domain"
)

// HistoryRepository implements domain.HistoryRepository over the dashboard
// CSV, loaded once at process start and immutable thereafter.
type HistoryRepository struct {
	records []domain.HistoryRecord // sorted by timestamp ascending
}

// NewFromRecords builds a repository from pre-parsed rows.
func NewFromRecords(records []domain.HistoryRecord) *HistoryRepository {
	sorted := make([]domain.HistoryRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Sample.Timestamp.Before(sorted[j].Sample.Timestamp)
	})
	return &HistoryRepository{records: sorted}
}

// NewFromCSV loads the historical table from the dashboard dataset. loc is
// the timezone the datetime column is local to.
func NewFromCSV(path string, loc *time.Location) (*HistoryRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("memory: failed to open history file: %w", err)
	}
	defer f.Close()

	records, err := parseCSV(f, loc)
	if err != nil {
		return nil, fmt.Errorf("memory: %s: %w", path, err)
	}
	return NewFromRecords(records), nil
}

// Columns of the dashboard dataset.
const (
	colDatetime = "datetime"
	colTemp     = "temperature_2m"
	colHumidity = "relative_humidity_2m"
	colCode     = "weathercode"
	colWind     = "windspeed_10m"
	colHoliday  = "is_holiday_mlk"
)

var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

func parseCSV(r io.Reader, loc *time.Location) ([]domain.HistoryRecord, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col[colDatetime]; !ok {
		return nil, fmt.Errorf("missing %q column", colDatetime)
	}

	var records []domain.HistoryRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		ts, err := parseDatetime(field(row, col, colDatetime), loc)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec := domain.HistoryRecord{
			Sample: domain.WeatherSample{
				Timestamp:           ts,
				TemperatureC:        parseFloat(field(row, col, colTemp)),
				RelativeHumidityPct: parseFloat(field(row, col, colHumidity)),
				WeatherCode:         parseInt(field(row, col, colCode)),
				WindspeedKmh:        parseFloat(field(row, col, colWind)),
			},
			IsHoliday: parseBool(field(row, col, colHoliday)),
		}
		records = append(records, rec)
	}

	return records, nil
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseDatetime(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", s)
}

// Blank or malformed numeric cells become nil; the feature builder owns
// default substitution.
func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	if s == "" {
		return nil
	}
	// Pandas writes integer columns as floats once a NaN appears.
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	i := int(v)
	return &i
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return v
}

// Len returns the number of loaded rows.
func (r *HistoryRepository) Len() int {
	return len(r.records)
}

// GetByDateHour returns the exact row for (date, hour), or ErrNotFound.
func (r *HistoryRepository) GetByDateHour(ctx context.Context, date time.Time, hour int) (domain.HistoryRecord, error) {
	y, m, d := date.Date()
	for _, rec := range r.records {
		ts := rec.Sample.Timestamp
		ry, rm, rd := ts.Date()
		if ry == y && rm == m && rd == d && ts.Hour() == hour {
			return rec, nil
		}
	}
	return domain.HistoryRecord{}, domain.ErrNotFound
}

// GetLatestByHour returns the chronologically latest row with the given
// hour of day.
func (r *HistoryRepository) GetLatestByHour(ctx context.Context, hour int) (domain.HistoryRecord, error) {
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].Sample.Timestamp.Hour() == hour {
			return r.records[i], nil
		}
	}
	return domain.HistoryRecord{}, domain.ErrNotFound
}

// IsHoliday reports the holiday flag of any row on date.
func (r *HistoryRepository) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	y, m, d := date.Date()
	for _, rec := range r.records {
		ry, rm, rd := rec.Sample.Timestamp.Date()
		if ry == y && rm == m && rd == d {
			return rec.IsHoliday, nil
		}
	}
	return false, domain.ErrNotFound
}

// Health always succeeds for the in-memory table.
func (r *HistoryRepository) Health(ctx context.Context) error {
	return nil
}

var _ domain.HistoryRepository = (*HistoryRepository)(nil)
