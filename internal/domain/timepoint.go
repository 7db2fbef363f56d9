package domain

import (
	"fmt"
	"time"
)

// TimePoint is a requested (date, hour) travel-time selection.
// Immutable once constructed from user input.
type TimePoint struct {
	Date time.Time // midnight, advisory timezone
	Hour int       // 0..23
}

// NewTimePoint parses an ISO-8601 date and validates the hour.
func NewTimePoint(dateStr string, hour int, loc *time.Location) (TimePoint, error) {
	if hour < 0 || hour > 23 {
		return TimePoint{}, fmt.Errorf("domain: hour %d out of range [0,23]", hour)
	}
	d, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return TimePoint{}, fmt.Errorf("domain: invalid date %q: %w", dateStr, err)
	}
	return TimePoint{Date: d, Hour: hour}, nil
}

// Timestamp combines date and hour into a single instant.
func (tp TimePoint) Timestamp() time.Time {
	return tp.Date.Add(time.Duration(tp.Hour) * time.Hour)
}

// DateString returns the ISO-8601 date.
func (tp TimePoint) DateString() string {
	return tp.Date.Format("2006-01-02")
}

// SameDate reports whether t falls on the same calendar day as the selection.
func (tp TimePoint) SameDate(t time.Time) bool {
	y1, m1, d1 := tp.Date.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
