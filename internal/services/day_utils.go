package services

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"
const MonthLayout = "2006-01"

// Clock reports the current instant. Tests pin it.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (fn ClockFunc) Now() time.Time {
	return fn()
}

var SystemClock Clock = ClockFunc(time.Now)

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DateString(value time.Time, location *time.Location) string {
	return DateAtLocation(value, location).Format(DateLayout)
}

func Today(clock Clock, location *time.Location) string {
	if clock == nil {
		clock = SystemClock
	}
	return DateString(clock.Now(), location)
}

// ParseDateString accepts only canonical YYYY-MM-DD values.
func ParseDateString(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	trimmed := strings.TrimSpace(raw)
	parsed, err := time.ParseInLocation(DateLayout, trimmed, location)
	if err != nil || parsed.Format(DateLayout) != trimmed {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return parsed, nil
}

func CanonicalDate(raw string) (string, error) {
	parsed, err := ParseDateString(raw, time.UTC)
	if err != nil {
		return "", err
	}
	return parsed.Format(DateLayout), nil
}

// AddDays works on canonical strings; invalid input is returned unchanged.
func AddDays(dateString string, days int) string {
	parsed, err := time.ParseInLocation(DateLayout, dateString, time.UTC)
	if err != nil {
		return dateString
	}
	return parsed.AddDate(0, 0, days).Format(DateLayout)
}

// IsFuture compares canonical strings, which sort chronologically.
func IsFuture(dateString string, today string) bool {
	return dateString > today
}

// MonthStart resolves a YYYY-MM value, or the month containing today when raw is empty or invalid.
func MonthStart(raw string, today string) time.Time {
	if parsed, err := time.ParseInLocation(MonthLayout, strings.TrimSpace(raw), time.UTC); err == nil {
		return parsed
	}
	parsedToday, err := time.ParseInLocation(DateLayout, today, time.UTC)
	if err != nil {
		parsedToday = time.Now().UTC()
	}
	return time.Date(parsedToday.Year(), parsedToday.Month(), 1, 0, 0, 0, 0, time.UTC)
}
