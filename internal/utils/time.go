package utils

import (
	"fmt"
	"time"

	"github.com/nudgelabs/nudge-core/internal/constants"
)

// DayString formats a time as the standard date string (YYYY-MM-DD).
func DayString(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// CalendarDaysBetween returns the number of whole calendar days from a to b,
// computed on day boundaries so that 23:59 to 00:01 still counts as one day.
func CalendarDaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, a.Location())
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, b.Location())
	return int(bd.Sub(ad).Hours() / 24)
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// ParseDay parses a date string in the standard format (YYYY-MM-DD).
func ParseDay(dateStr string) (time.Time, error) {
	return time.Parse(constants.DateFormat, dateStr)
}

// CombineDayAndTime anchors a clock time string (HH:MM) onto the calendar
// day of the given date, in the date's location.
func CombineDayAndTime(date time.Time, timeStr string) (time.Time, error) {
	clock, err := ParseTime(timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %w", err)
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0,
		date.Location(),
	), nil
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTime(timeStr)
	return err == nil
}
