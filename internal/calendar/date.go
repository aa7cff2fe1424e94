// Package calendar converts between Gregorian dates, Julian day numbers and
// the tabular Hijri calendar.
//
// The conversions follow the single-precision arithmetic the prayer-time
// engine is calibrated against, so results are stable to the day but the
// Hijri side can differ by up to two days from sighting-based calendars.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTime is returned when a date or clock time cannot be represented.
var ErrInvalidTime = errors.New("invalid date or time")

// ErrInvalidMonth is matched by every *MonthError.
var ErrInvalidMonth = errors.New("no such month")

// MonthError reports a Hijri month outside 1..12.
type MonthError struct {
	Month int
}

func (e *MonthError) Error() string {
	return fmt.Sprintf("no such month: %d", e.Month)
}

// Is makes errors.Is(err, ErrInvalidMonth) true for any *MonthError.
func (e *MonthError) Is(target error) bool {
	return target == ErrInvalidMonth
}

// dateLayout is the textual form used by ParseDate and String.
const dateLayout = "2006-01-02"

// Date is a Gregorian civil date without a time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates and returns the given Gregorian date.
func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidTime, year, int(month), day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// MustDate is like NewDate but panics on an invalid date. Intended for
// tests and constant tables.
func MustDate(year int, month time.Month, day int) Date {
	d, err := NewDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the civil date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidTime, s)
	}
	return DateOf(t), nil
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// Weekday returns the day of the week d falls on.
func (d Date) Weekday() time.Weekday {
	return d.Midnight(time.UTC).Weekday()
}

// Midnight returns the start of d in loc.
func (d Date) Midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
