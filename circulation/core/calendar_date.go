package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	calendarDateLayout = "2006-01-02"
	secondsPerDay      = 24 * 60 * 60
)

// ErrInvalidCalendarDate is returned when a date string is not YYYY-MM-DD.
var ErrInvalidCalendarDate = errors.New("date must have the form YYYY-MM-DD")

// CalendarDate is a day without time of day or zone. Due dates and overdue days are computed on it.
// The zero value is "no date".
type CalendarDate struct {
	midnightUTC time.Time
}

// NewCalendarDate builds a date. Out-of-range values are normalized like time.Date does.
func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{midnightUTC: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// CalendarDateOf returns the calendar date of t as seen in loc.
func CalendarDateOf(t time.Time, loc *time.Location) CalendarDate {
	y, m, d := t.In(loc).Date()

	return NewCalendarDate(y, m, d)
}

// ParseCalendarDate parses YYYY-MM-DD or a full RFC 3339 timestamp.
// For a timestamp the date is taken as written, in the timestamp's own offset.
func ParseCalendarDate(value string) (CalendarDate, error) {
	if len(value) > len(calendarDateLayout) && value[len(calendarDateLayout)] == 'T' {
		t, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return CalendarDate{}, errors.Join(ErrInvalidCalendarDate, err)
		}

		y, m, d := t.Date()

		return NewCalendarDate(y, m, d), nil
	}

	t, err := time.Parse(calendarDateLayout, value)
	if err != nil {
		return CalendarDate{}, errors.Join(ErrInvalidCalendarDate, err)
	}

	return CalendarDate{midnightUTC: t}, nil
}

func (d CalendarDate) IsZero() bool {
	return d.midnightUTC.IsZero()
}

func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}

	return d.midnightUTC.Format(calendarDateLayout)
}

func (d CalendarDate) Before(other CalendarDate) bool {
	return d.midnightUTC.Before(other.midnightUTC)
}

func (d CalendarDate) After(other CalendarDate) bool {
	return d.midnightUTC.After(other.midnightUTC)
}

func (d CalendarDate) Equal(other CalendarDate) bool {
	return d.midnightUTC.Equal(other.midnightUTC)
}

// AddDays returns the date n days later (or earlier for negative n).
func (d CalendarDate) AddDays(n int) CalendarDate {
	return CalendarDate{midnightUTC: d.midnightUTC.AddDate(0, 0, n)}
}

// DaysSince returns the number of whole days from other to d, negative if d is earlier.
func (d CalendarDate) DaysSince(other CalendarDate) int {
	return int(d.dayNumber() - other.dayNumber())
}

// dayNumber counts days since 1970-01-01. Both dates sit on UTC midnight, so the division is exact.
func (d CalendarDate) dayNumber() int64 {
	return d.midnightUTC.Unix() / secondsPerDay
}

// YearMonth returns "YYYY-MM".
func (d CalendarDate) YearMonth() string {
	return d.midnightUTC.Format("2006-01")
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}

	return []byte(`"` + d.String() + `"`), nil
}

func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrInvalidCalendarDate, data)
	}

	value := string(data[1 : len(data)-1])
	if value == "" {
		*d = CalendarDate{}
		return nil
	}

	parsed, err := ParseCalendarDate(value)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}
