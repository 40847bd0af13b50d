package shell

import (
	"time"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

// Clock tells the time and the calendar date in the library's time zone.
type Clock struct {
	location *time.Location
	now      func() time.Time
}

// NewClock returns a wall clock for loc. A nil loc means UTC.
func NewClock(loc *time.Location) Clock {
	return NewClockWith(loc, time.Now)
}

// NewClockWith returns a clock that reads the time from now.
func NewClockWith(loc *time.Location, now func() time.Time) Clock {
	if loc == nil {
		loc = time.UTC
	}

	return Clock{location: loc, now: now}
}

// Now returns the current instant.
func (c Clock) Now() time.Time {
	return c.now()
}

// Today returns the current calendar date in the library's time zone.
func (c Clock) Today() core.CalendarDate {
	return core.CalendarDateOf(c.now(), c.location)
}

// Location returns the library's time zone.
func (c Clock) Location() *time.Location {
	return c.location
}
