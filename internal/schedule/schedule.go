// Package schedule decides whether temple staff are available to chat,
// based on a weekly table of opening hours in one fixed civil timezone.
package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
	_ "time/tzdata" // fallback when the host has no zoneinfo database
)

// Interval is a half-open hour range [Open, Close) in local civil hours.
type Interval struct {
	Open  int
	Close int
}

// Contains reports whether hour falls inside the interval.
func (iv Interval) Contains(hour int) bool {
	return iv.Open <= hour && hour < iv.Close
}

// Weekly maps a day of week to its opening intervals. A missing or empty
// day is always offline.
type Weekly map[time.Weekday][]Interval

// Validate checks bounds and that no two intervals of a day overlap.
func (w Weekly) Validate() error {
	for day, intervals := range w {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("invalid weekday %d", day)
		}
		sorted := make([]Interval, len(intervals))
		copy(sorted, intervals)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Open < sorted[j].Open })
		for i, iv := range sorted {
			if iv.Open < 0 || iv.Close > 24 || iv.Open >= iv.Close {
				return fmt.Errorf("%s: invalid interval [%d, %d)", day, iv.Open, iv.Close)
			}
			if i > 0 && sorted[i-1].Close > iv.Open {
				return fmt.Errorf("%s: interval [%d, %d) overlaps [%d, %d)",
					day, iv.Open, iv.Close, sorted[i-1].Open, sorted[i-1].Close)
			}
		}
	}
	return nil
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// Calculator maps the current instant to online/offline.
type Calculator struct {
	week  Weekly
	loc   *time.Location
	clock Clock
}

// New creates a Calculator. A nil clock means the system clock.
func New(week Weekly, loc *time.Location, clock Clock) (*Calculator, error) {
	if loc == nil {
		return nil, fmt.Errorf("location cannot be nil")
	}
	if err := week.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Calculator{week: week, loc: loc, clock: clock}, nil
}

// IsOnline reports whether staff are available right now.
func (c *Calculator) IsOnline() bool {
	return c.OnlineAt(c.clock.Now())
}

// OnlineAt reports whether staff are available at t. The hour and weekday
// are taken in the calculator's timezone.
func (c *Calculator) OnlineAt(t time.Time) bool {
	local := t.In(c.loc)
	hour := local.Hour()
	for _, iv := range c.week[local.Weekday()] {
		if iv.Contains(hour) {
			return true
		}
	}
	return false
}

// Location returns the timezone the calculator evaluates hours in.
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// LoadLocation resolves an IANA zone name. The embedded tzdata package is
// used when the host database is missing.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("timezone name is empty")
	}
	return time.LoadLocation(name)
}

var weekdayKeys = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday, "0": time.Sunday,
	"mon": time.Monday, "monday": time.Monday, "1": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday, "2": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday, "3": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday, "4": time.Thursday,
	"fri": time.Friday, "friday": time.Friday, "5": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday, "6": time.Saturday,
}

// ParseWeekday accepts short or long English day names, or 0-6 with Sunday first.
func ParseWeekday(s string) (time.Weekday, bool) {
	d, ok := weekdayKeys[strings.ToLower(strings.TrimSpace(s))]
	return d, ok
}
