package domain

import "time"

// Clock returns the current time in the shop's time zone
type Clock func() time.Time

// NewClock returns a clock reporting wall time in loc
func NewClock(loc *time.Location) Clock {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// FixedClock always returns t; used by tests and replays
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// DayKey formats the calendar date of t
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
