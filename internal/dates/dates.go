package dates

import "time"

// DayFormat is the wire format for calendar days. All day strings in the
// cache are local-timezone calendar days, never instants.
const DayFormat = "2006-01-02"

// Day formats t as a local calendar day.
func Day(t time.Time) string {
	return t.Format(DayFormat)
}

// Today returns the current local calendar day.
func Today() string {
	return Day(time.Now())
}

// Parse parses a YYYY-MM-DD day string.
func Parse(day string) (time.Time, error) {
	return time.ParseInLocation(DayFormat, day, time.Local)
}

// PrevDay returns the calendar day before day. Invalid input returns "".
func PrevDay(day string) string {
	t, err := Parse(day)
	if err != nil {
		return ""
	}
	return Day(t.AddDate(0, 0, -1))
}

// IsYesterday reports whether day is exactly one calendar day before today.
func IsYesterday(day, today string) bool {
	return day != "" && day == PrevDay(today)
}

// WithinDays reports whether day falls inside the n-day window ending at
// today, inclusive on both ends.
func WithinDays(day, today string, n int) bool {
	d, err := Parse(day)
	if err != nil {
		return false
	}
	t, err := Parse(today)
	if err != nil {
		return false
	}
	if d.After(t) {
		return false
	}
	return !d.Before(t.AddDate(0, 0, -(n - 1)))
}
