package calendar

import "time"

const KeyLayout = "2006-01-02"

// Day drops the time of day, keeping the calendar date as seen in t's own
// location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Key(t time.Time) string {
	return Day(t).Format(KeyLayout)
}

func ParseKey(s string) (time.Time, error) {
	return time.Parse(KeyLayout, s)
}

// Days expands [start, end] into one value per calendar day. It returns nil
// when start is after end.
func Days(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	if start.After(end) {
		return nil
	}
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Count is the number of days in [start, end], 0 when start is after end.
func Count(start, end time.Time) int {
	start, end = Day(start), Day(end)
	if start.After(end) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// MonthBounds returns the first and last day of a month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// Months lists each (year, month) touched by [start, end].
func Months(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	var out []time.Time
	for m := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !m.After(end); m = m.AddDate(0, 1, 0) {
		out = append(out, m)
	}
	return out
}
