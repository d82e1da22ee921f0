package payroll

import "time"

// OverlapDays returns the inclusive calendar-day overlap between the leave
// span and the payroll month, floored at 0 when they do not intersect.
// Used to apportion a leave that crosses month boundaries.
func OverlapDays(leaveStart, leaveEnd, monthStart, monthEnd time.Time) int {
	start := truncate(leaveStart)
	end := truncate(leaveEnd)
	mStart := truncate(monthStart)
	mEnd := truncate(monthEnd)

	if start.Before(mStart) {
		start = mStart
	}
	if end.After(mEnd) {
		end = mEnd
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// MonthBounds returns the first and last calendar day of a month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
