package workday

import (
	"net/http"
	"time"

	"go-lms/internal/shared/apperror"
)

var ErrInvalidRange = apperror.New(
	apperror.CodeInvalidInput,
	"end date must not be before start date",
	http.StatusBadRequest,
)

const DateLayout = "2006-01-02"

// HolidaySet holds holiday dates keyed by their YYYY-MM-DD form.
type HolidaySet map[string]struct{}

func (s HolidaySet) Contains(d time.Time) bool {
	_, ok := s[d.Format(DateLayout)]
	return ok
}

// Calculator counts working days for a date span. It is pure: same inputs,
// same result, so callers are free to cache.
type Calculator struct {
	weekend map[time.Weekday]bool
}

// New returns a calculator with the default Saturday/Sunday weekend.
func New() *Calculator {
	return NewWithWeekend(time.Saturday, time.Sunday)
}

func NewWithWeekend(days ...time.Weekday) *Calculator {
	weekend := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		weekend[d] = true
	}
	return &Calculator{weekend: weekend}
}

// Count returns the number of working days in [start, end], inclusive of
// both endpoints, excluding weekend days and any date in holidays.
func (c *Calculator) Count(start, end time.Time, holidays HolidaySet) (int, error) {
	start = truncate(start)
	end = truncate(end)
	if end.Before(start) {
		return 0, ErrInvalidRange
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if c.weekend[d.Weekday()] {
			continue
		}
		if holidays.Contains(d) {
			continue
		}
		days++
	}
	return days, nil
}

// Remaining counts the working days strictly after cutoff up to end.
// Used when a leave is recalled mid-span to compute the unused remainder.
func (c *Calculator) Remaining(cutoff, end time.Time, holidays HolidaySet) (int, error) {
	from := truncate(cutoff).AddDate(0, 0, 1)
	if truncate(end).Before(from) {
		return 0, nil
	}
	return c.Count(from, end, holidays)
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
