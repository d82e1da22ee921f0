package workday_test

import (
	"testing"
	"time"

	"go-lms/internal/workday"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculator_Count(t *testing.T) {
	calc := workday.New()

	t.Run("full week excludes weekend", func(t *testing.T) {
		// Mon 2026-03-02 .. Sun 2026-03-08
		days, err := calc.Count(date(2026, 3, 2), date(2026, 3, 8), nil)

		assert.NoError(t, err)
		assert.Equal(t, 5, days)
	})

	t.Run("single working day", func(t *testing.T) {
		days, err := calc.Count(date(2026, 3, 4), date(2026, 3, 4), nil)

		assert.NoError(t, err)
		assert.Equal(t, 1, days)
	})

	t.Run("single weekend day", func(t *testing.T) {
		days, err := calc.Count(date(2026, 3, 7), date(2026, 3, 7), nil)

		assert.NoError(t, err)
		assert.Equal(t, 0, days)
	})

	t.Run("holidays excluded", func(t *testing.T) {
		holidays := workday.HolidaySet{
			"2026-03-03": {},
			"2026-03-05": {},
			"2026-03-07": {}, // Saturday, already excluded
		}

		days, err := calc.Count(date(2026, 3, 2), date(2026, 3, 8), holidays)

		assert.NoError(t, err)
		assert.Equal(t, 3, days)
	})

	t.Run("negative end before start", func(t *testing.T) {
		_, err := calc.Count(date(2026, 3, 8), date(2026, 3, 2), nil)

		assert.ErrorIs(t, err, workday.ErrInvalidRange)
	})

	t.Run("custom weekend", func(t *testing.T) {
		calc := workday.NewWithWeekend(time.Friday, time.Saturday)

		// Mon 2026-03-02 .. Sun 2026-03-08; Fri+Sat excluded instead
		days, err := calc.Count(date(2026, 3, 2), date(2026, 3, 8), nil)

		assert.NoError(t, err)
		assert.Equal(t, 5, days)
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		start := time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)
		end := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)

		days, err := calc.Count(start, end, nil)

		assert.NoError(t, err)
		assert.Equal(t, 1, days)
	})
}

func TestCalculator_Remaining(t *testing.T) {
	calc := workday.New()

	t.Run("midway recall", func(t *testing.T) {
		// leave Mon..Fri, recalled effective Wednesday: Thu+Fri remain
		days, err := calc.Remaining(date(2026, 3, 4), date(2026, 3, 6), nil)

		assert.NoError(t, err)
		assert.Equal(t, 2, days)
	})

	t.Run("cutoff at end leaves nothing", func(t *testing.T) {
		days, err := calc.Remaining(date(2026, 3, 6), date(2026, 3, 6), nil)

		assert.NoError(t, err)
		assert.Equal(t, 0, days)
	})
}
