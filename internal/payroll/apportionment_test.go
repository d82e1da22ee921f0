package payroll_test

import (
	"testing"
	"time"

	"go-lms/internal/payroll"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlapDays(t *testing.T) {
	marchStart, marchEnd := payroll.MonthBounds(2026, time.March)

	tests := []struct {
		name       string
		leaveStart time.Time
		leaveEnd   time.Time
		want       int
	}{
		{
			name:       "leave inside month",
			leaveStart: date(2026, time.March, 10),
			leaveEnd:   date(2026, time.March, 14),
			want:       5,
		},
		{
			name:       "leave spans month start",
			leaveStart: date(2026, time.February, 25),
			leaveEnd:   date(2026, time.March, 3),
			want:       3,
		},
		{
			name:       "leave spans month end",
			leaveStart: date(2026, time.March, 30),
			leaveEnd:   date(2026, time.April, 5),
			want:       2,
		},
		{
			name:       "leave covers whole month",
			leaveStart: date(2026, time.February, 1),
			leaveEnd:   date(2026, time.April, 30),
			want:       31,
		},
		{
			name:       "no overlap",
			leaveStart: date(2026, time.April, 1),
			leaveEnd:   date(2026, time.April, 10),
			want:       0,
		},
		{
			name:       "single day on month boundary",
			leaveStart: date(2026, time.March, 31),
			leaveEnd:   date(2026, time.March, 31),
			want:       1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := payroll.OverlapDays(tt.leaveStart, tt.leaveEnd, marchStart, marchEnd)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonthBounds(t *testing.T) {
	first, last := payroll.MonthBounds(2026, time.February)
	assert.Equal(t, date(2026, time.February, 1), first)
	assert.Equal(t, date(2026, time.February, 28), last)

	first, last = payroll.MonthBounds(2024, time.February)
	assert.Equal(t, date(2024, time.February, 1), first)
	assert.Equal(t, date(2024, time.February, 29), last)
}
