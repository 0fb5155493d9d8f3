package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastISOWeek(t *testing.T) {
	assert.Equal(t, 53, LastISOWeek(2020))
	assert.Equal(t, 52, LastISOWeek(2021))
	assert.Equal(t, 52, LastISOWeek(2022))
	assert.Equal(t, 53, LastISOWeek(2015))
}

func TestWeekStartEnd(t *testing.T) {
	// ISO week 1 of 2021 runs Monday 2021-01-04 through Sunday 2021-01-10.
	start := WeekStart(2021, 1)
	end := WeekEnd(2021, 1)
	assert.Equal(t, time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC), end)

	// Week 53 of 2020 spans the year boundary.
	start = WeekStart(2020, 53)
	end = WeekEnd(2020, 53)
	assert.Equal(t, time.Date(2020, 12, 28, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC), end)

	// Every computed Monday must agree with ISOWeek on the same pair.
	for week := 1; week <= LastISOWeek(2020); week++ {
		y, w := WeekStart(2020, week).ISOWeek()
		require.Equal(t, 2020, y)
		require.Equal(t, week, w)
	}
}

func TestMonthBounds(t *testing.T) {
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), MonthStart(2024, time.February))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), MonthEnd(2024, time.February))
	assert.Equal(t, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC), MonthEnd(2023, time.February))
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), MonthEnd(2023, time.December))
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2023, 3, 30, 15, 4, 5, 0, time.UTC)
	to := time.Date(2023, 4, 2, 0, 0, 0, 0, time.UTC)

	days := DaysBetween(from, to)
	require.Len(t, days, 4)
	assert.Equal(t, time.Date(2023, 3, 30, 0, 0, 0, 0, time.UTC), days[0])
	assert.Equal(t, time.Date(2023, 4, 2, 0, 0, 0, 0, time.UTC), days[3])

	assert.Empty(t, DaysBetween(to, from))
}
