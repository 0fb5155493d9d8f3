package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resolveNow = time.Date(2023, 5, 10, 9, 0, 0, 0, time.UTC) // Wednesday, ISO week 19

func TestResolveDefaults(t *testing.T) {
	params, err := Resolve(Options{}, resolveNow, "100")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, 5, 9, 0, 0, 0, 0, time.UTC), params.TargetDate)
	assert.Equal(t, "100", params.CategoryCode)
	assert.Equal(t, 2023, params.Year)
	assert.Equal(t, 5, params.Month)
	assert.Equal(t, 18, params.Week) // week preceding the current ISO week
}

func TestResolveDefaultWeekAcrossYearBoundary(t *testing.T) {
	// January 3 2023 is in ISO week 1; the preceding ISO week is week 52
	// of 2022, so the defaulted pair must move back a year together.
	now := time.Date(2023, 1, 3, 8, 0, 0, 0, time.UTC)

	params, err := Resolve(Options{}, now, "100")
	require.NoError(t, err)
	assert.Equal(t, 2022, params.Year)
	assert.Equal(t, 52, params.Week)
}

func TestResolveExplicitValues(t *testing.T) {
	params, err := Resolve(Options{
		TargetDate:   "2022-11-30",
		CategoryCode: "400",
		Year:         "2020",
		Month:        "7",
		Week:         "53",
	}, resolveNow, "100")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2022, 11, 30, 0, 0, 0, 0, time.UTC), params.TargetDate)
	assert.Equal(t, "400", params.CategoryCode)
	assert.Equal(t, 2020, params.Year)
	assert.Equal(t, 7, params.Month)
	assert.Equal(t, 53, params.Week) // 2020 actually has 53 ISO weeks
}

func TestResolveMonthNormalization(t *testing.T) {
	tests := map[string]int{"13": 1, "0": 12, "12": 12, "25": 1, "-1": 11}
	for raw, want := range tests {
		params, err := Resolve(Options{Month: raw}, resolveNow, "100")
		require.NoError(t, err, "month=%s", raw)
		assert.Equal(t, want, params.Month, "month=%s", raw)
	}
}

func TestResolveFatalParams(t *testing.T) {
	cases := []Options{
		{TargetDate: "2023/05/01"},
		{Year: "abc"},
		{Year: "1899"},
		{Year: "3001"},
		{Month: "seven"},
		{Week: "0"},
		{Week: "54"},
		{Week: "nope"},
		{Year: "2021", Week: "53"}, // 2021 only has 52 ISO weeks
	}

	for _, opts := range cases {
		_, err := Resolve(opts, resolveNow, "100")
		assert.ErrorIs(t, err, ErrInvalidParam, "opts=%+v", opts)
	}
}
