package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"agriprice/internal/calendar"
)

// ErrInvalidParam marks configuration errors in trigger parameters. They
// abort a run before any I/O is attempted.
var ErrInvalidParam = errors.New("ingest: invalid job parameter")

const (
	minYear = 1900
	maxYear = 3000
)

// Options carries the raw trigger parameters as a scheduler or the HTTP
// API hands them over. Empty fields fall back to defaults during Resolve.
type Options struct {
	TargetDate   string // yyyy-MM-dd
	CategoryCode string
	Year         string
	Month        string
	Week         string
}

// Params is the resolved, immutable parameter set one run operates on.
type Params struct {
	TargetDate   time.Time
	CategoryCode string
	Year         int
	Month        int
	Week         int
}

// Resolve applies defaults and validation to trigger options, relative to
// the invocation time. Defaults: target date is yesterday, category is the
// configured default, year/month are current, week is the ISO week
// preceding the current one. An out-of-range year or week is fatal; an
// out-of-range month is normalized into 1..12 by modular arithmetic.
func Resolve(opts Options, now time.Time, defaultCategory string) (Params, error) {
	targetDate := calendar.Truncate(now.AddDate(0, 0, -1))
	if opts.TargetDate != "" {
		parsed, err := time.Parse("2006-01-02", opts.TargetDate)
		if err != nil {
			return Params{}, fmt.Errorf("%w: targetDate %q is not yyyy-MM-dd", ErrInvalidParam, opts.TargetDate)
		}
		targetDate = calendar.Truncate(parsed)
	}

	category := defaultCategory
	if opts.CategoryCode != "" {
		category = opts.CategoryCode
	}

	// Defaulted week and year come from the same reference date (seven
	// days back), so a run in early January lands on the last ISO week of
	// the previous year instead of a nonexistent week 0.
	prevISOYear, prevISOWeek := now.AddDate(0, 0, -7).ISOWeek()

	year := now.Year()
	if opts.Week == "" && opts.Year == "" {
		year = prevISOYear
	}
	if opts.Year != "" {
		parsed, err := strconv.Atoi(opts.Year)
		if err != nil {
			return Params{}, fmt.Errorf("%w: year %q is not numeric", ErrInvalidParam, opts.Year)
		}
		if parsed < minYear || parsed > maxYear {
			return Params{}, fmt.Errorf("%w: year %d outside %d..%d", ErrInvalidParam, parsed, minYear, maxYear)
		}
		year = parsed
	}

	month := int(now.Month())
	if opts.Month != "" {
		parsed, err := strconv.Atoi(opts.Month)
		if err != nil {
			return Params{}, fmt.Errorf("%w: month %q is not numeric", ErrInvalidParam, opts.Month)
		}
		month = normalizeMonth(parsed)
	}

	week := prevISOWeek
	if opts.Week != "" {
		parsed, err := strconv.Atoi(opts.Week)
		if err != nil {
			return Params{}, fmt.Errorf("%w: week %q is not numeric", ErrInvalidParam, opts.Week)
		}
		if parsed < 1 || parsed > 53 {
			return Params{}, fmt.Errorf("%w: week %d outside 1..53", ErrInvalidParam, parsed)
		}
		week = parsed
	}
	if last := calendar.LastISOWeek(year); week > last {
		return Params{}, fmt.Errorf("%w: year %d has only %d ISO weeks, got week %d", ErrInvalidParam, year, last, week)
	}

	return Params{
		TargetDate:   targetDate,
		CategoryCode: category,
		Year:         year,
		Month:        month,
		Week:         week,
	}, nil
}

// normalizeMonth maps any integer onto 1..12: 13 wraps to 1, 0 to 12.
func normalizeMonth(month int) int {
	normalized := ((month % 12) + 12) % 12
	if normalized == 0 {
		return 12
	}
	return normalized
}
