// Package calendar holds the ISO-8601 week arithmetic and period boundary
// helpers the aggregation jobs depend on. Weeks start on Monday; week 1 of
// a year is the week containing the year's first Thursday.
package calendar

import "time"

// ISOWeek returns the ISO week-based year and week number for a date.
func ISOWeek(date time.Time) (year, week int) {
	return date.ISOWeek()
}

// LastISOWeek returns 52 or 53 for the given year. December 28 always
// falls in the year's last ISO week.
func LastISOWeek(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// WeekStart returns the Monday of the given ISO (year, week).
// January 4 always lies in week 1, so week 1's Monday anchors the rest.
func WeekStart(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	firstMonday := jan4.AddDate(0, 0, 1-weekday)
	return firstMonday.AddDate(0, 0, (week-1)*7)
}

// WeekEnd returns the Sunday of the given ISO (year, week).
func WeekEnd(year, week int) time.Time {
	return WeekStart(year, week).AddDate(0, 0, 6)
}

// MonthStart returns the first day of the given month.
func MonthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last day of the given month.
func MonthEnd(year int, month time.Month) time.Time {
	return MonthStart(year, month).AddDate(0, 1, -1)
}

// YearStart returns January 1 of the given year.
func YearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// YearEnd returns December 31 of the given year.
func YearEnd(year int) time.Time {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// DaysBetween enumerates every date from from to to inclusive. An empty
// slice is returned when from is after to.
func DaysBetween(from, to time.Time) []time.Time {
	from = Truncate(from)
	to = Truncate(to)

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Truncate drops the time-of-day component, keeping the date in UTC.
func Truncate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}
