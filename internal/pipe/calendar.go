package pipe

import (
	"fmt"
	"time"
)

const (
	minYear       = 1
	maxYear       = 9999
	secondsPerDay = 24 * 60 * 60
)

// date is a calendar day without a location.
type date struct {
	year  int
	month time.Month
	day   int
}

// newDate returns the normalized date, so that month 13 or day 0 roll over
// the same way time.Date does.
func newDate(year int, month time.Month, day int) date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return date{t.Year(), t.Month(), t.Day()}
}

func (d date) utc() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d date) addDays(n int) date {
	return newDate(d.year, d.month, d.day+n)
}

// epochDay returns the number of days since 1970-01-01.
func (d date) epochDay() int {
	return int(d.utc().Unix() / secondsPerDay)
}

func (d date) weekday() time.Weekday {
	return d.utc().Weekday()
}

// monthIndex returns a month counter that grows by one from month to month.
func (d date) monthIndex() int {
	return d.year*12 + int(d.month) - 1
}

func (d date) compare(o date) int {
	switch {
	case d.year != o.year:
		return sign(d.year - o.year)
	case d.month != o.month:
		return sign(int(d.month) - int(o.month))
	default:
		return sign(d.day - o.day)
	}
}

func (d date) before(o date) bool {
	return d.compare(o) < 0
}

func (d date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// fromMonthIndex is the inverse of date.monthIndex.
func fromMonthIndex(i int) (int, time.Month) {
	year := floorDiv(i, 12)
	return year, time.Month(i - year*12 + 1)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func firstOfMonth(year int, month time.Month) date {
	return date{year, month, 1}
}

func lastOfMonth(year int, month time.Month) date {
	return date{year, month, daysIn(year, month)}
}

func minDate(a, b date) date {
	if a.before(b) {
		return a
	}
	return b
}

func maxDate(a, b date) date {
	if a.before(b) {
		return b
	}
	return a
}

// wall is a wall-clock reading: a date plus a time of day.
type wall struct {
	date
	hour   int
	minute int
	second int
}

func wallOf(t time.Time) wall {
	year, month, day := t.Date()
	hour, minute, second := t.Clock()
	return wall{date{year, month, day}, hour, minute, second}
}

// normalized rolls over out of range fields, e.g. hour 24 becomes hour 0 of
// the following day.
func (w wall) normalized() wall {
	return wallOf(time.Date(w.year, w.month, w.day, w.hour, w.minute, w.second, 0, time.UTC))
}

// in returns the instant the wall clock reading denotes in loc. Readings that
// fall into a gap are shifted by time.Date; callers compare the result with
// the reading to detect it.
func (w wall) in(loc *time.Location) time.Time {
	return time.Date(w.year, w.month, w.day, w.hour, w.minute, w.second, 0, loc)
}

func (w wall) String() string {
	return fmt.Sprintf("%sT%02d:%02d:%02d", w.date, w.hour, w.minute, w.second)
}

func startOfDay(d date) wall {
	return wall{date: d}
}

func endOfDay(d date) wall {
	return wall{d, 23, 59, 59}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorDiv64(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
