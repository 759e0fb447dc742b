package matcher

import (
	"time"

	"github.com/reugn/go-recur/recur"
)

// Date implements the recur.Matcher interface with the type argument
// recur.Occurrence, matching occurrences starting on a calendar day.
// It has public fields to allow inspecting matchers passed to custom
// occurrence filters.
type Date struct {
	Year  int
	Month time.Month
	Day   int
	// Location is the location of the calendar day. The location of the
	// occurrence is used if nil.
	Location *time.Location
}

var _ recur.Matcher[recur.Occurrence] = (*Date)(nil)

// OnDate returns a new Date matcher for the calendar day of t, in the
// location of t.
func OnDate(t time.Time) recur.Matcher[recur.Occurrence] {
	year, month, day := t.Date()
	return &Date{Year: year, Month: month, Day: day, Location: t.Location()}
}

// IsMatch evaluates Date matcher on the given occurrence.
func (d *Date) IsMatch(o recur.Occurrence) bool {
	t := o.Time
	if d.Location != nil {
		t = t.In(d.Location)
	}
	year, month, day := t.Date()
	return year == d.Year && month == d.Month && day == d.Day
}

// Weekday implements the recur.Matcher interface with the type argument
// recur.Occurrence, matching occurrences by the day of the week they start
// on, in the location of the occurrence.
type Weekday struct {
	Weekday time.Weekday
}

var _ recur.Matcher[recur.Occurrence] = (*Weekday)(nil)

// OnWeekday returns a new Weekday matcher.
func OnWeekday(wd time.Weekday) recur.Matcher[recur.Occurrence] {
	return &Weekday{Weekday: wd}
}

// IsMatch evaluates Weekday matcher on the given occurrence.
func (w *Weekday) IsMatch(o recur.Occurrence) bool {
	return o.Time.Weekday() == w.Weekday
}

// Interval implements the recur.Matcher interface with the type argument
// recur.Occurrence, matching occurrences starting within [From, To].
// A zero bound is open.
type Interval struct {
	From time.Time
	To   time.Time
}

var _ recur.Matcher[recur.Occurrence] = (*Interval)(nil)

// Between returns a new Interval matcher.
func Between(from, to time.Time) recur.Matcher[recur.Occurrence] {
	return &Interval{From: from, To: to}
}

// IsMatch evaluates Interval matcher on the given occurrence.
func (i *Interval) IsMatch(o recur.Occurrence) bool {
	if !i.From.IsZero() && o.Time.Before(i.From) {
		return false
	}
	return i.To.IsZero() || !o.Time.After(i.To)
}
