package recur

import (
	"fmt"
	"slices"
	"sort"
	"time"
)

// Dates is a Source producing an explicit list of date-times.
// Duplicate date-times are kept. A Dates value is immutable.
type Dates struct {
	times    []time.Time
	duration time.Duration
}

var _ Source = (*Dates)(nil)

// NewDates returns a new Dates source given the date-times.
func NewDates(times ...time.Time) *Dates {
	sorted := slices.Clone(times)
	slices.SortStableFunc(sorted, func(a, b time.Time) int { return a.Compare(b) })
	return &Dates{times: sorted}
}

// WithDuration returns a copy of the source whose occurrences last d.
func (d *Dates) WithDuration(duration time.Duration) *Dates {
	return &Dates{times: d.times, duration: duration}
}

// Add returns a copy of the source with the date-times added.
func (d *Dates) Add(times ...time.Time) *Dates {
	added := NewDates(append(slices.Clone(d.times), times...)...)
	added.duration = d.duration
	return added
}

// Remove returns a copy of the source without any date-time equal to one of
// the given ones.
func (d *Dates) Remove(times ...time.Time) *Dates {
	kept := slices.DeleteFunc(slices.Clone(d.times), func(t time.Time) bool {
		return slices.ContainsFunc(times, t.Equal)
	})
	return &Dates{times: kept, duration: d.duration}
}

// Times returns the sorted date-times.
func (d *Dates) Times() []time.Time {
	return slices.Clone(d.times)
}

// Duration returns the duration of the occurrences.
func (d *Dates) Duration() time.Duration {
	return d.duration
}

// IsInfinite always returns false.
func (d *Dates) IsInfinite() bool {
	return false
}

// Occurrences starts a new iteration session over the date-times.
func (d *Dates) Occurrences(args RunArgs) (Iterator, error) {
	return occurrences(d, args)
}

// OccursOnDate reports whether a date-time falls on the calendar day of date.
func (d *Dates) OccursOnDate(date time.Time) (bool, error) {
	return occursOnDate(d, date)
}

func (d *Dates) run(args RunArgs) (stepper, error) {
	lo, hi := 0, len(d.times)
	if start, ok := args.Start.Get(); ok {
		lo = d.search(start)
	}
	if end, ok := args.End.Get(); ok {
		hi = d.search(end.Add(time.Nanosecond))
	}
	s := &datesStep{dates: d, lo: lo, hi: max(hi, lo), reverse: args.Reverse}
	if s.reverse {
		s.index = s.hi - 1
	} else {
		s.index = s.lo
	}
	return s, nil
}

// search returns the index of the first date-time not before t.
func (d *Dates) search(t time.Time) int {
	return sort.Search(len(d.times), func(i int) bool {
		return !d.times[i].Before(t)
	})
}

type datesStep struct {
	dates   *Dates
	lo, hi  int
	index   int
	reverse bool
}

var _ stepper = (*datesStep)(nil)

func (s *datesStep) next() (Occurrence, error) {
	if s.index < s.lo || s.index >= s.hi {
		return Occurrence{}, ErrDone
	}
	o := Occurrence{
		Time:       s.dates.times[s.index],
		Duration:   s.dates.duration,
		Provenance: Provenance{}.With(s.dates),
	}
	if s.reverse {
		s.index--
	} else {
		s.index++
	}
	return o, nil
}

func (s *datesStep) skipTo(t time.Time) (Occurrence, error) {
	if s.reverse {
		s.index = min(s.index, s.dates.search(t.Add(time.Nanosecond))-1)
	} else {
		s.index = max(s.index, s.dates.search(t))
	}
	return s.next()
}

func (d *Dates) String() string {
	return fmt.Sprintf("dates(%d)", len(d.times))
}
