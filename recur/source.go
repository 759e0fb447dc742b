package recur

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/samber/mo"
)

// Source is a lazy, resumable and directionally ordered sequence of
// occurrences. The set of sources is closed: Rule, Dates, Composite and
// Schedule.
type Source interface {
	// Occurrences starts a new iteration session.
	Occurrences(args RunArgs) (Iterator, error)
	// IsInfinite reports whether the source is unbounded in time.
	IsInfinite() bool
	// OccursOnDate reports whether an occurrence starts on the calendar day
	// of date, in the location of date.
	OccursOnDate(date time.Time) (bool, error)

	run(args RunArgs) (stepper, error)
}

// Iterator is an iteration session over a Source.
// An Iterator is not safe for concurrent use.
type Iterator interface {
	// Next returns the next occurrence, or ErrDone.
	Next() (Occurrence, error)
	// SkipTo discards the occurrences preceding t in the iteration order
	// and returns the first remaining one. t must lie strictly past the last
	// returned occurrence.
	SkipTo(t time.Time) (Occurrence, error)
}

// RunArgs scopes an iteration session.
type RunArgs struct {
	// Start is the lower bound of occurrence start times, inclusive.
	Start mo.Option[time.Time]
	// End is the upper bound of occurrence start times, inclusive.
	// It is required to run an infinite source in reverse.
	End mo.Option[time.Time]
	// Take limits the number of occurrences. Zero means no limit.
	Take int
	// Reverse iterates from the latest occurrence to the earliest one.
	Reverse bool
}

func (a RunArgs) validate(src Source) error {
	start, hasStart := a.Start.Get()
	end, hasEnd := a.End.Get()
	switch {
	case a.Take < 0:
		return invalidArgumentError(fmt.Sprintf("take %d is negative", a.Take))
	case hasStart && hasEnd && end.Before(start):
		return invalidArgumentError("end is before start")
	case a.Reverse && !hasEnd && src.IsInfinite():
		return invalidArgumentError("reverse iteration of an infinite source requires an end")
	}
	return nil
}

// contains reports whether t lies within the bounds.
func (a RunArgs) contains(t time.Time) bool {
	if start, ok := a.Start.Get(); ok && t.Before(start) {
		return false
	}
	if end, ok := a.End.Get(); ok && t.After(end) {
		return false
	}
	return true
}

// widen extends the bounds by before and after.
func (a RunArgs) widen(before, after time.Duration) RunArgs {
	if start, ok := a.Start.Get(); ok {
		a.Start = mo.Some(start.Add(-before))
	}
	if end, ok := a.End.Get(); ok {
		a.End = mo.Some(end.Add(after))
	}
	a.Take = 0
	return a
}

// precedes reports whether a is visited before b.
func (a RunArgs) precedes(x, y time.Time) bool {
	if a.Reverse {
		return x.After(y)
	}
	return x.Before(y)
}

// Occurrence is a single occurrence of a source.
type Occurrence struct {
	Time       time.Time
	Duration   time.Duration
	Provenance Provenance
}

// End returns the end of the occurrence.
func (o Occurrence) End() time.Time {
	return o.Time.Add(o.Duration)
}

func (o Occurrence) String() string {
	if o.Duration == 0 {
		return o.Time.Format(time.RFC3339)
	}
	return fmt.Sprintf("%s/%s", o.Time.Format(time.RFC3339), o.Duration)
}

func (o Occurrence) from(src Source) Occurrence {
	o.Provenance = o.Provenance.With(src)
	return o
}

// Provenance is the ordered list of sources an occurrence passed through,
// starting with the source that produced it. It is immutable.
type Provenance struct {
	sources []Source
}

// With returns a new Provenance with src appended.
func (p Provenance) With(src Source) Provenance {
	sources := make([]Source, len(p.sources), len(p.sources)+1)
	copy(sources, p.sources)
	return Provenance{sources: append(sources, src)}
}

// Sources returns a copy of the source list.
func (p Provenance) Sources() []Source {
	return slices.Clone(p.sources)
}

// Len returns the number of sources.
func (p Provenance) Len() int {
	return len(p.sources)
}

// Origin returns the source that produced the occurrence, or nil.
func (p Provenance) Origin() Source {
	if len(p.sources) == 0 {
		return nil
	}
	return p.sources[0]
}

// Contains reports whether the occurrence passed through src.
func (p Provenance) Contains(src Source) bool {
	for _, s := range p.sources {
		if s == src {
			return true
		}
	}
	return false
}

// Collect runs the source and returns its occurrences.
func Collect(src Source, args RunArgs) ([]Occurrence, error) {
	it, err := src.Occurrences(args)
	if err != nil {
		return nil, err
	}
	var occurrences []Occurrence
	for {
		o, err := it.Next()
		if errors.Is(err, ErrDone) {
			return occurrences, nil
		}
		if err != nil {
			return occurrences, err
		}
		occurrences = append(occurrences, o)
	}
}

// All returns an iterator over the occurrences of src. A failure to start
// the session or to produce an occurrence is yielded as the final pair.
func All(src Source, args RunArgs) iter.Seq2[Occurrence, error] {
	return func(yield func(Occurrence, error) bool) {
		it, err := src.Occurrences(args)
		if err != nil {
			yield(Occurrence{}, err)
			return
		}
		for {
			o, err := it.Next()
			if errors.Is(err, ErrDone) {
				return
			}
			if !yield(o, err) || err != nil {
				return
			}
		}
	}
}

// occurrences validates the arguments and starts a session of src.
func occurrences(src Source, args RunArgs) (Iterator, error) {
	if err := args.validate(src); err != nil {
		return nil, err
	}
	take := args.Take
	args.Take = 0
	step, err := src.run(args)
	if err != nil {
		return nil, err
	}
	return &session{step: step, args: args, take: take}, nil
}

// occursOnDate reports whether src has an occurrence starting on the day of
// date.
func occursOnDate(src Source, date time.Time) (bool, error) {
	year, month, day := date.Date()
	loc := date.Location()
	start := time.Date(year, month, day, 0, 0, 0, 0, loc)
	end := time.Date(year, month, day+1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
	it, err := src.Occurrences(RunArgs{Start: mo.Some(start), End: mo.Some(end), Take: 1})
	if err != nil {
		return false, err
	}
	_, err = it.Next()
	switch {
	case errors.Is(err, ErrDone):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}
