package recur

import (
	"errors"
	"time"
)

// DefaultMaxScan is the number of occurrences OccursOn inspects when the
// run is otherwise unbounded.
const DefaultMaxScan = 10000

// Matcher represents a predicate (boolean-valued function) of one argument.
// Standard occurrence Matcher implementations are located in the matcher
// package.
type Matcher[T any] interface {
	// IsMatch evaluates this matcher on the given argument.
	IsMatch(T) bool
}

// MatchFunc adapts a function to the Matcher interface.
type MatchFunc[T any] func(T) bool

var _ Matcher[Occurrence] = MatchFunc[Occurrence](nil)

// IsMatch calls f(v).
func (f MatchFunc[T]) IsMatch(v T) bool {
	return f(v)
}

// OccursOn reports whether src has an occurrence within the run matching
// all the matchers. Unless the run is bounded by args.End or args.Take, at
// most DefaultMaxScan occurrences are inspected.
func OccursOn(src Source, args RunArgs, matchers ...Matcher[Occurrence]) (bool, error) {
	if args.Take == 0 && args.End.IsAbsent() && src.IsInfinite() {
		args.Take = DefaultMaxScan
	}
	it, err := src.Occurrences(args)
	if err != nil {
		return false, err
	}
	for {
		o, err := it.Next()
		if errors.Is(err, ErrDone) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if matchAll(o, matchers) {
			return true, nil
		}
	}
}

func matchAll(o Occurrence, matchers []Matcher[Occurrence]) bool {
	for _, m := range matchers {
		if !m.IsMatch(o) {
			return false
		}
	}
	return true
}

// OccursOnWeekday reports whether src has an occurrence within the run
// starting on the weekday wd, in the location of the occurrence.
func OccursOnWeekday(src Source, wd time.Weekday, args RunArgs) (bool, error) {
	return OccursOn(src, args, MatchFunc[Occurrence](func(o Occurrence) bool {
		return o.Time.Weekday() == wd
	}))
}
