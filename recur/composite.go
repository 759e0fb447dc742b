package recur

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/mo"
)

// Composite is a Source produced by an operator from other sources.
// A Composite is immutable.
type Composite struct {
	operator string
	inputs   []Source
	infinite bool
	start    func(c *Composite, args RunArgs) (stepper, error)
}

var _ Source = (*Composite)(nil)

// Operator returns the name of the operator, e.g. "union".
func (c *Composite) Operator() string {
	return c.operator
}

// Inputs returns the sources the composite is built from.
func (c *Composite) Inputs() []Source {
	return slices.Clone(c.inputs)
}

// IsInfinite reports whether the composite is unbounded in time.
func (c *Composite) IsInfinite() bool {
	return c.infinite
}

// Occurrences starts a new iteration session over the composite.
func (c *Composite) Occurrences(args RunArgs) (Iterator, error) {
	return occurrences(c, args)
}

// OccursOnDate reports whether an occurrence starts on the calendar day of
// date.
func (c *Composite) OccursOnDate(date time.Time) (bool, error) {
	return occursOnDate(c, date)
}

func (c *Composite) run(args RunArgs) (stepper, error) {
	return c.start(c, args)
}

func (c *Composite) String() string {
	names := make([]string, len(c.inputs))
	for i, input := range c.inputs {
		names[i] = fmt.Sprint(input)
	}
	return fmt.Sprintf("%s(%s)", c.operator, strings.Join(names, ", "))
}

// openCursor starts a session of src wrapped into a cursor.
func openCursor(src Source, args RunArgs) (*cursor, error) {
	it, err := src.Occurrences(args)
	if err != nil {
		return nil, err
	}
	return newCursor(it, args), nil
}

// openCursors starts a session for every source.
func openCursors(sources []Source, args RunArgs) ([]*cursor, error) {
	cursors := make([]*cursor, len(sources))
	for i, src := range sources {
		c, err := openCursor(src, args)
		if err != nil {
			return nil, err
		}
		cursors[i] = c
	}
	return cursors, nil
}

// reverseEnd derives an end bound for a reverse run without one, from the
// latest occurrence of the finite sources. combine picks the bound among the
// latest occurrences. It reports false if a finite source is empty and all
// is set, or if every finite source is empty.
func reverseEnd(args RunArgs, sources []Source, all bool,
	combine func(a, b time.Time) time.Time) (RunArgs, bool, error) {
	if !args.Reverse || args.End.IsPresent() {
		return args, true, nil
	}
	var (
		bound time.Time
		found bool
	)
	for _, src := range sources {
		if src.IsInfinite() {
			continue
		}
		it, err := src.Occurrences(RunArgs{Start: args.Start, Reverse: true})
		if err != nil {
			return args, false, err
		}
		o, err := it.Next()
		if errors.Is(err, ErrDone) {
			if all {
				return args, false, nil
			}
			continue
		}
		if err != nil {
			return args, false, err
		}
		if found {
			bound = combine(bound, o.Time)
		} else {
			bound, found = o.Time, true
		}
	}
	if !found {
		return args, false, nil
	}
	args.End = mo.Some(bound)
	return args, true, nil
}

func laterOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func earlierOf(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}
