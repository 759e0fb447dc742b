package recur

import (
	"errors"
	"fmt"
	"time"
)

// stepper produces the occurrences of one session. skipTo is only called
// with targets past the last returned occurrence.
type stepper interface {
	next() (Occurrence, error)
	skipTo(t time.Time) (Occurrence, error)
}

// session implements Iterator on top of a stepper. It validates skip
// targets, applies the take limit and keeps returning the first error.
type session struct {
	step  stepper
	args  RunArgs
	take  int
	count int

	last    time.Time
	yielded bool
	err     error
}

var _ Iterator = (*session)(nil)

func (s *session) Next() (Occurrence, error) {
	if s.err != nil {
		return Occurrence{}, s.err
	}
	if s.take > 0 && s.count >= s.take {
		s.err = ErrDone
		return Occurrence{}, s.err
	}
	return s.record(s.step.next())
}

func (s *session) SkipTo(t time.Time) (Occurrence, error) {
	if s.err != nil {
		return Occurrence{}, s.err
	}
	if s.yielded && !s.args.precedes(s.last, t) {
		return Occurrence{}, fmt.Errorf("%w: %s is not past %s", ErrInvalidSkip,
			t.Format(time.RFC3339), s.last.Format(time.RFC3339))
	}
	if s.take > 0 && s.count >= s.take {
		s.err = ErrDone
		return Occurrence{}, s.err
	}
	return s.record(s.step.skipTo(t))
}

func (s *session) record(o Occurrence, err error) (Occurrence, error) {
	if err != nil {
		s.err = err
		return Occurrence{}, err
	}
	s.last, s.yielded = o.Time, true
	s.count++
	return o, nil
}

// cursor is a peekable view of a child iterator.
type cursor struct {
	it   Iterator
	args RunArgs

	head Occurrence
	ok   bool // head is valid
	done bool

	last     time.Time // last occurrence taken from the iterator
	consumed bool
}

func newCursor(it Iterator, args RunArgs) *cursor {
	return &cursor{it: it, args: args}
}

// fill loads the head if it is not loaded yet.
// It reports whether a head is available.
func (c *cursor) fill() (bool, error) {
	if c.ok || c.done {
		return c.ok, nil
	}
	o, err := c.it.Next()
	return c.load(o, err)
}

func (c *cursor) load(o Occurrence, err error) (bool, error) {
	if errors.Is(err, ErrDone) {
		c.done = true
		return false, nil
	}
	if err != nil {
		return false, err
	}
	c.head, c.ok = o, true
	c.last, c.consumed = o.Time, true
	return true, nil
}

// pop returns the head and clears it.
func (c *cursor) pop() Occurrence {
	o := c.head
	c.head, c.ok = Occurrence{}, false
	return o
}

// seek positions the head at the first occurrence not preceding t.
// It reports whether a head is available.
func (c *cursor) seek(t time.Time) (bool, error) {
	if c.done {
		return false, nil
	}
	if c.ok && !c.args.precedes(c.head.Time, t) {
		return true, nil
	}
	if !c.ok && c.consumed && !c.args.precedes(c.last, t) {
		return c.fill()
	}
	c.ok = false
	o, err := c.it.SkipTo(t)
	return c.load(o, err)
}
