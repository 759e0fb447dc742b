package pipe

import (
	"errors"
	"fmt"
	"time"
)

// expansion is a pending list of frames produced by one stage.
type expansion struct {
	level int
	queue []frame
}

// Chain evaluates a processed Config as a resumable sequence of instants.
// A Chain is not safe for concurrent use.
type Chain struct {
	dir    Direction
	loc    *time.Location
	freq   *frequency
	stages []stage
	stack  []expansion

	head time.Time // lower bound, inclusive
	tail time.Time // upper bound, inclusive; zero when unbounded

	last    time.Time
	yielded bool
	err     error
}

// New returns a Chain over the instants of cfg within [lower, upper].
// A zero bound is open; the rule start always bounds the instants from
// below. cfg must be the result of Process. A reverse Chain requires an
// upper bound.
func New(cfg Config, dir Direction, lower, upper time.Time) (*Chain, error) {
	if dir == Reverse && upper.IsZero() {
		return nil, fmt.Errorf("%w: reverse traversal requires an upper bound", ErrInvalidBounds)
	}
	c := &Chain{
		dir:    dir,
		loc:    cfg.Start.Location(),
		freq:   newFrequency(&cfg, dir),
		stages: cfg.stages(),
		head:   cfg.Start,
		tail:   upper,
	}
	if lower.After(c.head) {
		c.head = lower
	}
	if !c.tail.IsZero() && c.tail.Before(c.head) {
		c.err = ErrDone
		return c, nil
	}
	if dir == Reverse {
		c.freq.seek(c.freq.floorIndex(c.tail))
	} else {
		c.freq.seek(c.freq.floorIndex(c.head))
	}
	return c, nil
}

// Direction returns the traversal direction of the chain.
func (c *Chain) Direction() Direction {
	return c.dir
}

// Next returns the next instant in the traversal direction, or ErrDone.
// Once Next returns an error, every subsequent call returns it as well.
func (c *Chain) Next() (time.Time, error) {
	if c.err != nil {
		return time.Time{}, c.err
	}
	t, err := c.next()
	if err != nil {
		c.err = err
		c.stack = nil
		return time.Time{}, err
	}
	c.last, c.yielded = t, true
	return t, nil
}

// SkipTo discards the instants preceding target in the traversal direction
// and returns the first remaining one. The target must lie strictly past the
// last returned instant; otherwise ErrInvalidSkip is returned and the chain
// is left untouched.
func (c *Chain) SkipTo(target time.Time) (time.Time, error) {
	if c.err != nil {
		return time.Time{}, c.err
	}
	if c.yielded && !c.dir.Precedes(c.last, target) {
		return time.Time{}, invalidSkipError(fmt.Sprintf("%s is not past %s",
			target.Format(time.RFC3339), c.last.Format(time.RFC3339)))
	}
	c.stack = c.stack[:0]
	if c.dir == Reverse {
		if target.Before(c.tail) {
			c.tail = target
		}
		c.freq.seek(c.freq.floorIndex(c.tail))
	} else {
		if target.After(c.head) {
			c.head = target
		}
		c.freq.seek(c.freq.floorIndex(c.head))
	}
	return c.Next()
}

func (c *Chain) next() (time.Time, error) {
	for {
		var (
			f        frame
			level    int
			isPeriod bool
		)
		if n := len(c.stack); n > 0 {
			top := &c.stack[n-1]
			if len(top.queue) == 0 {
				c.stack = c.stack[:n-1]
				continue
			}
			f, level = top.queue[0], top.level
			top.queue = top.queue[1:]
		} else {
			p, err := c.freq.next()
			if err != nil {
				return time.Time{}, err
			}
			if c.beyond(p) {
				return time.Time{}, ErrDone
			}
			f, isPeriod = p, true
		}

		f, ok := c.descend(f, level, isPeriod)
		if !ok {
			continue
		}
		t, err := c.materialize(f)
		switch {
		case errors.Is(err, errSkipped):
			continue
		case err != nil:
			return time.Time{}, err
		}
		return t, nil
	}
}

// descend applies the stages from level on, pushing the remaining children
// of every expansion, and returns the leaf frame if there is one.
func (c *Chain) descend(f frame, level int, isPeriod bool) (frame, bool) {
	for ; level < len(c.stages); level++ {
		out := c.stages[level].apply(f, c.dir)
		switch out.verdict {
		case reject:
			if isPeriod {
				c.freq.fastForward(out.skip)
			}
			return frame{}, false
		case expand:
			if len(out.children) == 0 {
				return frame{}, false
			}
			if len(out.children) > 1 {
				c.stack = append(c.stack, expansion{level: level + 1, queue: out.children[1:]})
			}
			f, isPeriod = out.children[0], false
		}
	}
	return f, true
}

// beyond reports whether the period and all of the following ones lie
// outside the bounds.
func (c *Chain) beyond(p frame) bool {
	if c.dir == Reverse {
		if p.anchored() {
			return !p.at.Add(p.unit.duration()).After(c.head)
		}
		// offsets are shorter than a day
		return p.to.before(wallOf(c.head.In(c.loc)).date.addDays(-1))
	}
	if c.tail.IsZero() {
		return false
	}
	if p.anchored() {
		return p.at.After(c.tail)
	}
	return wallOf(c.tail.In(c.loc)).date.addDays(1).before(p.from)
}

var errSkipped = errors.New("skipped")

// materialize turns a leaf frame into an instant. Instants outside the
// bounds return errSkipped or ErrDone; wall clock readings that do not exist
// in the location return ErrUnrepresentableTime.
func (c *Chain) materialize(f frame) (time.Time, error) {
	w := f.wall()
	if w.year < minYear || w.year > maxYear {
		return time.Time{}, ErrDone
	}
	t := f.at
	if !f.anchored() {
		t = w.in(c.loc)
	}

	if c.dir == Reverse {
		if !c.tail.IsZero() && t.After(c.tail) {
			return time.Time{}, errSkipped
		}
		if t.Before(c.head) {
			return time.Time{}, ErrDone
		}
	} else {
		if t.Before(c.head) {
			return time.Time{}, errSkipped
		}
		if !c.tail.IsZero() && t.After(c.tail) {
			return time.Time{}, ErrDone
		}
	}
	// a reading in a gap normalizes onto a real instant, possibly the last
	// one yielded, so it is rejected before the duplicate check
	if wallOf(t.In(c.loc)) != w {
		return time.Time{}, unrepresentableError(
			fmt.Sprintf("%s does not exist in %s", w, c.loc))
	}
	if c.yielded && !c.dir.Precedes(c.last, t) {
		return time.Time{}, errSkipped
	}
	return t, nil
}

// Last returns the count-th instant of cfg, or the last one if the rule has
// fewer instants. ErrDone is returned if the rule has no instants at all.
func Last(cfg Config, count int) (time.Time, error) {
	c, err := New(cfg, Forward, time.Time{}, time.Time{})
	if err != nil {
		return time.Time{}, err
	}
	var last time.Time
	for i := 0; i < count; i++ {
		t, err := c.Next()
		if errors.Is(err, ErrDone) {
			break
		}
		if err != nil {
			return time.Time{}, err
		}
		last = t
	}
	if last.IsZero() {
		return time.Time{}, ErrDone
	}
	return last, nil
}
