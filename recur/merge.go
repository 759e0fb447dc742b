package recur

import (
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/reugn/go-recur/logger"
)

// MergeDurations returns a Composite coalescing the occurrences of base
// whose spans overlap or touch into a single occurrence covering them all.
// A merged span longer than maxDuration fails with ErrDurationCap.
//
// Bounds apply to the start of the merged spans.
func MergeDurations(base Source, maxDuration time.Duration) *Composite {
	return &Composite{
		operator: "merge",
		inputs:   []Source{base},
		infinite: base.IsInfinite(),
		start: func(c *Composite, args RunArgs) (stepper, error) {
			if maxDuration <= 0 {
				return nil, invalidArgumentError("max duration must be positive")
			}
			baseCursor, err := openCursor(c.inputs[0], args.widen(maxDuration, maxDuration))
			if err != nil {
				return nil, err
			}
			return &mergeStep{
				owner: c,
				args:  args,
				base:  baseCursor,
				max:   maxDuration,
			}, nil
		},
	}
}

type mergeStep struct {
	owner Source
	args  RunArgs
	base  *cursor
	max   time.Duration
	// pending holds the occurrences read ahead in a reverse run
	pending []Occurrence
}

var _ stepper = (*mergeStep)(nil)

// pull returns the next component in iteration order.
func (s *mergeStep) pull() (Occurrence, bool, error) {
	if len(s.pending) > 0 {
		o := s.pending[0]
		s.pending = s.pending[1:]
		return o, true, nil
	}
	ok, err := s.base.fill()
	if err != nil || !ok {
		return Occurrence{}, false, err
	}
	return s.base.pop(), true, nil
}

func (s *mergeStep) next() (Occurrence, error) {
	for {
		span, err := s.span()
		if err != nil {
			return Occurrence{}, err
		}
		if span.Duration > s.max {
			err := durationCapError(fmt.Sprintf("merged span %s exceeds %s", span, s.max))
			logger.Debug("Merge failed", "operator", s.owner, "error", err)
			return Occurrence{}, err
		}
		if s.args.contains(span.Time) {
			return span.from(s.owner), nil
		}
		// spans come in iteration order, so the first one past the far
		// bound ends the run
		if s.args.Reverse {
			if start, ok := s.args.Start.Get(); ok && span.Time.Before(start) {
				return Occurrence{}, ErrDone
			}
		} else if end, ok := s.args.End.Get(); ok && span.Time.After(end) {
			return Occurrence{}, ErrDone
		}
	}
}

// span reads the components of the next merged span.
func (s *mergeStep) span() (Occurrence, error) {
	first, ok, err := s.pull()
	if err != nil || !ok {
		return Occurrence{}, doneOr(err)
	}
	start, end := first.Time, first.End()
	provenance := first.Provenance

	if !s.args.Reverse {
		for {
			ok, err := s.base.fill()
			if err != nil {
				return Occurrence{}, err
			}
			if !ok || s.base.head.Time.After(end) {
				break
			}
			o := s.base.pop()
			if o.End().After(end) {
				end = o.End()
			}
		}
		return Occurrence{Time: start, Duration: end.Sub(start), Provenance: provenance}, nil
	}

	// Components arrive by descending start. One that does not reach the
	// span yet may still be joined by a longer earlier component, so it is
	// held back until a component starts more than max before the span.
	var held []Occurrence
	for {
		o, ok, err := s.pull()
		if err != nil {
			return Occurrence{}, err
		}
		if !ok {
			break
		}
		if o.Time.Before(start.Add(-s.max)) {
			held = append(held, o)
			break
		}
		if o.End().Before(start) {
			held = append(held, o)
			continue
		}
		start = o.Time
		if o.End().After(end) {
			end = o.End()
		}
		provenance = o.Provenance
		// held components start after the new span start and before the
		// old one, so they are inside the span now
		for _, h := range held {
			if h.End().After(end) {
				end = h.End()
			}
		}
		held = held[:0]
	}
	s.pending = append(held, s.pending...)
	return Occurrence{Time: start, Duration: end.Sub(start), Provenance: provenance}, nil
}

func (s *mergeStep) skipTo(t time.Time) (Occurrence, error) {
	if s.args.Reverse {
		s.args.End = mo.Some(t)
		kept := s.pending[:0]
		for _, o := range s.pending {
			if !o.Time.After(t.Add(s.max)) {
				kept = append(kept, o)
			}
		}
		s.pending = kept
		if _, err := s.base.seek(t.Add(s.max)); err != nil {
			return Occurrence{}, err
		}
	} else {
		s.args.Start = mo.Some(t)
		if _, err := s.base.seek(t.Add(-s.max)); err != nil {
			return Occurrence{}, err
		}
	}
	return s.next()
}
