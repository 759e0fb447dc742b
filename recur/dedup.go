package recur

import "time"

// Dedup returns a Composite with the occurrences of base, keeping one
// occurrence per instant. The kept occurrence is the first of its instant in
// forward order, whatever the direction of the run.
func Dedup(base Source) *Composite {
	return &Composite{
		operator: "dedup",
		inputs:   []Source{base},
		infinite: base.IsInfinite(),
		start: func(c *Composite, args RunArgs) (stepper, error) {
			baseCursor, err := openCursor(c.inputs[0], args)
			if err != nil {
				return nil, err
			}
			return &dedupStep{owner: c, reverse: args.Reverse, base: baseCursor}, nil
		},
	}
}

type dedupStep struct {
	owner   Source
	reverse bool
	base    *cursor
	last    time.Time
	yielded bool
	err     error // read failure behind the last returned occurrence
}

var _ stepper = (*dedupStep)(nil)

func (s *dedupStep) next() (Occurrence, error) {
	if s.err != nil {
		return Occurrence{}, s.err
	}
	for {
		ok, err := s.base.fill()
		if err != nil || !ok {
			return Occurrence{}, doneOr(err)
		}
		o := s.base.pop()
		if s.yielded && o.Time.Equal(s.last) {
			continue
		}
		if s.reverse {
			// a reverse run meets the instant's occurrences last to first
			for {
				ok, err := s.base.fill()
				if err != nil {
					s.err = err
					break
				}
				if !ok || !s.base.head.Time.Equal(o.Time) {
					break
				}
				o = s.base.pop()
			}
		}
		s.last, s.yielded = o.Time, true
		return o.from(s.owner), nil
	}
}

func (s *dedupStep) skipTo(t time.Time) (Occurrence, error) {
	if s.err != nil {
		return Occurrence{}, s.err
	}
	if _, err := s.base.seek(t); err != nil {
		return Occurrence{}, err
	}
	return s.next()
}
