package recur

import (
	"time"

	"github.com/samber/mo"
)

// Difference returns a Composite with the occurrences of base that do not
// start at the same instant as an occurrence of any of the subtracted
// sources.
func Difference(base Source, subtract ...Source) *Composite {
	inputs := append([]Source{base}, subtract...)
	return &Composite{
		operator: "difference",
		inputs:   inputs,
		infinite: base.IsInfinite(),
		start: func(c *Composite, args RunArgs) (stepper, error) {
			baseCursor, err := openCursor(c.inputs[0], args)
			if err != nil {
				return nil, err
			}
			return &differenceStep{
				owner:    c,
				args:     args,
				base:     baseCursor,
				subtract: c.inputs[1:],
			}, nil
		},
	}
}

type differenceStep struct {
	owner    Source
	args     RunArgs
	base     *cursor
	subtract []Source
	sub      *cursor // opened on first use
}

var _ stepper = (*differenceStep)(nil)

// open starts the session of the subtracted sources. A reverse run without
// an end is bounded by the latest occurrence of the base.
func (s *differenceStep) open() error {
	args := s.args
	if args.Reverse && args.End.IsAbsent() && s.base.ok {
		args.End = mo.Some(s.base.head.Time)
	}
	union, err := newUnionStep(nil, s.subtract, args)
	if err != nil {
		return err
	}
	s.sub = newCursor(&session{step: union, args: args}, args)
	return nil
}

func (s *differenceStep) next() (Occurrence, error) {
	for {
		ok, err := s.base.fill()
		if err != nil || !ok {
			return Occurrence{}, doneOr(err)
		}
		if s.sub == nil {
			if err := s.open(); err != nil {
				return Occurrence{}, err
			}
		}
		o := s.base.pop()
		ok, err = s.sub.seek(o.Time)
		if err != nil {
			return Occurrence{}, err
		}
		if ok && s.sub.head.Time.Equal(o.Time) {
			continue
		}
		return o.from(s.owner), nil
	}
}

func (s *differenceStep) skipTo(t time.Time) (Occurrence, error) {
	if _, err := s.base.seek(t); err != nil {
		return Occurrence{}, err
	}
	return s.next()
}

// doneOr returns err, or ErrDone if err is nil.
func doneOr(err error) error {
	if err != nil {
		return err
	}
	return ErrDone
}
