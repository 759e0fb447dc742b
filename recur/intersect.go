package recur

import (
	"time"

	"github.com/reugn/go-recur/logger"
)

// DefaultMaxFailedIterations is the default number of consecutive
// misaligned rounds after which an intersection is considered exhausted.
const DefaultMaxFailedIterations = 50

// IntersectOptions configures Intersect.
type IntersectOptions struct {
	// MaxFailedIterations bounds the number of consecutive rounds in which
	// the sources do not agree on an instant. Zero means
	// DefaultMaxFailedIterations.
	MaxFailedIterations int
}

// Intersect returns a Composite with the occurrences of the sources that
// start at an instant every source has an occurrence at. All matching
// occurrences are kept, in the order of their sources. The search ends
// when the sources fail to align MaxFailedIterations times in a row.
func Intersect(options IntersectOptions, sources ...Source) *Composite {
	infinite := len(sources) > 0
	for _, src := range sources {
		infinite = infinite && src.IsInfinite()
	}
	if options.MaxFailedIterations <= 0 {
		options.MaxFailedIterations = DefaultMaxFailedIterations
	}
	return &Composite{
		operator: "intersect",
		inputs:   sources,
		infinite: infinite,
		start: func(c *Composite, args RunArgs) (stepper, error) {
			if len(c.inputs) == 0 {
				return emptyStep{}, nil
			}
			args, ok, err := reverseEnd(args, c.inputs, true, earlierOf)
			if err != nil {
				return nil, err
			}
			if !ok {
				return emptyStep{}, nil
			}
			cursors, err := openCursors(c.inputs, args)
			if err != nil {
				return nil, err
			}
			return &intersectStep{
				owner:     c,
				args:      args,
				cursors:   cursors,
				maxFailed: options.MaxFailedIterations,
			}, nil
		},
	}
}

type intersectStep struct {
	owner     Source
	args      RunArgs
	cursors   []*cursor
	maxFailed int
	pending   []Occurrence
	err       error // read failure behind the pending occurrences
}

var _ stepper = (*intersectStep)(nil)

func (s *intersectStep) next() (Occurrence, error) {
	if len(s.pending) > 0 {
		o := s.pending[0]
		s.pending = s.pending[1:]
		return o, nil
	}
	if s.err != nil {
		return Occurrence{}, s.err
	}

	for failed := 0; ; failed++ {
		if failed >= s.maxFailed {
			logger.Debug("Intersection exhausted", "operator", s.owner, "rounds", failed)
			return Occurrence{}, ErrDone
		}
		// the target is the head furthest along
		var target time.Time
		for i, c := range s.cursors {
			ok, err := c.fill()
			if err != nil || !ok {
				return Occurrence{}, doneOr(err)
			}
			if i == 0 || s.args.precedes(target, c.head.Time) {
				target = c.head.Time
			}
		}
		aligned := true
		for _, c := range s.cursors {
			ok, err := c.seek(target)
			if err != nil || !ok {
				return Occurrence{}, doneOr(err)
			}
			aligned = aligned && c.head.Time.Equal(target)
		}
		if aligned {
			return s.collect(target)
		}
	}
}

// collect takes every occurrence at target from all the cursors, in source
// order or in reverse source order for a reverse run. A cursor failing to
// read past target stops contributing, and the error is returned once the
// collected occurrences are.
func (s *intersectStep) collect(target time.Time) (Occurrence, error) {
	for i := range s.cursors {
		c := s.cursors[i]
		if s.args.Reverse {
			c = s.cursors[len(s.cursors)-1-i]
		}
		for {
			ok, err := c.fill()
			if err != nil {
				if s.err == nil {
					s.err = err
				}
				break
			}
			if !ok || !c.head.Time.Equal(target) {
				break
			}
			s.pending = append(s.pending, c.pop().from(s.owner))
		}
	}
	if len(s.pending) == 0 {
		return Occurrence{}, doneOr(s.err)
	}
	o := s.pending[0]
	s.pending = s.pending[1:]
	return o, nil
}

func (s *intersectStep) skipTo(t time.Time) (Occurrence, error) {
	if s.err != nil {
		return Occurrence{}, s.err
	}
	s.pending = nil
	for _, c := range s.cursors {
		if _, err := c.seek(t); err != nil {
			return Occurrence{}, err
		}
	}
	return s.next()
}
