package recur

import (
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/reugn/go-recur/logger"
)

const (
	// DefaultMaxSourceDuration is the default bound of the base occurrence
	// duration accepted by SplitDurations.
	DefaultMaxSourceDuration = 366 * 24 * time.Hour

	maxSplitDepth = 64
)

// SplitFunc splits an occurrence into pieces. Every piece must lie within
// the occurrence and be strictly shorter than it.
type SplitFunc func(o Occurrence) []Occurrence

// ChunkSplit returns a SplitFunc cutting occurrences into consecutive
// pieces of the given size; the last piece may be shorter.
func ChunkSplit(size time.Duration) SplitFunc {
	return func(o Occurrence) []Occurrence {
		if size <= 0 {
			return []Occurrence{o}
		}
		var parts []Occurrence
		for offset := time.Duration(0); offset < o.Duration; offset += size {
			part := o
			part.Time = o.Time.Add(offset)
			part.Duration = min(size, o.Duration-offset)
			parts = append(parts, part)
		}
		return parts
	}
}

// SplitOptions configures SplitDurations.
type SplitOptions struct {
	// MaxDuration is the longest occurrence passed through unchanged.
	MaxDuration time.Duration
	// Split splits longer occurrences. ChunkSplit(MaxDuration) if nil.
	Split SplitFunc
	// MaxSourceDuration bounds the duration of the base occurrences.
	// Zero means DefaultMaxSourceDuration.
	MaxSourceDuration time.Duration
}

// SplitDurations returns a Composite replacing every occurrence of base
// longer than MaxDuration with the pieces returned by the split function,
// splitting the pieces again while they are too long. Pieces are returned in
// order of their start. A split that does not converge, or a base occurrence
// longer than MaxSourceDuration, fails with ErrDurationCap.
//
// Bounds apply to the start of the pieces.
func SplitDurations(base Source, options SplitOptions) *Composite {
	if options.Split == nil {
		options.Split = ChunkSplit(options.MaxDuration)
	}
	if options.MaxSourceDuration <= 0 {
		options.MaxSourceDuration = DefaultMaxSourceDuration
	}
	return &Composite{
		operator: "split",
		inputs:   []Source{base},
		infinite: base.IsInfinite(),
		start: func(c *Composite, args RunArgs) (stepper, error) {
			if options.MaxDuration <= 0 {
				return nil, invalidArgumentError("max duration must be positive")
			}
			baseCursor, err := openCursor(c.inputs[0], args.widen(options.MaxSourceDuration, 0))
			if err != nil {
				return nil, err
			}
			s := &splitStep{
				owner:   c,
				args:    args,
				base:    baseCursor,
				options: options,
			}
			s.queue = newPriorityQueue(func(a, b piece) bool {
				if a.Time.Equal(b.Time) {
					if args.Reverse {
						return b.before(a)
					}
					return a.before(b)
				}
				return args.precedes(a.Time, b.Time)
			})
			return s, nil
		},
	}
}

// piece is a split occurrence with its position in a forward run: the start
// of its base occurrence, the rank of the base among the base occurrences
// starting at the same instant, and its index among the pieces of the base.
type piece struct {
	Occurrence
	base  time.Time
	rank  int
	index int
}

// before orders pieces starting at the same instant as a forward run does.
func (p piece) before(q piece) bool {
	if !p.base.Equal(q.base) {
		return p.base.Before(q.base)
	}
	if p.rank != q.rank {
		return p.rank < q.rank
	}
	return p.index < q.index
}

type splitStep struct {
	owner   Source
	args    RunArgs
	base    *cursor
	options SplitOptions
	queue   *priorityQueue[piece]

	// a reverse run counts ranks down, so they compare as in a forward run
	lastBase time.Time
	read     bool
	rank     int
	index    int
}

var _ stepper = (*splitStep)(nil)

func (s *splitStep) next() (Occurrence, error) {
	for {
		ok, err := s.base.fill()
		if err != nil {
			return Occurrence{}, err
		}
		if s.queue.Len() > 0 && (!ok || s.ready(s.queue.Head(), s.base.head)) {
			p := s.queue.pop()
			if s.args.contains(p.Time) {
				return p.from(s.owner), nil
			}
			if s.beyond(p.Time) {
				return Occurrence{}, ErrDone
			}
			continue
		}
		if !ok {
			return Occurrence{}, ErrDone
		}
		if err := s.split(s.base.pop()); err != nil {
			logger.Debug("Split failed", "operator", s.owner, "error", err)
			return Occurrence{}, err
		}
	}
}

// ready reports whether no piece of the base occurrences yet to be read can
// precede p.
func (s *splitStep) ready(p piece, head Occurrence) bool {
	if s.args.Reverse {
		return p.Time.After(head.Time.Add(s.options.MaxSourceDuration))
	}
	return !p.Time.After(head.Time)
}

// beyond reports whether t is past the far bound of the run.
func (s *splitStep) beyond(t time.Time) bool {
	if s.args.Reverse {
		start, ok := s.args.Start.Get()
		return ok && t.Before(start)
	}
	end, ok := s.args.End.Get()
	return ok && t.After(end)
}

// split queues the pieces of o.
func (s *splitStep) split(o Occurrence) error {
	if o.Duration > s.options.MaxSourceDuration {
		return durationCapError(fmt.Sprintf("occurrence %s exceeds the max source duration %s",
			o, s.options.MaxSourceDuration))
	}
	if s.read && o.Time.Equal(s.lastBase) {
		if s.args.Reverse {
			s.rank--
		} else {
			s.rank++
		}
	} else {
		s.rank = 0
	}
	s.lastBase, s.read, s.index = o.Time, true, 0
	return s.splitPiece(o, 0)
}

func (s *splitStep) splitPiece(o Occurrence, depth int) error {
	if o.Duration <= s.options.MaxDuration {
		s.queue.push(piece{Occurrence: o, base: s.lastBase, rank: s.rank, index: s.index})
		s.index++
		return nil
	}
	if depth >= maxSplitDepth {
		return durationCapError(fmt.Sprintf("occurrence %s does not converge below %s",
			o, s.options.MaxDuration))
	}
	for _, p := range s.options.Split(o) {
		if p.Time.Before(o.Time) || p.End().After(o.End()) || p.Duration < 0 || p.Duration >= o.Duration {
			return durationCapError(fmt.Sprintf("piece %s of %s is not strictly inside it", p, o))
		}
		if err := s.splitPiece(p, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (s *splitStep) skipTo(t time.Time) (Occurrence, error) {
	if s.args.Reverse {
		s.args.End = mo.Some(t)
		s.queue.filter(func(p piece) bool { return !p.Time.After(t) })
		if _, err := s.base.seek(t); err != nil {
			return Occurrence{}, err
		}
	} else {
		s.args.Start = mo.Some(t)
		s.queue.filter(func(p piece) bool { return !p.Time.Before(t) })
		if _, err := s.base.seek(t.Add(-s.options.MaxSourceDuration)); err != nil {
			return Occurrence{}, err
		}
	}
	return s.next()
}
