package recur

import "time"

// Union returns a Composite merging the occurrences of the sources in time
// order. Duplicates are kept; occurrences at the same instant are ordered by
// the position of their source.
func Union(sources ...Source) *Composite {
	infinite := false
	for _, src := range sources {
		infinite = infinite || src.IsInfinite()
	}
	return &Composite{
		operator: "union",
		inputs:   sources,
		infinite: infinite,
		start: func(c *Composite, args RunArgs) (stepper, error) {
			return newUnionStep(c, c.inputs, args)
		},
	}
}

type unionItem struct {
	cursor *cursor
	order  int
}

// unionStep merges the cursors of its inputs through a priority queue.
// The cursor of the last returned occurrence is refilled on the following
// call, so a failing read never discards an occurrence already taken.
type unionStep struct {
	owner  Source
	queue  *priorityQueue[*unionItem]
	items  []*unionItem
	popped *unionItem
}

var _ stepper = (*unionStep)(nil)

func newUnionStep(owner Source, sources []Source, args RunArgs) (*unionStep, error) {
	cursors, err := openCursors(sources, args)
	if err != nil {
		return nil, err
	}
	s := &unionStep{
		owner: owner,
		queue: newPriorityQueue(func(a, b *unionItem) bool {
			x, y := a.cursor.head.Time, b.cursor.head.Time
			if x.Equal(y) {
				if args.Reverse {
					return a.order > b.order
				}
				return a.order < b.order
			}
			return args.precedes(x, y)
		}),
	}
	for i, c := range cursors {
		s.items = append(s.items, &unionItem{cursor: c, order: i})
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load fills every cursor and rebuilds the queue.
func (s *unionStep) load() error {
	items := make([]*unionItem, 0, len(s.items))
	for _, item := range s.items {
		ok, err := item.cursor.fill()
		if err != nil {
			return err
		}
		if ok {
			items = append(items, item)
		}
	}
	s.queue.reset(items)
	return nil
}

func (s *unionStep) next() (Occurrence, error) {
	if item := s.popped; item != nil {
		s.popped = nil
		ok, err := item.cursor.fill()
		if err != nil {
			return Occurrence{}, err
		}
		// the item is still the head of the queue
		if ok {
			s.queue.fixHead()
		} else {
			s.queue.pop()
		}
	}
	if s.queue.Len() == 0 {
		return Occurrence{}, ErrDone
	}
	item := s.queue.Head()
	o := item.cursor.pop()
	s.popped = item
	if s.owner == nil {
		return o, nil
	}
	return o.from(s.owner), nil
}

func (s *unionStep) skipTo(t time.Time) (Occurrence, error) {
	s.popped = nil
	for _, item := range s.items {
		if _, err := item.cursor.seek(t); err != nil {
			return Occurrence{}, err
		}
	}
	if err := s.load(); err != nil {
		return Occurrence{}, err
	}
	return s.next()
}
