package pipe

import "time"

// clockStage implements BYHOUR, BYMINUTE and BYSECOND.
type clockStage struct {
	unit    Unit
	values  []int
	allowed [60]bool
}

var _ stage = (*clockStage)(nil)

// newClockStage returns a stage for the given clock unit. Leap seconds are
// not representable by time.Time, so second 60 never matches.
func newClockStage(unit Unit, values []int) *clockStage {
	s := &clockStage{unit: unit}
	for _, v := range values {
		if v >= 0 && v < 60 {
			s.values = append(s.values, v)
			s.allowed[v] = true
		}
	}
	return s
}

func (s *clockStage) apply(f frame, dir Direction) outcome {
	if f.unit > s.unit {
		children := make([]frame, 0, len(s.values))
		for _, v := range s.values {
			child := f
			child.unit = s.unit
			child.setField(s.unit, v)
			if f.anchored() {
				child.at = f.at.Add(time.Duration(v) * s.unit.duration())
			}
			children = append(children, child)
		}
		return expanded(ordered(dir, children))
	}

	if s.allowed[f.field(s.unit)] {
		return passed()
	}
	return rejected(s.skip(f, dir))
}

// skip returns the nearest clock reading with an allowed field value.
func (s *clockStage) skip(f frame, dir Direction) wall {
	if len(s.values) == 0 {
		return nextDay(f, dir)
	}
	w := f.wall()
	current := f.field(s.unit)
	value, overflow := -1, 0
	if dir == Reverse {
		for i := len(s.values) - 1; i >= 0; i-- {
			if s.values[i] < current {
				value = s.values[i]
				break
			}
		}
		if value < 0 {
			value, overflow = s.values[len(s.values)-1], -1
		}
	} else {
		for _, v := range s.values {
			if v > current {
				value = v
				break
			}
		}
		if value < 0 {
			value, overflow = s.values[0], 1
		}
	}

	finer := 0
	if dir == Reverse {
		finer = 59
	}
	switch s.unit {
	case Hour:
		w.day += overflow
		w.hour, w.minute, w.second = value, finer, finer
	case Minute:
		w.hour += overflow
		w.minute, w.second = value, finer
	default:
		w.minute += overflow
		w.second = value
	}
	return w.normalized()
}
