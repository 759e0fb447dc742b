package pipe

import "time"

// monthStage implements BYMONTH. It expands years into months, clips
// weeks to the allowed months and filters everything finer.
type monthStage struct {
	months  []int
	allowed [13]bool
}

var _ stage = (*monthStage)(nil)

func newMonthStage(months []int) *monthStage {
	s := &monthStage{months: months}
	for _, m := range months {
		s.allowed[m] = true
	}
	return s
}

func (s *monthStage) apply(f frame, dir Direction) outcome {
	switch {
	case f.unit == Year:
		year := f.from.year
		children := make([]frame, 0, len(s.months))
		for _, m := range s.months {
			month := time.Month(m)
			children = append(children, frame{
				unit: Month,
				from: firstOfMonth(year, month),
				to:   lastOfMonth(year, month),
			})
		}
		return expanded(ordered(dir, children))

	case f.unit == Week:
		// a week spans at most two months, so the allowed part is contiguous
		var lo, hi date
		found := false
		for d := f.from; !f.to.before(d); d = d.addDays(1) {
			if !s.allowed[d.month] {
				continue
			}
			if !found {
				lo, found = d, true
			}
			hi = d
		}
		switch {
		case !found:
			return expanded(nil)
		case lo == f.from && hi == f.to:
			return passed()
		}
		clipped := f
		clipped.from, clipped.to = lo, hi
		return expanded([]frame{clipped})
	}

	if s.allowed[f.from.month] {
		return passed()
	}
	return rejected(s.skip(f.from, dir))
}

// skip returns the boundary of the nearest allowed month after (or before)
// the month of d.
func (s *monthStage) skip(d date, dir Direction) wall {
	index := d.monthIndex()
	for i := 1; i <= 12; i++ {
		year, month := fromMonthIndex(index + i*dir.step())
		if !s.allowed[month] {
			continue
		}
		if dir == Reverse {
			return endOfDay(lastOfMonth(year, month))
		}
		return startOfDay(firstOfMonth(year, month))
	}
	return nextDay(frame{from: d}, dir)
}
