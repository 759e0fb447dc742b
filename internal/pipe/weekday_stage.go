package pipe

import (
	"slices"
	"time"
)

// weekdayStage implements BYDAY. Bare weekdays select every matching day;
// ordinals select the nth (or nth from last) matching day of the month or
// the year, depending on the scope.
type weekdayStage struct {
	tokens []Weekday
	scope  scope
	bare   [7]bool
	cache  map[int][]date
}

var _ stage = (*weekdayStage)(nil)

func newWeekdayStage(tokens []Weekday, sc scope) *weekdayStage {
	s := &weekdayStage{
		tokens: tokens,
		scope:  sc,
		cache:  make(map[int][]date),
	}
	for _, t := range tokens {
		if t.N == 0 || sc == scopeNone {
			s.bare[t.Day] = true
		}
	}
	return s
}

// context returns the key and the date range ordinals are counted in.
func (s *weekdayStage) context(d date) (int, date, date) {
	if s.scope == scopeYear {
		return d.year, date{d.year, time.January, 1}, date{d.year, time.December, 31}
	}
	return d.monthIndex(), firstOfMonth(d.year, d.month), lastOfMonth(d.year, d.month)
}

// matches returns the sorted days selected within the context of d.
func (s *weekdayStage) matches(d date) []date {
	key, first, last := s.context(d)
	if days, ok := s.cache[key]; ok {
		return days
	}
	var days []date
	for _, t := range s.tokens {
		switch {
		case t.N == 0:
			offset := (int(t.Day) - int(first.weekday()) + 7) % 7
			for day := first.addDays(offset); !last.before(day); day = day.addDays(7) {
				days = append(days, day)
			}
		case t.N > 0:
			offset := (int(t.Day) - int(first.weekday()) + 7) % 7
			day := first.addDays(offset + 7*(t.N-1))
			if !last.before(day) {
				days = append(days, day)
			}
		default:
			offset := (int(last.weekday()) - int(t.Day) + 7) % 7
			day := last.addDays(-offset + 7*(t.N+1))
			if !day.before(first) {
				days = append(days, day)
			}
		}
	}
	slices.SortFunc(days, date.compare)
	days = slices.Compact(days)
	if len(s.cache) >= maxCacheEntries {
		clear(s.cache)
	}
	s.cache[key] = days
	return days
}

func (s *weekdayStage) apply(f frame, dir Direction) outcome {
	if f.unit > Day {
		var children []frame
		if s.scope == scopeNone {
			for d := f.from; !f.to.before(d); d = d.addDays(1) {
				if s.bare[d.weekday()] {
					children = append(children, dayFrame(d))
				}
			}
			return expanded(ordered(dir, children))
		}
		for d := f.from; !f.to.before(d); {
			_, _, last := s.context(d)
			for _, day := range s.matches(d) {
				if day.before(f.from) || f.to.before(day) {
					continue
				}
				children = append(children, dayFrame(day))
			}
			d = last.addDays(1)
		}
		return expanded(ordered(dir, children))
	}

	if s.selects(f.from) {
		return passed()
	}
	return rejected(nextDay(f, dir))
}

func (s *weekdayStage) selects(d date) bool {
	if s.scope == scopeNone {
		return s.bare[d.weekday()]
	}
	_, ok := slices.BinarySearchFunc(s.matches(d), d, date.compare)
	return ok
}
