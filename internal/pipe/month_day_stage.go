package pipe

import "slices"

const maxCacheEntries = 64

// monthDayStage implements BYMONTHDAY. Negative days count from the end of
// the month; days that do not exist in a month are ignored.
type monthDayStage struct {
	days  []int
	cache map[int][]int
}

var _ stage = (*monthDayStage)(nil)

func newMonthDayStage(days []int) *monthDayStage {
	return &monthDayStage{
		days:  days,
		cache: make(map[int][]int),
	}
}

// resolve returns the sorted days of the month the stage selects.
func (s *monthDayStage) resolve(d date) []int {
	key := d.monthIndex()
	if days, ok := s.cache[key]; ok {
		return days
	}
	n := daysIn(d.year, d.month)
	days := make([]int, 0, len(s.days))
	for _, day := range s.days {
		switch {
		case day > 0 && day <= n:
			days = append(days, day)
		case day < 0 && -day <= n:
			days = append(days, n+day+1)
		}
	}
	slices.Sort(days)
	days = slices.Compact(days)
	if len(s.cache) >= maxCacheEntries {
		clear(s.cache)
	}
	s.cache[key] = days
	return days
}

func (s *monthDayStage) apply(f frame, dir Direction) outcome {
	if f.unit > Day {
		var children []frame
		for i := f.from.monthIndex(); i <= f.to.monthIndex(); i++ {
			year, month := fromMonthIndex(i)
			for _, day := range s.resolve(firstOfMonth(year, month)) {
				d := date{year, month, day}
				if d.before(f.from) || f.to.before(d) {
					continue
				}
				children = append(children, dayFrame(d))
			}
		}
		return expanded(ordered(dir, children))
	}

	if _, ok := slices.BinarySearch(s.resolve(f.from), f.from.day); ok {
		return passed()
	}
	return rejected(nextDay(f, dir))
}
