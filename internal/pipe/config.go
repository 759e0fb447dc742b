package pipe

import (
	"cmp"
	"slices"
	"time"
)

// Unit is a calendar or clock unit, ordered from the finest to the coarsest.
type Unit int

const (
	Second Unit = iota
	Minute
	Hour
	Day
	Week
	Month
	Year
)

var unitNames = [...]string{"second", "minute", "hour", "day", "week", "month", "year"}

func (u Unit) String() string {
	if u < Second || u > Year {
		return "unknown"
	}
	return unitNames[u]
}

// seconds returns the fixed length of a clock unit.
func (u Unit) seconds() int64 {
	switch u {
	case Second:
		return 1
	case Minute:
		return 60
	case Hour:
		return 3600
	}
	return secondsPerDay
}

func (u Unit) duration() time.Duration {
	return time.Duration(u.seconds()) * time.Second
}

// subDaily reports whether the unit is finer than a day.
func (u Unit) subDaily() bool {
	return u < Day
}

// Weekday is a BYDAY token. N is the ordinal within the month or the year;
// zero selects every matching weekday.
type Weekday struct {
	Day time.Weekday
	N   int
}

// Config is the validated rule definition the engine evaluates.
// Use Process to fill in the defaults before building a Chain.
type Config struct {
	Frequency  Unit
	Interval   int
	Start      time.Time
	WeekStart  time.Weekday
	ByMonth    []int
	ByMonthDay []int
	ByWeekday  []Weekday
	ByHour     []int
	ByMinute   []int
	BySecond   []int
}

// Process returns a copy of cfg with the missing constraints derived from
// the start time, sorted and deduplicated constraint lists, the start
// truncated to whole seconds, and a positive interval.
func Process(cfg Config) Config {
	out := cfg
	out.Start = cfg.Start.Truncate(time.Second)
	if out.Interval <= 0 {
		out.Interval = 1
	}
	out.ByMonth = sortedSet(cfg.ByMonth)
	out.ByMonthDay = sortedSet(cfg.ByMonthDay)
	out.ByHour = sortedSet(cfg.ByHour)
	out.ByMinute = sortedSet(cfg.ByMinute)
	out.BySecond = sortedSet(cfg.BySecond)
	out.ByWeekday = slices.Clone(cfg.ByWeekday)
	slices.SortFunc(out.ByWeekday, func(a, b Weekday) int {
		return cmp.Or(cmp.Compare(a.Day, b.Day), cmp.Compare(a.N, b.N))
	})
	out.ByWeekday = slices.Compact(out.ByWeekday)

	start := out.Start
	if out.Frequency > Second && len(out.BySecond) == 0 {
		out.BySecond = []int{start.Second()}
	}
	if out.Frequency > Minute && len(out.ByMinute) == 0 {
		out.ByMinute = []int{start.Minute()}
	}
	if out.Frequency > Hour && len(out.ByHour) == 0 {
		out.ByHour = []int{start.Hour()}
	}
	if len(out.ByMonthDay) == 0 && len(out.ByWeekday) == 0 {
		switch out.Frequency {
		case Year:
			if len(out.ByMonth) == 0 {
				out.ByMonth = []int{int(start.Month())}
			}
			out.ByMonthDay = []int{start.Day()}
		case Month:
			out.ByMonthDay = []int{start.Day()}
		case Week:
			out.ByWeekday = []Weekday{{Day: start.Weekday()}}
		}
	}
	return out
}

func sortedSet(values []int) []int {
	if len(values) == 0 {
		return nil
	}
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

type scope int

const (
	scopeNone scope = iota
	scopeMonth
	scopeYear
)

// ordinalScope returns the period BYDAY ordinals are counted in.
func (c *Config) ordinalScope() scope {
	if !slices.ContainsFunc(c.ByWeekday, func(w Weekday) bool { return w.N != 0 }) {
		return scopeNone
	}
	if c.Frequency == Year && len(c.ByMonth) == 0 {
		return scopeYear
	}
	return scopeMonth
}

// stages builds the constraint stages in evaluation order.
func (c *Config) stages() []stage {
	var stages []stage
	if len(c.ByMonth) > 0 {
		stages = append(stages, newMonthStage(c.ByMonth))
	}
	if len(c.ByMonthDay) > 0 {
		stages = append(stages, newMonthDayStage(c.ByMonthDay))
	}
	if len(c.ByWeekday) > 0 {
		stages = append(stages, newWeekdayStage(c.ByWeekday, c.ordinalScope()))
	}
	if len(c.ByHour) > 0 {
		stages = append(stages, newClockStage(Hour, c.ByHour))
	}
	if len(c.ByMinute) > 0 {
		stages = append(stages, newClockStage(Minute, c.ByMinute))
	}
	if len(c.BySecond) > 0 {
		stages = append(stages, newClockStage(Second, c.BySecond))
	}
	return stages
}
