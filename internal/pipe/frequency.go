package pipe

import (
	"fmt"
	"time"
)

// frequency is the first stage of a chain. It produces the periods of the
// rule, every interval units starting from the period containing the rule
// start.
type frequency struct {
	unit     Unit
	interval int
	loc      *time.Location
	dir      Direction

	start  wall      // start wall clock
	anchor date      // first day of the first week or day period
	at     time.Time // start of the first sub-daily period

	index   int
	pending bool
}

func newFrequency(cfg *Config, dir Direction) *frequency {
	loc := cfg.Start.Location()
	f := &frequency{
		unit:     cfg.Frequency,
		interval: cfg.Interval,
		loc:      loc,
		dir:      dir,
		start:    wallOf(cfg.Start),
	}
	switch f.unit {
	case Week:
		back := (int(f.start.weekday()) - int(cfg.WeekStart) + 7) % 7
		f.anchor = f.start.date.addDays(-back)
	case Day:
		f.anchor = f.start.date
	case Hour:
		f.at = cfg.Start.Add(-time.Duration(f.start.minute*60+f.start.second) * time.Second)
	case Minute:
		f.at = cfg.Start.Add(-time.Duration(f.start.second) * time.Second)
	case Second:
		f.at = cfg.Start
	}
	return f
}

// floorIndex returns the index of the last period starting at or before t.
// The result may be negative.
func (f *frequency) floorIndex(t time.Time) int {
	if f.unit.subDaily() {
		step := int64(f.interval) * f.unit.seconds()
		return int(floorDiv64(t.Unix()-f.at.Unix(), step))
	}
	w := wallOf(t.In(f.loc))
	switch f.unit {
	case Year:
		return floorDiv(w.year-f.start.year, f.interval)
	case Month:
		return floorDiv(w.monthIndex()-f.start.monthIndex(), f.interval)
	case Week:
		return floorDiv(w.epochDay()-f.anchor.epochDay(), 7*f.interval)
	default:
		return floorDiv(w.epochDay()-f.anchor.epochDay(), f.interval)
	}
}

// seek positions the stage so that the next call returns the period with
// the given index.
func (f *frequency) seek(index int) {
	if index < 0 && f.dir == Forward {
		index = 0
	}
	f.index, f.pending = index, true
}

// fastForward moves to the period containing the skip target, making
// progress in the traversal direction in any case.
func (f *frequency) fastForward(skip wall) {
	t := resolveWall(skip, f.loc, f.dir == Reverse)
	index := f.floorIndex(t)
	if f.dir == Reverse {
		index = min(index, f.index-1)
	} else {
		index = max(index, f.index+1)
	}
	f.seek(index)
}

// next returns the next period in the traversal direction.
func (f *frequency) next() (frame, error) {
	if f.pending {
		f.pending = false
	} else {
		f.index += f.dir.step()
	}
	if f.index < 0 {
		return frame{}, ErrDone
	}
	return f.period(f.index)
}

func (f *frequency) period(index int) (frame, error) {
	n := index * f.interval
	var p frame
	switch f.unit {
	case Year:
		year := f.start.year + n
		p = frame{unit: Year, from: date{year, time.January, 1}, to: date{year, time.December, 31}}
	case Month:
		year, month := fromMonthIndex(f.start.monthIndex() + n)
		p = frame{unit: Month, from: firstOfMonth(year, month), to: lastOfMonth(year, month)}
	case Week:
		from := f.anchor.addDays(7 * n)
		p = frame{unit: Week, from: from, to: from.addDays(6)}
	case Day:
		p = dayFrame(f.anchor.addDays(n))
	default:
		at := time.Unix(f.at.Unix()+int64(n)*f.unit.seconds(), 0).In(f.loc)
		w := wallOf(at)
		if (f.unit == Hour && (w.minute != 0 || w.second != 0)) ||
			(f.unit == Minute && w.second != 0) {
			return frame{}, unrepresentableError(
				fmt.Sprintf("%s period starts at %s", f.unit, at.Format(time.RFC3339)))
		}
		p = frame{unit: f.unit, from: w.date, to: w.date,
			hour: w.hour, minute: w.minute, second: w.second, at: at}
	}
	if p.from.year < minYear || p.from.year > maxYear {
		return frame{}, ErrDone
	}
	return p, nil
}

// resolveWall returns the instant a wall clock reading denotes in loc.
// Ambiguous readings resolve to the earliest instant, or the latest one when
// latest is set. Readings in a gap resolve to whatever time.Date returns.
func resolveWall(w wall, loc *time.Location, latest bool) time.Time {
	t := w.in(loc)
	naive := w.in(time.UTC).Unix()
	for _, probe := range []time.Time{t.Add(-12 * time.Hour), t.Add(12 * time.Hour)} {
		_, offset := probe.In(loc).Zone()
		c := time.Unix(naive-int64(offset), 0).In(loc)
		if wallOf(c) != w {
			continue
		}
		if (latest && c.After(t)) || (!latest && c.Before(t)) {
			t = c
		}
	}
	return t
}
