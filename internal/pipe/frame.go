package pipe

import (
	"fmt"
	"time"
)

// frame is a candidate period travelling down the chain. Frames of day unit
// and coarser cover the inclusive date range [from, to]. Clock frames cover
// a single date and carry the clock fields down to their unit.
type frame struct {
	unit   Unit
	from   date
	to     date
	hour   int
	minute int
	second int
	// at is the absolute start of the frame, set for sub-daily frequencies
	at time.Time
}

func dayFrame(d date) frame {
	return frame{unit: Day, from: d, to: d}
}

func (f frame) wall() wall {
	return wall{f.from, f.hour, f.minute, f.second}
}

func (f frame) anchored() bool {
	return !f.at.IsZero()
}

// field returns the clock field of the given unit.
func (f frame) field(u Unit) int {
	switch u {
	case Hour:
		return f.hour
	case Minute:
		return f.minute
	}
	return f.second
}

func (f *frame) setField(u Unit, v int) {
	switch u {
	case Hour:
		f.hour = v
	case Minute:
		f.minute = v
	default:
		f.second = v
	}
}

func (f frame) String() string {
	if f.unit.subDaily() {
		return fmt.Sprintf("%s %s", f.unit, f.wall())
	}
	return fmt.Sprintf("%s %s..%s", f.unit, f.from, f.to)
}

type verdict int

const (
	// pass keeps the frame as is
	pass verdict = iota
	// reject drops the frame
	reject
	// expand replaces the frame with its children
	expand
)

// outcome is the result of applying a stage to a frame.
type outcome struct {
	verdict  verdict
	children []frame
	// skip is the nearest wall time in the traversal direction that may
	// satisfy the stage after a rejection
	skip wall
}

func passed() outcome {
	return outcome{verdict: pass}
}

func rejected(skip wall) outcome {
	return outcome{verdict: reject, skip: skip}
}

func expanded(children []frame) outcome {
	return outcome{verdict: expand, children: children}
}

// stage is a constraint applied to every frame of a chain.
type stage interface {
	// apply expands or filters the frame. Children are returned in
	// traversal order.
	apply(f frame, dir Direction) outcome
}

// nextDay returns the skip target past the day of the frame.
func nextDay(f frame, dir Direction) wall {
	if dir == Reverse {
		return endOfDay(f.from.addDays(-1))
	}
	return startOfDay(f.from.addDays(1))
}
