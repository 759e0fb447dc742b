package pipe

import (
	"slices"
	"time"
)

// Direction is the traversal order of a Chain.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// step returns the period index increment.
func (d Direction) step() int {
	if d == Reverse {
		return -1
	}
	return 1
}

// Precedes reports whether a is visited before b in the traversal order.
func (d Direction) Precedes(a, b time.Time) bool {
	if d == Reverse {
		return a.After(b)
	}
	return a.Before(b)
}

// ordered puts a freshly built ascending slice into traversal order.
func ordered[T any](d Direction, s []T) []T {
	if d == Reverse {
		slices.Reverse(s)
	}
	return s
}
