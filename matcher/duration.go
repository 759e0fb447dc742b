package matcher

import (
	"time"

	"github.com/reugn/go-recur/recur"
)

// Duration implements the recur.Matcher interface with the type argument
// recur.Occurrence, matching occurrences by their duration.
type Duration struct {
	Min time.Duration
	// Max is ignored when negative.
	Max time.Duration
}

var _ recur.Matcher[recur.Occurrence] = (*Duration)(nil)

// DurationAtLeast returns a matcher for occurrences lasting at least d.
func DurationAtLeast(d time.Duration) recur.Matcher[recur.Occurrence] {
	return &Duration{Min: d, Max: -1}
}

// DurationAtMost returns a matcher for occurrences lasting at most d.
func DurationAtMost(d time.Duration) recur.Matcher[recur.Occurrence] {
	return &Duration{Max: d}
}

// IsMatch evaluates Duration matcher on the given occurrence.
func (d *Duration) IsMatch(o recur.Occurrence) bool {
	return o.Duration >= d.Min && (d.Max < 0 || o.Duration <= d.Max)
}
