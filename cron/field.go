package cron

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	months = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}
	days   = []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}
)

// fieldSpec describes the values accepted by a cron field.
type fieldSpec struct {
	name     string
	min, max int
	// names are the literal values, starting at min
	names []string
}

var (
	secondSpec     = fieldSpec{name: "second", min: 0, max: 59}
	minuteSpec     = fieldSpec{name: "minute", min: 0, max: 59}
	hourSpec       = fieldSpec{name: "hour", min: 0, max: 23}
	dayOfMonthSpec = fieldSpec{name: "day of month", min: 1, max: 31}
	monthSpec      = fieldSpec{name: "month", min: 1, max: 12, names: months}
	// 7 is accepted as Sunday
	dayOfWeekSpec = fieldSpec{name: "day of week", min: 0, max: 7, names: days}
)

// parseField returns the sorted values of a comma separated list of values,
// ranges and steps. It returns nil for a wildcard.
func parseField(field string, spec fieldSpec) ([]int, error) {
	if field == "*" || field == "?" {
		return nil, nil
	}
	var values []int
	for _, part := range strings.Split(field, ",") {
		partValues, err := parsePart(part, spec)
		if err != nil {
			return nil, err
		}
		values = append(values, partValues...)
	}
	slices.Sort(values)
	return slices.Compact(values), nil
}

func parsePart(part string, spec fieldSpec) ([]int, error) {
	rangePart, stepPart, hasStep := strings.Cut(part, "/")
	step := 1
	if hasStep {
		var err error
		if step, err = strconv.Atoi(stepPart); err != nil || step <= 0 {
			return nil, cronParseError(fmt.Sprintf("invalid %s step %q", spec.name, stepPart))
		}
	}

	var from, to int
	switch {
	case rangePart == "*":
		from, to = spec.min, spec.max
	case strings.Contains(rangePart, "-"):
		lo, hi, _ := strings.Cut(rangePart, "-")
		var err error
		if from, err = spec.value(lo); err != nil {
			return nil, err
		}
		if to, err = spec.value(hi); err != nil {
			return nil, err
		}
		if to < from {
			return nil, cronParseError(fmt.Sprintf("invalid %s range %q", spec.name, rangePart))
		}
	default:
		value, err := spec.value(rangePart)
		if err != nil {
			return nil, err
		}
		from, to = value, value
		if hasStep {
			to = spec.max
		}
	}
	return fillStep(from, to, step), nil
}

// value parses a single number or literal name.
func (spec fieldSpec) value(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		i = slices.Index(spec.names, strings.ToUpper(s))
		if i < 0 {
			return 0, cronParseError(fmt.Sprintf("invalid %s value %q", spec.name, s))
		}
		i += spec.min
	}
	if i < spec.min || i > spec.max {
		return 0, cronParseError(fmt.Sprintf("%s value %d out of range [%d, %d]",
			spec.name, i, spec.min, spec.max))
	}
	return i, nil
}

func fillStep(from, to, step int) []int {
	values := make([]int, 0, (to-from)/step+1)
	for i := from; i <= to; i += step {
		values = append(values, i)
	}
	return values
}

func fillRange(from, to int) []int {
	return fillStep(from, to, 1)
}

func formatValues(values []int) string {
	if values == nil {
		return "*"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
