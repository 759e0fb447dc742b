// Package cron converts cron expressions into recur rules.
//
// Both the standard five field format and the six field format with a
// leading seconds field are accepted, optionally followed by a year field
// that must be a wildcard:
//
//	<second> <minute> <hour> <day-of-month> <month> <day-of-week> <year>
//
// Fields accept values, names (JAN-DEC, SUN-SAT), ranges, steps and lists.
// The day of month accepts L for the last day of the month; the day of week
// accepts FRI#3 for the third Friday and 5L for the last Friday of the month.
// Unlike the traditional cron daemon, the day of month and the day of week
// cannot both be restricted.
package cron

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/reugn/go-recur/recur"
)

// pre-defined cron expressions
var special = map[string]string{
	"@yearly":   "0 0 0 1 1 *",
	"@annually": "0 0 0 1 1 *",
	"@monthly":  "0 0 0 1 * *",
	"@weekly":   "0 0 0 * * 0",
	"@daily":    "0 0 0 * * *",
	"@midnight": "0 0 0 * * *",
	"@hourly":   "0 0 * * * *",
}

// Expression is a parsed cron expression. A nil field matches any value.
type Expression struct {
	seconds     []int
	minutes     []int
	hours       []int
	daysOfMonth []int
	months      []int
	daysOfWeek  []recur.DayOfWeek
}

// Parse parses a cron expression.
func Parse(expr string) (*Expression, error) {
	if value, ok := special[strings.ToLower(strings.TrimSpace(expr))]; ok {
		expr = value
	}
	tokens := strings.Fields(expr)
	switch len(tokens) {
	case 5:
		tokens = append([]string{"0"}, tokens...)
	case 6:
	case 7:
		if tokens[6] != "*" {
			return nil, cronParseError("year field not supported, use asterisk")
		}
		tokens = tokens[:6]
	default:
		return nil, cronParseError(fmt.Sprintf("invalid expression length %d", len(tokens)))
	}
	if !isWildcard(tokens[3]) && !isWildcard(tokens[5]) {
		return nil, cronParseError("day field set twice")
	}

	e := &Expression{}
	var err error
	if e.seconds, err = parseField(tokens[0], secondSpec); err != nil {
		return nil, err
	}
	if e.minutes, err = parseField(tokens[1], minuteSpec); err != nil {
		return nil, err
	}
	if e.hours, err = parseField(tokens[2], hourSpec); err != nil {
		return nil, err
	}
	if e.daysOfMonth, err = parseDaysOfMonth(tokens[3]); err != nil {
		return nil, err
	}
	if e.months, err = parseField(tokens[4], monthSpec); err != nil {
		return nil, err
	}
	if e.daysOfWeek, err = parseDaysOfWeek(tokens[5]); err != nil {
		return nil, err
	}
	return e, nil
}

func isWildcard(field string) bool {
	return field == "*" || field == "?"
}

func parseDaysOfMonth(field string) ([]int, error) {
	if strings.EqualFold(field, "L") {
		return []int{-1}, nil
	}
	return parseField(field, dayOfMonthSpec)
}

// parseDaysOfWeek parses the day of week field, where a single value may be
// qualified with #n or L.
func parseDaysOfWeek(field string) ([]recur.DayOfWeek, error) {
	if day, nth, ok := strings.Cut(field, "#"); ok {
		n, err := strconv.Atoi(nth)
		if err != nil || n < 1 || n > 5 {
			return nil, cronParseError(fmt.Sprintf("invalid day of week ordinal %q", nth))
		}
		return ordinalDay(day, n)
	}
	if len(field) > 1 && strings.HasSuffix(strings.ToUpper(field), "L") {
		return ordinalDay(field[:len(field)-1], -1)
	}
	values, err := parseField(field, dayOfWeekSpec)
	if err != nil || values == nil {
		return nil, err
	}
	var daysOfWeek []recur.DayOfWeek
	for _, v := range values {
		wd := recur.Every(time.Weekday(v % 7))
		if !slices.Contains(daysOfWeek, wd) {
			daysOfWeek = append(daysOfWeek, wd)
		}
	}
	return daysOfWeek, nil
}

func ordinalDay(day string, n int) ([]recur.DayOfWeek, error) {
	v, err := dayOfWeekSpec.value(day)
	if err != nil {
		return nil, err
	}
	return []recur.DayOfWeek{recur.Nth(time.Weekday(v%7), n)}, nil
}

// ordinal reports whether the day of week field has an ordinal.
func (e *Expression) ordinal() bool {
	for _, d := range e.daysOfWeek {
		if d.N != 0 {
			return true
		}
	}
	return false
}

// RuleOptions returns the options of a rule producing the fire times of the
// expression from start on, in the location of start. The frequency is the
// unit of the finest wildcard clock field, or monthly when the day of week
// has an ordinal.
func (e *Expression) RuleOptions(start time.Time) recur.RuleOptions {
	options := recur.RuleOptions{
		Frequency:        recur.Daily,
		Start:            start,
		ByDayOfMonth:     e.daysOfMonth,
		ByDayOfWeek:      e.daysOfWeek,
		ByHourOfDay:      e.hours,
		ByMinuteOfHour:   e.minutes,
		BySecondOfMinute: e.seconds,
	}
	for _, m := range e.months {
		options.ByMonthOfYear = append(options.ByMonthOfYear, time.Month(m))
	}

	if e.ordinal() {
		options.Frequency = recur.Monthly
		if options.ByHourOfDay == nil {
			options.ByHourOfDay = fillRange(hourSpec.min, hourSpec.max)
		}
		if options.ByMinuteOfHour == nil {
			options.ByMinuteOfHour = fillRange(minuteSpec.min, minuteSpec.max)
		}
		if options.BySecondOfMinute == nil {
			options.BySecondOfMinute = fillRange(secondSpec.min, secondSpec.max)
		}
		return options
	}
	switch {
	case e.seconds == nil:
		options.Frequency = recur.Secondly
	case e.minutes == nil:
		options.Frequency = recur.Minutely
	case e.hours == nil:
		options.Frequency = recur.Hourly
	}
	return options
}

// String returns the expression in the six field format with numeric
// values.
func (e *Expression) String() string {
	daysOfWeek := "*"
	if e.daysOfWeek != nil {
		parts := make([]string, len(e.daysOfWeek))
		for i, d := range e.daysOfWeek {
			switch {
			case d.N > 0:
				parts[i] = fmt.Sprintf("%d#%d", d.Weekday, d.N)
			case d.N < 0:
				parts[i] = fmt.Sprintf("%dL", d.Weekday)
			default:
				parts[i] = strconv.Itoa(int(d.Weekday))
			}
		}
		daysOfWeek = strings.Join(parts, ",")
	}
	daysOfMonth := formatValues(e.daysOfMonth)
	if len(e.daysOfMonth) == 1 && e.daysOfMonth[0] == -1 {
		daysOfMonth = "L"
	}
	return strings.Join([]string{
		formatValues(e.seconds),
		formatValues(e.minutes),
		formatValues(e.hours),
		daysOfMonth,
		formatValues(e.months),
		daysOfWeek,
	}, " ")
}

// NewRule returns a rule producing the fire times of the cron expression
// from start on.
func NewRule(expr string, start time.Time) (*recur.Rule, error) {
	e, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return recur.NewRule(e.RuleOptions(start))
}
