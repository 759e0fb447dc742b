package recur

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/mo"

	"github.com/reugn/go-recur/internal/pipe"
)

// RuleOptions defines a recurrence rule.
type RuleOptions struct {
	// Frequency is required.
	Frequency Frequency
	// Interval is the number of frequency units between periods.
	// Zero means 1.
	Interval int
	// Start is the first instant of the rule. Its location is the time zone
	// the rule is evaluated in. Sub-second precision is dropped.
	Start time.Time
	// End is the last instant the rule may produce, inclusive.
	End mo.Option[time.Time]
	// Count limits the number of occurrences. It cannot be combined with End.
	Count mo.Option[int]
	// WeekStart is the first day of a week. Monday if absent.
	WeekStart mo.Option[time.Weekday]

	ByMonthOfYear    []time.Month
	ByDayOfMonth     []int
	ByDayOfWeek      []DayOfWeek
	ByHourOfDay      []int
	ByMinuteOfHour   []int
	BySecondOfMinute []int

	// Duration is the duration of every occurrence.
	Duration time.Duration
}

// clone returns a deep copy of the options.
func (o RuleOptions) clone() RuleOptions {
	o.ByMonthOfYear = slices.Clone(o.ByMonthOfYear)
	o.ByDayOfMonth = slices.Clone(o.ByDayOfMonth)
	o.ByDayOfWeek = slices.Clone(o.ByDayOfWeek)
	o.ByHourOfDay = slices.Clone(o.ByHourOfDay)
	o.ByMinuteOfHour = slices.Clone(o.ByMinuteOfHour)
	o.BySecondOfMinute = slices.Clone(o.BySecondOfMinute)
	return o
}

// Validate checks the options for configuration errors.
// It returns an error which unwraps to ErrInvalidRule.
func (o *RuleOptions) Validate() error {
	switch {
	case !o.Frequency.valid():
		return invalidRuleError("missing frequency")
	case o.Start.IsZero():
		return invalidRuleError("missing start")
	case o.Interval < 0:
		return invalidRuleError(fmt.Sprintf("interval %d is less than 1", o.Interval))
	case o.Duration < 0:
		return invalidRuleError("negative duration")
	case o.End.IsPresent() && o.Count.IsPresent():
		return invalidRuleError("end and count are mutually exclusive")
	}
	if end, ok := o.End.Get(); ok && end.Before(o.Start) {
		return invalidRuleError("end is before start")
	}
	if count, ok := o.Count.Get(); ok && count < 1 {
		return invalidRuleError(fmt.Sprintf("count %d is less than 1", count))
	}
	if wd, ok := o.WeekStart.Get(); ok && (wd < time.Sunday || wd > time.Saturday) {
		return invalidRuleError(fmt.Sprintf("invalid week start %d", wd))
	}

	for _, m := range o.ByMonthOfYear {
		if m < time.January || m > time.December {
			return invalidRuleError(fmt.Sprintf("month %d out of range", m))
		}
	}
	for _, d := range o.ByDayOfMonth {
		if d == 0 || d < -31 || d > 31 {
			return invalidRuleError(fmt.Sprintf("day of month %d out of range", d))
		}
	}
	if len(o.ByDayOfMonth) > 0 && o.Frequency == Weekly {
		return invalidRuleError("day of month is not allowed with a weekly frequency")
	}
	for _, d := range o.ByDayOfWeek {
		if d.Weekday < time.Sunday || d.Weekday > time.Saturday {
			return invalidRuleError(fmt.Sprintf("invalid weekday %d", d.Weekday))
		}
		if d.N == 0 {
			continue
		}
		switch o.Frequency {
		case Monthly:
			if d.N < -5 || d.N > 5 {
				return invalidRuleError(fmt.Sprintf("weekday ordinal %s out of range", d))
			}
		case Yearly:
			if d.N < -53 || d.N > 53 {
				return invalidRuleError(fmt.Sprintf("weekday ordinal %s out of range", d))
			}
		default:
			return invalidRuleError(fmt.Sprintf("weekday ordinal %s requires a monthly or yearly frequency", d))
		}
	}
	if err := checkRange("hour", o.ByHourOfDay, 23); err != nil {
		return err
	}
	if err := checkRange("minute", o.ByMinuteOfHour, 59); err != nil {
		return err
	}
	if err := checkRange("second", o.BySecondOfMinute, 60); err != nil {
		return err
	}
	if o.Frequency == Secondly && slices.Contains(o.BySecondOfMinute, 60) {
		return invalidRuleError("leap second is not allowed with a secondly frequency")
	}
	return nil
}

func checkRange(field string, values []int, upper int) error {
	for _, v := range values {
		if v < 0 || v > upper {
			return invalidRuleError(fmt.Sprintf("%s %d out of range", field, v))
		}
	}
	return nil
}

// config converts valid options into the processed engine configuration.
func (o *RuleOptions) config() pipe.Config {
	cfg := pipe.Config{
		Frequency:  o.Frequency.unit(),
		Interval:   o.Interval,
		Start:      o.Start,
		WeekStart:  o.WeekStart.OrElse(time.Monday),
		ByMonthDay: o.ByDayOfMonth,
		ByHour:     o.ByHourOfDay,
		ByMinute:   o.ByMinuteOfHour,
		BySecond:   o.BySecondOfMinute,
	}
	for _, m := range o.ByMonthOfYear {
		cfg.ByMonth = append(cfg.ByMonth, int(m))
	}
	for _, d := range o.ByDayOfWeek {
		cfg.ByWeekday = append(cfg.ByWeekday, pipe.Weekday{Day: d.Weekday, N: d.N})
	}
	return pipe.Process(cfg)
}
