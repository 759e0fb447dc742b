// Package ical converts iCalendar components and rrule-go options into
// recur rules and schedules.
package ical

import (
	"fmt"
	"time"

	"github.com/samber/mo"
	"github.com/teambition/rrule-go"

	"github.com/reugn/go-recur/recur"
)

var frequencies = map[rrule.Frequency]recur.Frequency{
	rrule.SECONDLY: recur.Secondly,
	rrule.MINUTELY: recur.Minutely,
	rrule.HOURLY:   recur.Hourly,
	rrule.DAILY:    recur.Daily,
	rrule.WEEKLY:   recur.Weekly,
	rrule.MONTHLY:  recur.Monthly,
	rrule.YEARLY:   recur.Yearly,
}

// rrule-go numbers the days of the week from Monday.
var weekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

func toWeekday(wd rrule.Weekday) time.Weekday {
	return time.Weekday((wd.Day() + 1) % 7)
}

// RuleOptionsFromROption converts rrule-go options into recur rule options.
// Zero values of Interval, Count and Until are treated as unset, as rrule-go
// does. A Monday week start is the default and is left unset.
func RuleOptionsFromROption(option *rrule.ROption) (recur.RuleOptions, error) {
	switch {
	case len(option.Bysetpos) > 0:
		return recur.RuleOptions{}, unsupportedError("BYSETPOS")
	case len(option.Byyearday) > 0:
		return recur.RuleOptions{}, unsupportedError("BYYEARDAY")
	case len(option.Byweekno) > 0:
		return recur.RuleOptions{}, unsupportedError("BYWEEKNO")
	case len(option.Byeaster) > 0:
		return recur.RuleOptions{}, unsupportedError("BYEASTER")
	}
	frequency, ok := frequencies[option.Freq]
	if !ok {
		return recur.RuleOptions{}, unsupportedError(fmt.Sprintf("FREQ=%v", option.Freq))
	}

	options := recur.RuleOptions{
		Frequency:        frequency,
		Interval:         option.Interval,
		Start:            option.Dtstart,
		ByDayOfMonth:     option.Bymonthday,
		ByHourOfDay:      option.Byhour,
		ByMinuteOfHour:   option.Byminute,
		BySecondOfMinute: option.Bysecond,
	}
	if option.Count > 0 {
		options.Count = mo.Some(option.Count)
	}
	if !option.Until.IsZero() {
		options.End = mo.Some(option.Until)
	}
	if wkst := toWeekday(option.Wkst); wkst != time.Monday {
		options.WeekStart = mo.Some(wkst)
	}
	for _, m := range option.Bymonth {
		options.ByMonthOfYear = append(options.ByMonthOfYear, time.Month(m))
	}
	for _, wd := range option.Byweekday {
		options.ByDayOfWeek = append(options.ByDayOfWeek, recur.Nth(toWeekday(wd), wd.N()))
	}
	return options, nil
}

// RuleFromString parses an RRULE value, e.g. "FREQ=DAILY;COUNT=3", into a
// rule starting at start.
func RuleFromString(value string, start time.Time, duration time.Duration) (*recur.Rule, error) {
	option, err := rrule.StrToROption(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", recur.ErrInvalidRule, err)
	}
	option.Dtstart = start
	options, err := RuleOptionsFromROption(option)
	if err != nil {
		return nil, err
	}
	options.Duration = duration
	return recur.NewRule(options)
}

// ROptionFromRule converts a recur rule into rrule-go options.
func ROptionFromRule(rule *recur.Rule) *rrule.ROption {
	options := rule.Options()
	option := &rrule.ROption{
		Dtstart:    options.Start,
		Interval:   options.Interval,
		Count:      options.Count.OrElse(0),
		Until:      options.End.OrElse(time.Time{}),
		Wkst:       weekdays[options.WeekStart.OrElse(time.Monday)],
		Bymonthday: options.ByDayOfMonth,
		Byhour:     options.ByHourOfDay,
		Byminute:   options.ByMinuteOfHour,
		Bysecond:   options.BySecondOfMinute,
	}
	for f, frequency := range frequencies {
		if frequency == options.Frequency {
			option.Freq = f
		}
	}
	for _, m := range options.ByMonthOfYear {
		option.Bymonth = append(option.Bymonth, int(m))
	}
	for _, d := range options.ByDayOfWeek {
		option.Byweekday = append(option.Byweekday, weekdays[d.Weekday].Nth(d.N))
	}
	return option
}
