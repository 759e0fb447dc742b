package ical

import (
	"fmt"
	"strings"
	"time"

	goical "github.com/emersion/go-ical"

	"github.com/reugn/go-recur/recur"
)

// PropExceptionRule is the deprecated EXRULE property, still produced by some
// calendar clients.
const PropExceptionRule = "EXRULE"

// ScheduleFromComponent builds a schedule from the recurrence properties of
// an iCalendar component, such as a VEVENT. Floating date-times are
// interpreted in loc.
//
// The occurrence duration is taken from DTEND or DURATION. DTSTART is part
// of the schedule as in RFC 5545, even if it does not match the rules.
func ScheduleFromComponent(comp *goical.Component, loc *time.Location) (*recur.Schedule, error) {
	prop := comp.Props.Get(goical.PropDateTimeStart)
	if prop == nil {
		return nil, fmt.Errorf("%w: missing %s", recur.ErrInvalidRule, goical.PropDateTimeStart)
	}
	start, err := prop.DateTime(loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", recur.ErrInvalidRule, goical.PropDateTimeStart, err)
	}
	duration, err := componentDuration(comp, start, loc)
	if err != nil {
		return nil, err
	}

	options := recur.ScheduleOptions{
		Dates:    []time.Time{start},
		Duration: duration,
	}
	for _, prop := range comp.Props.Values(goical.PropRecurrenceRule) {
		rule, err := RuleFromString(prop.Value, start, duration)
		if err != nil {
			return nil, err
		}
		options.Rules = append(options.Rules, rule)
	}
	for _, prop := range comp.Props.Values(PropExceptionRule) {
		rule, err := RuleFromString(prop.Value, start, 0)
		if err != nil {
			return nil, err
		}
		options.ExRules = append(options.ExRules, rule)
	}
	if options.Dates, err = appendDates(options.Dates, comp, goical.PropRecurrenceDates, loc); err != nil {
		return nil, err
	}
	if options.ExDates, err = appendDates(options.ExDates, comp, goical.PropExceptionDates, loc); err != nil {
		return nil, err
	}
	return recur.NewSchedule(options), nil
}

func componentDuration(comp *goical.Component, start time.Time, loc *time.Location) (time.Duration, error) {
	if prop := comp.Props.Get(goical.PropDateTimeEnd); prop != nil {
		end, err := prop.DateTime(loc)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", recur.ErrInvalidRule, goical.PropDateTimeEnd, err)
		}
		if end.Before(start) {
			return 0, fmt.Errorf("%w: %s is before %s", recur.ErrInvalidRule,
				goical.PropDateTimeEnd, goical.PropDateTimeStart)
		}
		return end.Sub(start), nil
	}
	if prop := comp.Props.Get(goical.PropDuration); prop != nil {
		duration, err := prop.Duration()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", recur.ErrInvalidRule, goical.PropDuration, err)
		}
		return duration, nil
	}
	return 0, nil
}

// appendDates parses the comma separated date-times of every property
// named name.
func appendDates(dates []time.Time, comp *goical.Component, name string,
	loc *time.Location) ([]time.Time, error) {
	for _, prop := range comp.Props.Values(name) {
		for _, value := range strings.Split(prop.Value, ",") {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			single := prop
			single.Value = value
			t, err := single.DateTime(loc)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", recur.ErrInvalidRule, name, err)
			}
			dates = append(dates, t)
		}
	}
	return dates, nil
}
