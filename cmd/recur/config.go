package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/samber/mo"
	"gopkg.in/yaml.v3"

	"github.com/reugn/go-recur/cron"
	"github.com/reugn/go-recur/ical"
	"github.com/reugn/go-recur/recur"
)

const localLayout = "2006-01-02T15:04:05"

// scheduleFile is the YAML representation of a schedule.
type scheduleFile struct {
	// Location is the IANA name of the location of the local date-times.
	// UTC if empty.
	Location string        `yaml:"location"`
	// Duration is the default occurrence duration.
	Duration time.Duration `yaml:"duration"`
	Rules    []ruleSpec    `yaml:"rules"`
	ExRules  []ruleSpec    `yaml:"exrules"`
	Dates    []string      `yaml:"dates"`
	ExDates  []string      `yaml:"exdates"`
}

// ruleSpec defines a rule by an RRULE value, a cron expression or its
// fields.
type ruleSpec struct {
	RRule      string        `yaml:"rrule"`
	Cron       string        `yaml:"cron"`
	Frequency  string        `yaml:"frequency"`
	Interval   int           `yaml:"interval"`
	Start      string        `yaml:"start"`
	End        string        `yaml:"end"`
	Count      int           `yaml:"count"`
	WeekStart  string        `yaml:"week_start"`
	ByMonth    []int         `yaml:"by_month"`
	ByMonthDay []int         `yaml:"by_month_day"`
	ByDay      []string      `yaml:"by_day"`
	ByHour     []int         `yaml:"by_hour"`
	ByMinute   []int         `yaml:"by_minute"`
	BySecond   []int         `yaml:"by_second"`
	Duration   time.Duration `yaml:"duration"`
}

// loadSchedule reads the schedule defined in the YAML file at path.
func loadSchedule(path string) (*recur.Schedule, *time.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var file scheduleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	loc := time.UTC
	if file.Location != "" {
		if loc, err = time.LoadLocation(file.Location); err != nil {
			return nil, nil, err
		}
	}
	schedule, err := file.schedule(loc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return schedule, loc, nil
}

func (f *scheduleFile) schedule(loc *time.Location) (*recur.Schedule, error) {
	if len(f.Rules) == 0 && len(f.Dates) == 0 {
		return nil, errors.New("no rules or dates")
	}
	options := recur.ScheduleOptions{Duration: f.Duration}
	var err error
	for i := range f.Rules {
		rule, err := f.Rules[i].rule(loc, f.Duration)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		options.Rules = append(options.Rules, rule)
	}
	for i := range f.ExRules {
		rule, err := f.ExRules[i].rule(loc, 0)
		if err != nil {
			return nil, fmt.Errorf("exrules[%d]: %w", i, err)
		}
		options.ExRules = append(options.ExRules, rule)
	}
	if options.Dates, err = parseTimes(f.Dates, loc); err != nil {
		return nil, fmt.Errorf("dates: %w", err)
	}
	if options.ExDates, err = parseTimes(f.ExDates, loc); err != nil {
		return nil, fmt.Errorf("exdates: %w", err)
	}
	return recur.NewSchedule(options), nil
}

// rule builds the rule. The occurrences last duration unless the rule sets
// its own.
func (s *ruleSpec) rule(loc *time.Location, duration time.Duration) (*recur.Rule, error) {
	if s.Duration != 0 {
		duration = s.Duration
	}
	start, err := parseTime(s.Start, loc)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	switch {
	case s.RRule != "":
		return ical.RuleFromString(s.RRule, start, duration)
	case s.Cron != "":
		expr, err := cron.Parse(s.Cron)
		if err != nil {
			return nil, err
		}
		options := expr.RuleOptions(start)
		options.Duration = duration
		return recur.NewRule(options)
	}

	frequency, err := recur.ParseFrequency(s.Frequency)
	if err != nil {
		return nil, err
	}
	options := recur.RuleOptions{
		Frequency:        frequency,
		Interval:         s.Interval,
		Start:            start,
		ByDayOfMonth:     s.ByMonthDay,
		ByHourOfDay:      s.ByHour,
		ByMinuteOfHour:   s.ByMinute,
		BySecondOfMinute: s.BySecond,
		Duration:         duration,
	}
	if s.End != "" {
		end, err := parseTime(s.End, loc)
		if err != nil {
			return nil, fmt.Errorf("end: %w", err)
		}
		options.End = mo.Some(end)
	}
	if s.Count != 0 {
		options.Count = mo.Some(s.Count)
	}
	if s.WeekStart != "" {
		wd, err := recur.ParseWeekday(s.WeekStart)
		if err != nil {
			return nil, err
		}
		options.WeekStart = mo.Some(wd)
	}
	for _, m := range s.ByMonth {
		options.ByMonthOfYear = append(options.ByMonthOfYear, time.Month(m))
	}
	for _, d := range s.ByDay {
		day, err := recur.ParseDayOfWeek(d)
		if err != nil {
			return nil, err
		}
		options.ByDayOfWeek = append(options.ByDayOfWeek, day)
	}
	return recur.NewRule(options)
}

// parseTime parses an RFC 3339 date-time, or a local date-time in loc.
func parseTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation(localLayout, value, loc)
}

func parseTimes(values []string, loc *time.Location) ([]time.Time, error) {
	times := make([]time.Time, 0, len(values))
	for _, value := range values {
		t, err := parseTime(value, loc)
		if err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, nil
}
