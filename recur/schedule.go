package recur

import (
	"fmt"
	"slices"
	"time"
)

// ScheduleOptions defines a Schedule.
type ScheduleOptions struct {
	Rules   []*Rule
	Dates   []time.Time
	ExRules []*Rule
	ExDates []time.Time
	// Duration is the duration of the Dates occurrences.
	Duration time.Duration
}

func (o ScheduleOptions) clone() ScheduleOptions {
	o.Rules = slices.Clone(o.Rules)
	o.Dates = slices.Clone(o.Dates)
	o.ExRules = slices.Clone(o.ExRules)
	o.ExDates = slices.Clone(o.ExDates)
	return o
}

// Schedule is a Source aggregating the occurrences of rules and dates,
// minus the occurrences of exception rules and dates. Occurrences at the
// same instant are reported once. A Schedule is immutable.
type Schedule struct {
	options ScheduleOptions
	source  *Composite
}

var _ Source = (*Schedule)(nil)

// NewSchedule returns a new Schedule given the options.
func NewSchedule(options ScheduleOptions) *Schedule {
	options = options.clone()
	included := make([]Source, 0, len(options.Rules)+1)
	for _, r := range options.Rules {
		included = append(included, r)
	}
	if len(options.Dates) > 0 {
		included = append(included, NewDates(options.Dates...).WithDuration(options.Duration))
	}
	excluded := make([]Source, 0, len(options.ExRules)+1)
	for _, r := range options.ExRules {
		excluded = append(excluded, r)
	}
	if len(options.ExDates) > 0 {
		excluded = append(excluded, NewDates(options.ExDates...))
	}
	return &Schedule{
		options: options,
		source:  Dedup(Difference(Union(included...), excluded...)),
	}
}

// Options returns a copy of the schedule options.
func (s *Schedule) Options() ScheduleOptions {
	return s.options.clone()
}

// Set returns a new Schedule with the options modified by update. The
// receiver is not modified.
func (s *Schedule) Set(update func(*ScheduleOptions)) *Schedule {
	options := s.Options()
	update(&options)
	return NewSchedule(options)
}

// IsInfinite reports whether any of the rules is infinite.
func (s *Schedule) IsInfinite() bool {
	return s.source.IsInfinite()
}

// Occurrences starts a new iteration session over the schedule.
func (s *Schedule) Occurrences(args RunArgs) (Iterator, error) {
	return occurrences(s, args)
}

// OccursOnDate reports whether an occurrence starts on the calendar day of
// date.
func (s *Schedule) OccursOnDate(date time.Time) (bool, error) {
	return occursOnDate(s, date)
}

func (s *Schedule) run(args RunArgs) (stepper, error) {
	step, err := s.source.run(args)
	if err != nil {
		return nil, err
	}
	return &tagStep{owner: s, step: step}, nil
}

func (s *Schedule) String() string {
	return fmt.Sprintf("schedule(rules=%d, dates=%d, exrules=%d, exdates=%d)",
		len(s.options.Rules), len(s.options.Dates), len(s.options.ExRules), len(s.options.ExDates))
}

// tagStep appends its owner to the provenance of every occurrence.
type tagStep struct {
	owner Source
	step  stepper
}

var _ stepper = (*tagStep)(nil)

func (s *tagStep) next() (Occurrence, error) {
	return s.tag(s.step.next())
}

func (s *tagStep) skipTo(t time.Time) (Occurrence, error) {
	return s.tag(s.step.skipTo(t))
}

func (s *tagStep) tag(o Occurrence, err error) (Occurrence, error) {
	if err != nil {
		return Occurrence{}, err
	}
	return o.from(s.owner), nil
}
