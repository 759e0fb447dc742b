package recur

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/samber/mo"

	"github.com/reugn/go-recur/internal/pipe"
	"github.com/reugn/go-recur/logger"
)

// Rule is a Source producing the occurrences of a recurrence rule.
// A Rule is immutable and safe for concurrent use.
type Rule struct {
	options RuleOptions
	config  pipe.Config
	bound   *countBound
}

var _ Source = (*Rule)(nil)

// countBound caches the last instant of a rule with a count.
type countBound struct {
	once sync.Once
	last time.Time
	err  error
}

// NewRule returns a new Rule given the options.
// It returns an error which unwraps to ErrInvalidRule if the options are
// not valid.
func NewRule(options RuleOptions) (*Rule, error) {
	options = options.clone()
	if err := options.Validate(); err != nil {
		return nil, err
	}
	options.Start = options.Start.Truncate(time.Second)
	if options.Interval == 0 {
		options.Interval = 1
	}
	r := &Rule{
		options: options,
		config:  options.config(),
		bound:   &countBound{},
	}
	logger.Trace("Rule created", "rule", r.String())
	return r, nil
}

// Options returns a copy of the rule options.
func (r *Rule) Options() RuleOptions {
	return r.options.clone()
}

// Set returns a new Rule with the options modified by update. The receiver
// is not modified.
func (r *Rule) Set(update func(*RuleOptions)) (*Rule, error) {
	options := r.Options()
	update(&options)
	return NewRule(options)
}

// Equal reports whether the rules have equivalent options.
func (r *Rule) Equal(other *Rule) bool {
	if r == other {
		return true
	}
	if other == nil {
		return false
	}
	a, b := r.options, other.options
	if !a.Start.Equal(b.Start) || a.Start.Location().String() != b.Start.Location().String() {
		return false
	}
	if !optionalTimeEqual(a.End, b.End) {
		return false
	}
	a.Start, b.Start = time.Time{}, time.Time{}
	a.End, b.End = mo.None[time.Time](), mo.None[time.Time]()
	return reflect.DeepEqual(a, b)
}

func optionalTimeEqual(a, b mo.Option[time.Time]) bool {
	x, okA := a.Get()
	y, okB := b.Get()
	return okA == okB && x.Equal(y)
}

// IsInfinite reports whether the rule has neither an end nor a count.
func (r *Rule) IsInfinite() bool {
	return r.options.End.IsAbsent() && r.options.Count.IsAbsent()
}

// Duration returns the duration of the rule occurrences.
func (r *Rule) Duration() time.Duration {
	return r.options.Duration
}

// Occurrences starts a new iteration session over the rule.
func (r *Rule) Occurrences(args RunArgs) (Iterator, error) {
	return occurrences(r, args)
}

// OccursOnDate reports whether an occurrence starts on the calendar day of
// date.
func (r *Rule) OccursOnDate(date time.Time) (bool, error) {
	return occursOnDate(r, date)
}

// last returns the last instant of the rule, if the rule is bounded.
func (r *Rule) last() (time.Time, bool, error) {
	if end, ok := r.options.End.Get(); ok {
		return end, true, nil
	}
	count, ok := r.options.Count.Get()
	if !ok {
		return time.Time{}, false, nil
	}
	r.bound.once.Do(func() {
		r.bound.last, r.bound.err = pipe.Last(r.config, count)
	})
	return r.bound.last, true, r.bound.err
}

func (r *Rule) run(args RunArgs) (stepper, error) {
	var lower, upper time.Time
	if start, ok := args.Start.Get(); ok {
		lower = start
	}
	if end, ok := args.End.Get(); ok {
		upper = end
	}
	last, bounded, err := r.last()
	switch {
	case errors.Is(err, ErrDone):
		return emptyStep{}, nil
	case err != nil:
		return nil, err
	case bounded && (upper.IsZero() || last.Before(upper)):
		upper = last
	}

	dir := pipe.Forward
	if args.Reverse {
		dir = pipe.Reverse
	}
	chain, err := pipe.New(r.config, dir, lower, upper)
	if err != nil {
		return nil, invalidArgumentError(err.Error())
	}
	return &ruleStep{rule: r, chain: chain}, nil
}

// String returns the RRULE representation of the rule.
func (r *Rule) String() string {
	o := &r.options
	parts := []string{"FREQ=" + o.Frequency.String()}
	if o.Interval > 1 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(o.Interval))
	}
	if count, ok := o.Count.Get(); ok {
		parts = append(parts, "COUNT="+strconv.Itoa(count))
	}
	if end, ok := o.End.Get(); ok {
		parts = append(parts, "UNTIL="+end.UTC().Format("20060102T150405Z"))
	}
	if wd, ok := o.WeekStart.Get(); ok {
		parts = append(parts, "WKST="+weekdayCodes[wd])
	}
	parts = appendList(parts, "BYMONTH", o.ByMonthOfYear)
	parts = appendList(parts, "BYMONTHDAY", o.ByDayOfMonth)
	parts = appendList(parts, "BYDAY", o.ByDayOfWeek)
	parts = appendList(parts, "BYHOUR", o.ByHourOfDay)
	parts = appendList(parts, "BYMINUTE", o.ByMinuteOfHour)
	parts = appendList(parts, "BYSECOND", o.BySecondOfMinute)
	return strings.Join(parts, ";")
}

func appendList[T any](parts []string, name string, values []T) []string {
	if len(values) == 0 {
		return parts
	}
	items := make([]string, len(values))
	for i, v := range values {
		switch v := any(v).(type) {
		case time.Month:
			items[i] = strconv.Itoa(int(v))
		default:
			items[i] = fmt.Sprint(v)
		}
	}
	return append(parts, name+"="+strings.Join(items, ","))
}

// ruleStep iterates a rule through its engine chain.
type ruleStep struct {
	rule  *Rule
	chain *pipe.Chain
}

var _ stepper = (*ruleStep)(nil)

func (s *ruleStep) next() (Occurrence, error) {
	return s.occurrence(s.chain.Next())
}

func (s *ruleStep) skipTo(t time.Time) (Occurrence, error) {
	return s.occurrence(s.chain.SkipTo(t))
}

func (s *ruleStep) occurrence(t time.Time, err error) (Occurrence, error) {
	if err != nil {
		if !errors.Is(err, ErrDone) {
			logger.Debug("Rule iteration failed", "rule", s.rule.String(), "error", err)
		}
		return Occurrence{}, err
	}
	return Occurrence{
		Time:       t,
		Duration:   s.rule.options.Duration,
		Provenance: Provenance{}.With(s.rule),
	}, nil
}

// emptyStep is a stepper without occurrences.
type emptyStep struct{}

func (emptyStep) next() (Occurrence, error)            { return Occurrence{}, ErrDone }
func (emptyStep) skipTo(time.Time) (Occurrence, error) { return Occurrence{}, ErrDone }
