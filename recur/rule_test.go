package recur_test

import (
	"slices"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/gorhill/cronexpr"
	"github.com/samber/mo"
	"github.com/teambition/rrule-go"
	"golang.org/x/sync/errgroup"

	"github.com/reugn/go-recur/internal/assert"
	"github.com/reugn/go-recur/recur"
)

const layout = "2006-01-02T15:04:05"

func at(t *testing.T, loc *time.Location, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation(layout, value, loc)
	assert.IsNil(t, err)
	return ts
}

func newRule(t *testing.T, options recur.RuleOptions) *recur.Rule {
	t.Helper()
	rule, err := recur.NewRule(options)
	assert.IsNil(t, err)
	return rule
}

func collect(t *testing.T, src recur.Source, args recur.RunArgs) []recur.Occurrence {
	t.Helper()
	occurrences, err := recur.Collect(src, args)
	assert.IsNil(t, err)
	return occurrences
}

// drain returns the occurrences of the run up to its first error, and the
// error unless it is ErrDone.
func drain(t *testing.T, src recur.Source, args recur.RunArgs) ([]string, error) {
	t.Helper()
	var out []string
	for o, err := range recur.All(src, args) {
		if err != nil {
			return out, err
		}
		out = append(out, o.Time.Format(layout))
	}
	return out, nil
}

func formatted(occurrences []recur.Occurrence) []string {
	out := make([]string, len(occurrences))
	for i, o := range occurrences {
		out[i] = o.Time.Format(layout)
	}
	return out
}

func reversed[T any](s []T) []T {
	out := slices.Clone(s)
	slices.Reverse(out)
	return out
}

func TestRule_YearlyCount(t *testing.T) {
	t.Parallel()
	rule := newRule(t, recur.RuleOptions{
		Frequency:     recur.Yearly,
		Start:         at(t, time.UTC, "1997-09-02T09:00:00"),
		Count:         mo.Some(3),
		ByMonthOfYear: []time.Month{time.January, time.March},
		ByDayOfMonth:  []int{5, 7},
	})
	want := []string{"1998-01-05T09:00:00", "1998-01-07T09:00:00", "1998-03-05T09:00:00"}

	assert.Equal(t, formatted(collect(t, rule, recur.RunArgs{})), want)
	assert.Equal(t, formatted(collect(t, rule, recur.RunArgs{Reverse: true})), reversed(want))
	assert.Equal(t, rule.IsInfinite(), false)
}

func TestRule_Validation(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		options recur.RuleOptions
	}{
		{"missing frequency", recur.RuleOptions{Start: start}},
		{"missing start", recur.RuleOptions{Frequency: recur.Daily}},
		{"negative interval", recur.RuleOptions{Frequency: recur.Daily, Start: start, Interval: -1}},
		{"end before start", recur.RuleOptions{Frequency: recur.Daily, Start: start,
			End: mo.Some(start.Add(-time.Hour))}},
		{"end and count", recur.RuleOptions{Frequency: recur.Daily, Start: start,
			End: mo.Some(start.Add(time.Hour)), Count: mo.Some(2)}},
		{"zero count", recur.RuleOptions{Frequency: recur.Daily, Start: start, Count: mo.Some(0)}},
		{"zero day of month", recur.RuleOptions{Frequency: recur.Monthly, Start: start,
			ByDayOfMonth: []int{0}}},
		{"day of month out of range", recur.RuleOptions{Frequency: recur.Monthly, Start: start,
			ByDayOfMonth: []int{-32}}},
		{"month out of range", recur.RuleOptions{Frequency: recur.Yearly, Start: start,
			ByMonthOfYear: []time.Month{13}}},
		{"hour out of range", recur.RuleOptions{Frequency: recur.Daily, Start: start,
			ByHourOfDay: []int{24}}},
		{"minute out of range", recur.RuleOptions{Frequency: recur.Daily, Start: start,
			ByMinuteOfHour: []int{60}}},
		{"second out of range", recur.RuleOptions{Frequency: recur.Daily, Start: start,
			BySecondOfMinute: []int{61}}},
		{"leap second secondly", recur.RuleOptions{Frequency: recur.Secondly, Start: start,
			BySecondOfMinute: []int{60}}},
		{"ordinal weekly", recur.RuleOptions{Frequency: recur.Weekly, Start: start,
			ByDayOfWeek: []recur.DayOfWeek{recur.Nth(time.Monday, 1)}}},
		{"ordinal out of range", recur.RuleOptions{Frequency: recur.Monthly, Start: start,
			ByDayOfWeek: []recur.DayOfWeek{recur.Nth(time.Monday, 6)}}},
		{"day of month weekly", recur.RuleOptions{Frequency: recur.Weekly, Start: start,
			ByDayOfMonth: []int{1}}},
		{"negative duration", recur.RuleOptions{Frequency: recur.Daily, Start: start,
			Duration: -time.Minute}},
	}

	for _, tt := range tests {
		test := tt
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := recur.NewRule(test.options)
			assert.ErrorIs(t, err, recur.ErrInvalidRule)
		})
	}
}

func TestRule_Set(t *testing.T) {
	t.Parallel()
	rule := newRule(t, recur.RuleOptions{
		Frequency:   recur.Weekly,
		Start:       at(t, time.UTC, "2024-01-01T09:00:00"),
		ByDayOfWeek: []recur.DayOfWeek{recur.Every(time.Monday)},
	})

	same, err := rule.Set(func(*recur.RuleOptions) {})
	assert.IsNil(t, err)
	assert.True(t, same != rule)
	assert.True(t, same.Equal(rule))

	changed, err := rule.Set(func(o *recur.RuleOptions) {
		o.Interval = 2
		o.ByDayOfWeek[0] = recur.Every(time.Friday)
	})
	assert.IsNil(t, err)
	assert.Equal(t, changed.Options().Interval, 2)
	assert.Equal(t, rule.Options().Interval, 1)
	assert.Equal(t, rule.Options().ByDayOfWeek, []recur.DayOfWeek{recur.Every(time.Monday)})
	assert.True(t, !changed.Equal(rule))

	_, err = rule.Set(func(o *recur.RuleOptions) { o.Interval = -1 })
	assert.ErrorIs(t, err, recur.ErrInvalidRule)
}

func TestRule_Slicing(t *testing.T) {
	t.Parallel()
	ny, err := time.LoadLocation("America/New_York")
	assert.IsNil(t, err)
	rule := newRule(t, recur.RuleOptions{
		Frequency:   recur.Monthly,
		Start:       at(t, ny, "2020-01-15T08:30:00"),
		ByDayOfWeek: []recur.DayOfWeek{recur.Nth(time.Monday, -1), recur.Nth(time.Wednesday, 2)},
		End:         mo.Some(at(t, ny, "2023-01-01T00:00:00")),
	})
	all := collect(t, rule, recur.RunArgs{})
	assert.Equal(t, len(all), 71)

	suffix := collect(t, rule, recur.RunArgs{Start: mo.Some(all[10].Time)})
	assert.Equal(t, formatted(suffix), formatted(all[10:]))

	prefix := collect(t, rule, recur.RunArgs{End: mo.Some(all[20].Time)})
	assert.Equal(t, formatted(prefix), formatted(all[:21]))

	window := collect(t, rule, recur.RunArgs{Start: mo.Some(all[5].Time), End: mo.Some(all[9].Time),
		Reverse: true})
	assert.Equal(t, formatted(window), reversed(formatted(all[5:10])))

	taken := collect(t, rule, recur.RunArgs{Take: 3, Reverse: true})
	assert.Equal(t, formatted(taken), reversed(formatted(all[len(all)-3:])))
}

func TestRule_RunArgs(t *testing.T) {
	t.Parallel()
	start := at(t, time.UTC, "2024-01-01T09:00:00")
	rule := newRule(t, recur.RuleOptions{Frequency: recur.Daily, Start: start})

	_, err := rule.Occurrences(recur.RunArgs{Reverse: true})
	assert.ErrorIs(t, err, recur.ErrInvalidArgument)

	_, err = rule.Occurrences(recur.RunArgs{Start: mo.Some(start), End: mo.Some(start.Add(-time.Hour))})
	assert.ErrorIs(t, err, recur.ErrInvalidArgument)

	_, err = rule.Occurrences(recur.RunArgs{Take: -1})
	assert.ErrorIs(t, err, recur.ErrInvalidArgument)

	occurrences := collect(t, rule, recur.RunArgs{End: mo.Some(start.AddDate(0, 0, 2)), Reverse: true})
	assert.Equal(t, formatted(occurrences),
		[]string{"2024-01-03T09:00:00", "2024-01-02T09:00:00", "2024-01-01T09:00:00"})
}

func TestRule_SkipTo(t *testing.T) {
	t.Parallel()
	rule := newRule(t, recur.RuleOptions{
		Frequency: recur.Daily,
		Start:     at(t, time.UTC, "2024-01-01T09:00:00"),
		Duration:  time.Hour,
	})
	it, err := rule.Occurrences(recur.RunArgs{})
	assert.IsNil(t, err)

	first, err := it.Next()
	assert.IsNil(t, err)
	assert.Equal(t, first.Duration, time.Hour)
	assert.True(t, first.Provenance.Origin() == recur.Source(rule))

	_, err = it.SkipTo(first.Time)
	assert.ErrorIs(t, err, recur.ErrInvalidSkip)
	_, err = it.SkipTo(first.Time.Add(-time.Hour))
	assert.ErrorIs(t, err, recur.ErrInvalidSkip)

	o, err := it.SkipTo(at(t, time.UTC, "2024-03-01T09:00:00"))
	assert.IsNil(t, err)
	assert.Equal(t, o.Time.Format(layout), "2024-03-01T09:00:00")
}

func TestRule_DaylightSaving(t *testing.T) {
	t.Parallel()
	ny, err := time.LoadLocation("America/New_York")
	assert.IsNil(t, err)

	gap := newRule(t, recur.RuleOptions{Frequency: recur.Weekly, Start: at(t, ny, "2021-03-07T02:30:00")})
	_, err = recur.Collect(gap, recur.RunArgs{Take: 3})
	assert.ErrorIs(t, err, recur.ErrUnrepresentableTime)

	// the run does not reach the gap
	occurrences := collect(t, gap, recur.RunArgs{Start: mo.Some(at(t, ny, "2021-03-15T00:00:00")), Take: 2})
	assert.Equal(t, formatted(occurrences), []string{"2021-03-21T02:30:00", "2021-03-28T02:30:00"})

	overlap := newRule(t, recur.RuleOptions{Frequency: recur.Daily, Start: at(t, ny, "2021-11-06T01:30:00"),
		Count: mo.Some(3)})
	occurrences = collect(t, overlap, recur.RunArgs{})
	assert.Equal(t, formatted(occurrences),
		[]string{"2021-11-06T01:30:00", "2021-11-07T01:30:00", "2021-11-08T01:30:00"})
	_, offset := occurrences[1].Time.Zone()
	assert.Equal(t, offset, -4*60*60)
}

func TestRule_DaylightSavingGap(t *testing.T) {
	t.Parallel()
	lordHowe, err := time.LoadLocation("Australia/Lord_Howe")
	assert.IsNil(t, err)
	// clocks move from 02:00 to 02:30 on 2021-10-03
	rule := newRule(t, recur.RuleOptions{
		Frequency:      recur.Daily,
		Start:          at(t, lordHowe, "2021-10-02T02:00:00"),
		ByHourOfDay:    []int{2},
		ByMinuteOfHour: []int{0, 30},
	})
	tests := []struct {
		name     string
		args     recur.RunArgs
		expected []string
	}{
		{
			name:     "forward",
			args:     recur.RunArgs{},
			expected: []string{"2021-10-02T02:00:00", "2021-10-02T02:30:00"},
		},
		{
			name: "reverse",
			args: recur.RunArgs{End: mo.Some(at(t, lordHowe, "2021-10-04T02:30:00")), Reverse: true},
			expected: []string{
				"2021-10-04T02:30:00", "2021-10-04T02:00:00", "2021-10-03T02:30:00",
			},
		},
	}

	for _, tt := range tests {
		test := tt
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, err := drain(t, rule, test.args)
			assert.ErrorIs(t, err, recur.ErrUnrepresentableTime)
			assert.Equal(t, got, test.expected)
		})
	}
}

func TestRule_OccursOnDate(t *testing.T) {
	t.Parallel()
	rule := newRule(t, recur.RuleOptions{
		Frequency:   recur.Monthly,
		Start:       at(t, time.UTC, "2024-01-05T09:00:00"),
		ByDayOfWeek: []recur.DayOfWeek{recur.Nth(time.Friday, 1)},
	})

	ok, err := rule.OccursOnDate(at(t, time.UTC, "2024-02-02T00:00:00"))
	assert.IsNil(t, err)
	assert.Equal(t, ok, true)

	ok, err = rule.OccursOnDate(at(t, time.UTC, "2024-02-09T23:00:00"))
	assert.IsNil(t, err)
	assert.Equal(t, ok, false)
}

func TestRule_String(t *testing.T) {
	t.Parallel()
	rule := newRule(t, recur.RuleOptions{
		Frequency:     recur.Monthly,
		Interval:      2,
		Start:         at(t, time.UTC, "2024-01-05T09:00:00"),
		Count:         mo.Some(10),
		ByMonthOfYear: []time.Month{time.March},
		ByDayOfWeek:   []recur.DayOfWeek{recur.Nth(time.Friday, -1), recur.Every(time.Monday)},
	})
	assert.Equal(t, rule.String(), "FREQ=MONTHLY;INTERVAL=2;COUNT=10;BYMONTH=3;BYDAY=-1FR,MO")
}

// The rules below are evaluated in UTC and compared with rrule-go, which
// follows the python-dateutil semantics.
func TestRule_MatchesRRule(t *testing.T) {
	t.Parallel()
	start := time.Date(2023, time.January, 31, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		name    string
		options recur.RuleOptions
		rrule   rrule.ROption
	}{
		{
			name:    "monthly last day",
			options: recur.RuleOptions{Frequency: recur.Monthly, ByDayOfMonth: []int{-1}},
			rrule:   rrule.ROption{Freq: rrule.MONTHLY, Bymonthday: []int{-1}},
		},
		{
			name:    "monthly default day",
			options: recur.RuleOptions{Frequency: recur.Monthly},
			rrule:   rrule.ROption{Freq: rrule.MONTHLY},
		},
		{
			name: "biweekly with week start",
			options: recur.RuleOptions{Frequency: recur.Weekly, Interval: 2,
				WeekStart:   mo.Some(time.Sunday),
				ByDayOfWeek: []recur.DayOfWeek{recur.Every(time.Monday), recur.Every(time.Sunday)}},
			rrule: rrule.ROption{Freq: rrule.WEEKLY, Interval: 2, Wkst: rrule.SU,
				Byweekday: []rrule.Weekday{rrule.MO, rrule.SU}},
		},
		{
			name: "monthly last friday",
			options: recur.RuleOptions{Frequency: recur.Monthly,
				ByDayOfWeek: []recur.DayOfWeek{recur.Nth(time.Friday, -1)}},
			rrule: rrule.ROption{Freq: rrule.MONTHLY, Byweekday: []rrule.Weekday{rrule.FR.Nth(-1)}},
		},
		{
			name: "yearly leap day",
			options: recur.RuleOptions{Frequency: recur.Yearly,
				ByMonthOfYear: []time.Month{time.February}, ByDayOfMonth: []int{29}},
			rrule: rrule.ROption{Freq: rrule.YEARLY, Bymonth: []int{2}, Bymonthday: []int{29}},
		},
		{
			name: "yearly second to last sunday",
			options: recur.RuleOptions{Frequency: recur.Yearly,
				ByDayOfWeek: []recur.DayOfWeek{recur.Nth(time.Sunday, -2)}},
			rrule: rrule.ROption{Freq: rrule.YEARLY, Byweekday: []rrule.Weekday{rrule.SU.Nth(-2)}},
		},
		{
			name: "daily in summer months",
			options: recur.RuleOptions{Frequency: recur.Daily, Interval: 3,
				ByMonthOfYear: []time.Month{time.June, time.July}, ByHourOfDay: []int{8, 20}},
			rrule: rrule.ROption{Freq: rrule.DAILY, Interval: 3, Bymonth: []int{6, 7},
				Byhour: []int{8, 20}},
		},
		{
			name:    "hourly on the first",
			options: recur.RuleOptions{Frequency: recur.Hourly, Interval: 5, ByDayOfMonth: []int{1}},
			rrule:   rrule.ROption{Freq: rrule.HOURLY, Interval: 5, Bymonthday: []int{1}},
		},
		{
			name: "minutely working hours",
			options: recur.RuleOptions{Frequency: recur.Minutely, Interval: 17,
				ByHourOfDay: []int{9, 10}, ByDayOfWeek: []recur.DayOfWeek{recur.Every(time.Tuesday)}},
			rrule: rrule.ROption{Freq: rrule.MINUTELY, Interval: 17, Byhour: []int{9, 10},
				Byweekday: []rrule.Weekday{rrule.TU}},
		},
		{
			name: "secondly",
			options: recur.RuleOptions{Frequency: recur.Secondly, Interval: 45,
				ByMinuteOfHour: []int{0, 1}},
			rrule: rrule.ROption{Freq: rrule.SECONDLY, Interval: 45, Byminute: []int{0, 1}},
		},
	}

	for _, tt := range tests {
		test := tt
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			const count = 40
			test.options.Start = start
			test.options.Count = mo.Some(count)
			test.rrule.Dtstart = start
			test.rrule.Count = count

			reference, err := rrule.NewRRule(test.rrule)
			assert.IsNil(t, err)
			var want []string
			for _, ts := range reference.All() {
				want = append(want, ts.UTC().Format(layout))
			}

			rule := newRule(t, test.options)
			assert.Equal(t, formatted(collect(t, rule, recur.RunArgs{})), want)
			assert.Equal(t, formatted(collect(t, rule, recur.RunArgs{Reverse: true})), reversed(want))
		})
	}
}

func TestRule_MatchesCron(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, time.February, 27, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		options recur.RuleOptions
		cron    string
	}{
		{
			name: "twice a day",
			options: recur.RuleOptions{Frequency: recur.Daily,
				ByHourOfDay: []int{9, 17}, ByMinuteOfHour: []int{0, 30}},
			cron: "0,30 9,17 * * *",
		},
		{
			name: "monday and friday",
			options: recur.RuleOptions{Frequency: recur.Weekly,
				ByDayOfWeek: []recur.DayOfWeek{recur.Every(time.Monday), recur.Every(time.Friday)},
				ByHourOfDay: []int{8}, ByMinuteOfHour: []int{15}},
			cron: "15 8 * * 1,5",
		},
		{
			name: "first of quarter",
			options: recur.RuleOptions{Frequency: recur.Yearly,
				ByMonthOfYear: []time.Month{time.January, time.April, time.July, time.October},
				ByDayOfMonth:  []int{1}, ByHourOfDay: []int{6}},
			cron: "0 6 1 1,4,7,10 *",
		},
		{
			name:    "every quarter hour",
			options: recur.RuleOptions{Frequency: recur.Minutely, Interval: 15},
			cron:    "*/15 * * * *",
		},
	}

	for _, tt := range tests {
		test := tt
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			const count = 25
			test.options.Start = start
			rule := newRule(t, test.options)

			var want []string
			for _, ts := range cronexpr.MustParse(test.cron).NextN(start.Add(-time.Second), count) {
				want = append(want, ts.Format(layout))
			}
			got := collect(t, rule, recur.RunArgs{Take: count})
			assert.Equal(t, formatted(got), want)
		})
	}
}

func TestRule_ConcurrentSessions(t *testing.T) {
	t.Parallel()
	rule := newRule(t, recur.RuleOptions{
		Frequency: recur.Hourly,
		Start:     at(t, time.UTC, "2024-01-01T00:00:00"),
		Count:     mo.Some(500),
	})
	want := formatted(collect(t, rule, recur.RunArgs{}))

	results := make([][]string, 8)
	var group errgroup.Group
	for i := range results {
		group.Go(func() error {
			occurrences, err := recur.Collect(rule, recur.RunArgs{})
			results[i] = formatted(occurrences)
			return err
		})
	}
	assert.IsNil(t, group.Wait())
	for _, result := range results {
		assert.Equal(t, result, want)
	}
	assert.Equal(t, len(want), 500)
}
