package pipe_test

import (
	"errors"
	"math"
	"slices"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/reugn/go-recur/internal/assert"
	"github.com/reugn/go-recur/internal/pipe"
)

const layout = "2006-01-02T15:04:05"

func location(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	assert.IsNil(t, err)
	return loc
}

func at(t *testing.T, loc *time.Location, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation(layout, value, loc)
	assert.IsNil(t, err)
	return ts
}

func collect(t *testing.T, cfg pipe.Config, dir pipe.Direction, lower, upper time.Time, n int) []string {
	t.Helper()
	c, err := pipe.New(pipe.Process(cfg), dir, lower, upper)
	assert.IsNil(t, err)
	var out []string
	for len(out) < n {
		ts, err := c.Next()
		if errors.Is(err, pipe.ErrDone) {
			break
		}
		assert.IsNil(t, err)
		out = append(out, ts.Format(layout))
	}
	return out
}

func TestChainForward(t *testing.T) {
	t.Parallel()
	ny := location(t, "America/New_York")
	tests := []struct {
		name string
		cfg  pipe.Config
		want []string
	}{
		{
			name: "daily",
			cfg:  pipe.Config{Frequency: pipe.Day, Start: at(t, ny, "1997-09-02T09:00:00")},
			want: []string{"1997-09-02T09:00:00", "1997-09-03T09:00:00", "1997-09-04T09:00:00"},
		},
		{
			name: "monthly first friday",
			cfg: pipe.Config{Frequency: pipe.Month, Start: at(t, ny, "1997-09-05T09:00:00"),
				ByWeekday: []pipe.Weekday{{Day: time.Friday, N: 1}}},
			want: []string{"1997-09-05T09:00:00", "1997-10-03T09:00:00", "1997-11-07T09:00:00",
				"1997-12-05T09:00:00", "1998-01-02T09:00:00", "1998-02-06T09:00:00"},
		},
		{
			name: "monthly last day",
			cfg: pipe.Config{Frequency: pipe.Month, Start: at(t, ny, "2021-01-31T10:00:00"),
				ByMonthDay: []int{-1}},
			want: []string{"2021-01-31T10:00:00", "2021-02-28T10:00:00", "2021-03-31T10:00:00",
				"2021-04-30T10:00:00"},
		},
		{
			name: "monthly skips short months",
			cfg:  pipe.Config{Frequency: pipe.Month, Start: at(t, ny, "2021-01-31T10:00:00")},
			want: []string{"2021-01-31T10:00:00", "2021-03-31T10:00:00", "2021-05-31T10:00:00",
				"2021-07-31T10:00:00"},
		},
		{
			name: "every other week on tuesday and thursday",
			cfg: pipe.Config{Frequency: pipe.Week, Interval: 2, Start: at(t, ny, "1997-09-02T09:00:00"),
				WeekStart: time.Sunday,
				ByWeekday: []pipe.Weekday{{Day: time.Tuesday}, {Day: time.Thursday}}},
			want: []string{"1997-09-02T09:00:00", "1997-09-04T09:00:00", "1997-09-16T09:00:00",
				"1997-09-18T09:00:00", "1997-09-30T09:00:00", "1997-10-02T09:00:00",
				"1997-10-14T09:00:00", "1997-10-16T09:00:00"},
		},
		{
			name: "week start monday",
			cfg: pipe.Config{Frequency: pipe.Week, Interval: 2, Start: at(t, ny, "1997-08-05T09:00:00"),
				WeekStart: time.Monday,
				ByWeekday: []pipe.Weekday{{Day: time.Tuesday}, {Day: time.Sunday}}},
			want: []string{"1997-08-05T09:00:00", "1997-08-10T09:00:00", "1997-08-19T09:00:00",
				"1997-08-24T09:00:00"},
		},
		{
			name: "week start sunday",
			cfg: pipe.Config{Frequency: pipe.Week, Interval: 2, Start: at(t, ny, "1997-08-05T09:00:00"),
				WeekStart: time.Sunday,
				ByWeekday: []pipe.Weekday{{Day: time.Tuesday}, {Day: time.Sunday}}},
			want: []string{"1997-08-05T09:00:00", "1997-08-17T09:00:00", "1997-08-19T09:00:00",
				"1997-08-31T09:00:00"},
		},
		{
			name: "yearly twentieth monday",
			cfg: pipe.Config{Frequency: pipe.Year, Start: at(t, ny, "1997-05-19T09:00:00"),
				ByWeekday: []pipe.Weekday{{Day: time.Monday, N: 20}}},
			want: []string{"1997-05-19T09:00:00", "1998-05-18T09:00:00", "1999-05-17T09:00:00"},
		},
		{
			name: "yearly thursdays in march",
			cfg: pipe.Config{Frequency: pipe.Year, Start: at(t, ny, "1997-03-13T09:00:00"),
				ByMonth: []int{3}, ByWeekday: []pipe.Weekday{{Day: time.Thursday}}},
			want: []string{"1997-03-13T09:00:00", "1997-03-20T09:00:00", "1997-03-27T09:00:00",
				"1998-03-05T09:00:00"},
		},
		{
			name: "monthly friday the 13th",
			cfg: pipe.Config{Frequency: pipe.Month, Start: at(t, ny, "1997-09-02T09:00:00"),
				ByMonthDay: []int{13}, ByWeekday: []pipe.Weekday{{Day: time.Friday}}},
			want: []string{"1998-02-13T09:00:00", "1998-03-13T09:00:00", "1998-11-13T09:00:00"},
		},
		{
			name: "hourly with minutes",
			cfg: pipe.Config{Frequency: pipe.Hour, Interval: 3, Start: at(t, ny, "1997-09-02T09:00:00"),
				ByMinute: []int{0, 30}},
			want: []string{"1997-09-02T09:00:00", "1997-09-02T09:30:00", "1997-09-02T12:00:00",
				"1997-09-02T12:30:00"},
		},
		{
			name: "minutely fast-forwards to february",
			cfg: pipe.Config{Frequency: pipe.Minute, Interval: 7, Start: at(t, ny, "2021-01-01T00:00:00"),
				ByMonth: []int{2}},
			want: []string{"2021-02-01T00:06:00", "2021-02-01T00:13:00"},
		},
		{
			name: "secondly with hour filter",
			cfg: pipe.Config{Frequency: pipe.Second, Interval: 20, Start: at(t, ny, "2021-01-01T22:59:20"),
				ByHour: []int{9}},
			want: []string{"2021-01-02T09:00:00", "2021-01-02T09:00:20"},
		},
	}

	for _, tt := range tests {
		test := tt
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := collect(t, test.cfg, pipe.Forward, time.Time{}, time.Time{}, len(test.want))
			assert.Equal(t, got, test.want)
		})
	}
}

func TestChainReverseSymmetry(t *testing.T) {
	t.Parallel()
	ny := location(t, "America/New_York")
	configs := []pipe.Config{
		{Frequency: pipe.Year, Start: at(t, ny, "2000-02-29T12:00:00")},
		{Frequency: pipe.Month, Interval: 2, Start: at(t, ny, "2020-01-15T08:30:00"),
			ByWeekday: []pipe.Weekday{{Day: time.Monday, N: -1}, {Day: time.Wednesday, N: 2}}},
		{Frequency: pipe.Week, Start: at(t, ny, "2020-01-01T06:00:00"), ByMonth: []int{1, 2},
			ByWeekday: []pipe.Weekday{{Day: time.Friday}, {Day: time.Saturday}}},
		{Frequency: pipe.Day, Interval: 3, Start: at(t, ny, "2020-10-30T00:15:00"),
			ByHour: []int{0, 12}, ByMinute: []int{15, 45}},
		{Frequency: pipe.Hour, Interval: 5, Start: at(t, ny, "2020-10-30T01:00:00"),
			ByMonthDay: []int{1, 2, -1}},
		{Frequency: pipe.Minute, Interval: 13, Start: at(t, ny, "2020-10-31T22:00:00"),
			ByHour: []int{1, 23}},
	}
	lower := at(t, ny, "2020-10-01T00:00:00")
	upper := at(t, ny, "2024-11-30T00:00:00")

	for _, cfg := range configs {
		forward := collect(t, cfg, pipe.Forward, lower, upper, math.MaxInt)
		reverse := collect(t, cfg, pipe.Reverse, lower, upper, math.MaxInt)
		assert.True(t, len(forward) > 0)
		slices.Reverse(reverse)
		assert.Equal(t, reverse, forward)
	}
}

func TestChainBounds(t *testing.T) {
	t.Parallel()
	cfg := pipe.Config{Frequency: pipe.Day, Start: at(t, time.UTC, "2021-01-01T10:00:00")}

	got := collect(t, cfg, pipe.Forward, at(t, time.UTC, "2021-01-03T10:00:00"),
		at(t, time.UTC, "2021-01-05T10:00:00"), 10)
	assert.Equal(t, got, []string{"2021-01-03T10:00:00", "2021-01-04T10:00:00", "2021-01-05T10:00:00"})

	// lower bounds before the start are ignored
	got = collect(t, cfg, pipe.Reverse, at(t, time.UTC, "2020-01-01T00:00:00"),
		at(t, time.UTC, "2021-01-02T09:00:00"), 10)
	assert.Equal(t, got, []string{"2021-01-01T10:00:00"})

	_, err := pipe.New(pipe.Process(cfg), pipe.Reverse, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, pipe.ErrInvalidBounds)
}

func TestChainSkipTo(t *testing.T) {
	t.Parallel()
	cfg := pipe.Process(pipe.Config{Frequency: pipe.Day, Start: at(t, time.UTC, "2021-01-01T10:00:00")})

	c, err := pipe.New(cfg, pipe.Forward, time.Time{}, time.Time{})
	assert.IsNil(t, err)
	first, err := c.Next()
	assert.IsNil(t, err)

	_, err = c.SkipTo(first)
	assert.ErrorIs(t, err, pipe.ErrInvalidSkip)

	next, err := c.SkipTo(at(t, time.UTC, "2021-02-01T10:00:01"))
	assert.IsNil(t, err)
	assert.Equal(t, next.Format(layout), "2021-02-02T10:00:00")

	// an invalid skip does not poison the chain
	_, err = c.SkipTo(at(t, time.UTC, "2021-01-15T00:00:00"))
	assert.ErrorIs(t, err, pipe.ErrInvalidSkip)
	next, err = c.Next()
	assert.IsNil(t, err)
	assert.Equal(t, next.Format(layout), "2021-02-03T10:00:00")

	r, err := pipe.New(cfg, pipe.Reverse, time.Time{}, at(t, time.UTC, "2021-12-31T23:00:00"))
	assert.IsNil(t, err)
	next, err = r.SkipTo(at(t, time.UTC, "2021-06-01T09:00:00"))
	assert.IsNil(t, err)
	assert.Equal(t, next.Format(layout), "2021-05-31T10:00:00")
	_, err = r.SkipTo(at(t, time.UTC, "2021-06-01T09:00:00"))
	assert.ErrorIs(t, err, pipe.ErrInvalidSkip)
}

func TestChainDaylightSaving(t *testing.T) {
	t.Parallel()
	ny := location(t, "America/New_York")

	t.Run("spring forward gap", func(t *testing.T) {
		t.Parallel()
		cfg := pipe.Process(pipe.Config{Frequency: pipe.Week, Start: at(t, ny, "2021-03-07T02:30:00")})
		c, err := pipe.New(cfg, pipe.Forward, time.Time{}, time.Time{})
		assert.IsNil(t, err)
		_, err = c.Next()
		assert.IsNil(t, err)
		_, err = c.Next()
		assert.ErrorIs(t, err, pipe.ErrUnrepresentableTime)
		// poisoned
		_, err = c.Next()
		assert.ErrorIs(t, err, pipe.ErrUnrepresentableTime)
	})

	t.Run("fall back overlap", func(t *testing.T) {
		t.Parallel()
		cfg := pipe.Config{Frequency: pipe.Day, Start: at(t, ny, "2021-11-06T01:30:00")}
		got := collect(t, cfg, pipe.Forward, time.Time{}, time.Time{}, 3)
		assert.Equal(t, got, []string{"2021-11-06T01:30:00", "2021-11-07T01:30:00", "2021-11-08T01:30:00"})
	})

	t.Run("hourly across fall back", func(t *testing.T) {
		t.Parallel()
		cfg := pipe.Process(pipe.Config{Frequency: pipe.Hour, Start: at(t, ny, "2021-11-07T00:00:00")})
		c, err := pipe.New(cfg, pipe.Forward, time.Time{}, time.Time{})
		assert.IsNil(t, err)
		var prev time.Time
		for i := 0; i < 4; i++ {
			ts, err := c.Next()
			assert.IsNil(t, err)
			if i > 0 {
				assert.Equal(t, ts.Sub(prev), time.Hour)
			}
			prev = ts
		}
		assert.Equal(t, prev.Format(layout), "2021-11-07T02:00:00")
	})

	t.Run("gap in both directions", func(t *testing.T) {
		t.Parallel()
		lh := location(t, "Australia/Lord_Howe")
		start := at(t, lh, "2021-10-02T02:00:00")
		cfg := pipe.Process(pipe.Config{
			Frequency: pipe.Day,
			Start:     start,
			ByHour:    []int{2},
			ByMinute:  []int{0, 30},
		})
		tests := []struct {
			name  string
			dir   pipe.Direction
			upper time.Time
			want  []string
		}{
			{"forward", pipe.Forward, time.Time{},
				[]string{"2021-10-02T02:00:00", "2021-10-02T02:30:00"}},
			{"reverse", pipe.Reverse, at(t, lh, "2021-10-04T02:30:00"),
				[]string{"2021-10-04T02:30:00", "2021-10-04T02:00:00", "2021-10-03T02:30:00"}},
		}
		for _, tt := range tests {
			test := tt
			t.Run(test.name, func(t *testing.T) {
				t.Parallel()
				c, err := pipe.New(cfg, test.dir, start, test.upper)
				assert.IsNil(t, err)
				var got []string
				for range test.want {
					ts, err := c.Next()
					assert.IsNil(t, err)
					got = append(got, ts.In(lh).Format(layout))
				}
				assert.Equal(t, got, test.want)
				// 2021-10-03T02:00 falls in the gap
				_, err = c.Next()
				assert.ErrorIs(t, err, pipe.ErrUnrepresentableTime)
			})
		}
	})

	t.Run("half hour offset change", func(t *testing.T) {
		t.Parallel()
		lh := location(t, "Australia/Lord_Howe")
		cfg := pipe.Process(pipe.Config{Frequency: pipe.Hour, Start: at(t, lh, "2021-04-04T00:00:00")})
		c, err := pipe.New(cfg, pipe.Forward, time.Time{}, time.Time{})
		assert.IsNil(t, err)
		for i := 0; i < 2; i++ {
			_, err = c.Next()
			assert.IsNil(t, err)
		}
		_, err = c.Next()
		assert.ErrorIs(t, err, pipe.ErrUnrepresentableTime)
	})
}

func TestLast(t *testing.T) {
	t.Parallel()
	cfg := pipe.Process(pipe.Config{Frequency: pipe.Month, Start: at(t, time.UTC, "2021-01-31T00:00:00")})

	last, err := pipe.Last(cfg, 3)
	assert.IsNil(t, err)
	assert.Equal(t, last.Format(layout), "2021-05-31T00:00:00")

	never := pipe.Process(pipe.Config{Frequency: pipe.Year, Start: at(t, time.UTC, "2021-01-01T00:00:00"),
		ByMonth: []int{2}, ByMonthDay: []int{30}})
	_, err = pipe.Last(never, 1)
	assert.ErrorIs(t, err, pipe.ErrDone)
}

func TestProcess(t *testing.T) {
	t.Parallel()
	start := time.Date(2021, time.June, 15, 10, 20, 30, 500, time.UTC)

	yearly := pipe.Process(pipe.Config{Frequency: pipe.Year, Start: start})
	assert.Equal(t, yearly.ByMonth, []int{6})
	assert.Equal(t, yearly.ByMonthDay, []int{15})
	assert.Equal(t, yearly.ByHour, []int{10})
	assert.Equal(t, yearly.ByMinute, []int{20})
	assert.Equal(t, yearly.BySecond, []int{30})
	assert.Equal(t, yearly.Interval, 1)
	assert.Equal(t, yearly.Start.Nanosecond(), 0)

	weekly := pipe.Process(pipe.Config{Frequency: pipe.Week, Start: start, ByHour: []int{9, 8, 9}})
	assert.Equal(t, weekly.ByWeekday, []pipe.Weekday{{Day: time.Tuesday}})
	assert.Equal(t, weekly.ByHour, []int{8, 9})

	minutely := pipe.Process(pipe.Config{Frequency: pipe.Minute, Start: start})
	assert.Equal(t, minutely.BySecond, []int{30})
	assert.IsNil(t, minutely.ByMinute)
	assert.IsNil(t, minutely.ByMonthDay)
}
