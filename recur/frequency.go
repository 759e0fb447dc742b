package recur

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/reugn/go-recur/internal/pipe"
)

// Frequency is the base unit a rule recurs by.
// The zero value is not a valid frequency.
type Frequency int

const (
	Secondly Frequency = iota + 1
	Minutely
	Hourly
	Daily
	Weekly
	Monthly
	Yearly
)

var frequencyNames = map[Frequency]string{
	Secondly: "SECONDLY",
	Minutely: "MINUTELY",
	Hourly:   "HOURLY",
	Daily:    "DAILY",
	Weekly:   "WEEKLY",
	Monthly:  "MONTHLY",
	Yearly:   "YEARLY",
}

func (f Frequency) String() string {
	if name, ok := frequencyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Frequency(%d)", int(f))
}

func (f Frequency) valid() bool {
	return f >= Secondly && f <= Yearly
}

func (f Frequency) unit() pipe.Unit {
	return pipe.Unit(f - Secondly)
}

// ParseFrequency returns the Frequency with the given RFC 5545 name,
// e.g. "WEEKLY". The name is case insensitive.
func ParseFrequency(name string) (Frequency, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for f, n := range frequencyNames {
		if n == upper {
			return f, nil
		}
	}
	return 0, invalidArgumentError(fmt.Sprintf("unknown frequency %q", name))
}

var weekdayCodes = [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// DayOfWeek is a BYDAY token. N selects the nth weekday of the month or the
// year, counting from the end when negative; zero selects every matching
// weekday.
type DayOfWeek struct {
	Weekday time.Weekday
	N       int
}

// Every returns a DayOfWeek selecting every weekday wd.
func Every(wd time.Weekday) DayOfWeek {
	return DayOfWeek{Weekday: wd}
}

// Nth returns a DayOfWeek selecting the nth weekday wd.
func Nth(wd time.Weekday, n int) DayOfWeek {
	return DayOfWeek{Weekday: wd, N: n}
}

// String returns the RFC 5545 representation, e.g. "-1FR".
func (d DayOfWeek) String() string {
	code := "??"
	if d.Weekday >= time.Sunday && d.Weekday <= time.Saturday {
		code = weekdayCodes[d.Weekday]
	}
	if d.N == 0 {
		return code
	}
	return strconv.Itoa(d.N) + code
}

// ParseDayOfWeek parses the RFC 5545 representation of a BYDAY token.
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return DayOfWeek{}, invalidArgumentError(fmt.Sprintf("invalid weekday %q", s))
	}
	wd, err := ParseWeekday(s[len(s)-2:])
	if err != nil {
		return DayOfWeek{}, err
	}
	n := 0
	if prefix := s[:len(s)-2]; prefix != "" {
		if n, err = strconv.Atoi(prefix); err != nil || n == 0 {
			return DayOfWeek{}, invalidArgumentError(fmt.Sprintf("invalid weekday ordinal %q", s))
		}
	}
	return DayOfWeek{Weekday: wd, N: n}, nil
}

// ParseWeekday parses a two letter RFC 5545 weekday code, e.g. "MO".
func ParseWeekday(code string) (time.Weekday, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for i, c := range weekdayCodes {
		if c == code {
			return time.Weekday(i), nil
		}
	}
	return 0, invalidArgumentError(fmt.Sprintf("invalid weekday %q", code))
}
