package ical

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned for iCalendar rule parts that recur rules
// do not implement: BYSETPOS, BYYEARDAY, BYWEEKNO and BYEASTER.
var ErrUnsupported = errors.New("unsupported")

func unsupportedError(part string) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, part)
}
