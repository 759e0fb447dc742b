package cron

import (
	"errors"
	"fmt"
)

// ErrCronParse is returned for malformed cron expressions.
var ErrCronParse = errors.New("parse cron expression")

// cronParseError returns a cron parse error with a custom error message,
// which unwraps to ErrCronParse.
func cronParseError(message string) error {
	return fmt.Errorf("%w: %s", ErrCronParse, message)
}
