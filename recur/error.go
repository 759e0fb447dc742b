package recur

import (
	"errors"
	"fmt"

	"github.com/reugn/go-recur/internal/pipe"
)

// Errors
var (
	ErrInvalidRule     = errors.New("invalid rule")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDurationCap     = errors.New("duration cap exceeded")

	// ErrDone is returned by an Iterator when there are no more occurrences.
	ErrDone = pipe.ErrDone
	// ErrUnrepresentableTime is returned when an occurrence falls on a wall
	// clock reading that does not exist in its location.
	ErrUnrepresentableTime = pipe.ErrUnrepresentableTime
	// ErrInvalidSkip is returned when a SkipTo target does not lie strictly
	// past the last returned occurrence.
	ErrInvalidSkip = pipe.ErrInvalidSkip
)

// invalidRuleError returns an invalid rule error with a custom error message,
// which unwraps to ErrInvalidRule.
func invalidRuleError(message string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRule, message)
}

// invalidArgumentError returns an invalid argument error with a custom error
// message, which unwraps to ErrInvalidArgument.
func invalidArgumentError(message string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, message)
}

// durationCapError returns a duration cap error with a custom error message,
// which unwraps to ErrDurationCap.
func durationCapError(message string) error {
	return fmt.Errorf("%w: %s", ErrDurationCap, message)
}
