package pipe

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrDone                = errors.New("no more occurrences")
	ErrUnrepresentableTime = errors.New("unrepresentable local time")
	ErrInvalidSkip         = errors.New("invalid skip target")
	ErrInvalidBounds       = errors.New("invalid bounds")
)

// unrepresentableError returns an unrepresentable time error with a custom
// error message, which unwraps to ErrUnrepresentableTime.
func unrepresentableError(message string) error {
	return fmt.Errorf("%w: %s", ErrUnrepresentableTime, message)
}

// invalidSkipError returns an invalid skip error with a custom error message,
// which unwraps to ErrInvalidSkip.
func invalidSkipError(message string) error {
	return fmt.Errorf("%w: %s", ErrInvalidSkip, message)
}
