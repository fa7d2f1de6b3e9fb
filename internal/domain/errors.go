package domain

import (
	"errors"
	"fmt"
)

// InvalidOperationError signals a domain invariant violation. No events are
// emitted when one is returned.
type InvalidOperationError struct {
	Message string
}

func (e InvalidOperationError) Error() string {
	return e.Message
}

// NewInvalidOperation builds an InvalidOperationError with a formatted message.
func NewInvalidOperation(format string, args ...any) InvalidOperationError {
	return InvalidOperationError{Message: fmt.Sprintf(format, args...)}
}

// IsInvalidOperation reports whether err is a domain invariant violation.
func IsInvalidOperation(err error) bool {
	var invalid InvalidOperationError
	return errors.As(err, &invalid)
}
