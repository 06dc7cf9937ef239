package records

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError describes a record set that cannot be loaded.
type InvalidInputError struct {
	Index  int    // position of the offending record in the input
	Key    string // typesPackageName, empty when missing
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid input: record %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid input: record %d (%s): %s", e.Index, e.Key, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
