package todo

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a todo does not exist or is not owned by the
// caller. Ownership failures deliberately look identical to missing records
// so that ids cannot be probed for existence.
var ErrNotFound = errors.New("todo not found")

// ValidationError reports a single malformed or out-of-range input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func invalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
