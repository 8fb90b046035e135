package validation

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState  = errors.New("state must contain only letters and digits, with at least one of each")
	ErrNumericState  = errors.New("state must not be only digits")
	ErrEmptyState    = errors.New("state must not be empty")
	ErrInvalidRule   = errors.New("rule must look like a:b,M where a and b are symbols and M is L, R or S")
	ErrInvalidCount  = errors.New("count must be a positive integer")
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // Field name
	Reason error  // Sentinel describing the failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %q)", e.Key, e.Reason, fmt.Sprint(e.Value))
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Errors returns all validation errors if err is an AggregateError.
// A single *ValidationError is returned as a one element slice.
func Errors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	var single *ValidationError
	if errors.As(err, &single) {
		return []error{single}
	}
	return nil
}
