package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	alphanumeric = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	numeric      = regexp.MustCompile(`^[0-9]+$`)
)

// CheckState reports why s is not a usable state identifier, or nil.
// Identifiers are ASCII letters and digits only, must contain at least one
// of each and therefore can never be purely numeric.
func CheckState(s string) error {
	switch {
	case s == "":
		return ErrEmptyState
	case numeric.MatchString(s):
		return ErrNumericState
	case !alphanumeric.MatchString(s),
		!strings.ContainsFunc(s, unicode.IsLetter),
		!strings.ContainsFunc(s, unicode.IsDigit):
		return ErrInvalidState
	}
	return nil
}

// State validates a single identifier under the given field key.
func State(key, s string) error {
	if err := CheckState(s); err != nil {
		return &ValidationError{Key: key, Reason: err, Value: s}
	}
	return nil
}
