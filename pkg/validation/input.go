package validation

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize is 64KB, enough for any tape a human will type.
	DefaultMaxInputSize = 64 * 1024
	// EnvMaxInputSize is the environment variable to override the default.
	EnvMaxInputSize = "TURING_MAX_INPUT_SIZE"
)

// Input prepares a user supplied string for evaluation: it enforces the size
// limit, validates UTF-8, strips control characters and translates the blank
// placeholder.
func Input(input string) (string, error) {
	limit := maxInputSize()
	if len(input) > limit {
		// Reject rather than truncate: a truncated tape is a different input.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(Symbol(r))
	}
	return b.String(), nil
}

// FormatInput is the inverse of the placeholder translation for display.
func FormatInput(tape string) string {
	return strings.Map(FormatSymbol, tape)
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
