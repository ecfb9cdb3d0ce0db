// Package reference produces sequential document references like
// "2024-003". The counter is the trailing run of digits, anything
// before it is an opaque prefix.
package reference

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// ErrFormat is returned when a reference has no trailing digit run.
var ErrFormat = errors.New("reference has no trailing counter")

// Increment bumps the trailing counter by one, zero-padded to the
// width of the original suffix. "2024-003" becomes "2024-004",
// "INV-099" becomes "INV-100".
func Increment(previous string) (string, error) {
	suffix := trailingDigits.FindString(previous)
	if suffix == "" {
		return "", fmt.Errorf("%q: %w", previous, ErrFormat)
	}
	count, err := strconv.Atoi(suffix)
	if err != nil {
		return "", fmt.Errorf("%q: %w", previous, ErrFormat)
	}
	next := fmt.Sprintf("%0*d", len(suffix), count+1)
	return previous[:len(previous)-len(suffix)] + next, nil
}

// Next returns the increment of the latest reference, or the first
// reference of the given year when there is no prior document.
func Next(latest string, year int) (string, error) {
	if latest == "" {
		return fmt.Sprintf("%d-001", year), nil
	}
	return Increment(latest)
}
