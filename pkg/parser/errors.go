package parser

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when the input holds no non-blank line.
var ErrEmptyInput = errors.New("empty input")

// errNonFinite marks NaN and infinite field values.
var errNonFinite = errors.New("value is not finite")

// MalformedRowError is returned when a line does not have the header's field
// count, or when the header itself cannot describe a dataset.
type MalformedRowError struct {
	Line     int
	Fields   int
	Expected int
	Reason   string
}

func (e *MalformedRowError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d: expected %d field(s), got %d", e.Line, e.Expected, e.Fields)
}

// InvalidValueError is returned when a field cannot be parsed as a number.
type InvalidValueError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("line %d, column %q: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}
