package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrDataFormat marks malformed or incomplete input structure.
	ErrDataFormat = errors.New("data format error")
	// ErrMissingHour marks a reference to an hour slot the dataset does not hold.
	ErrMissingHour = errors.New("missing hour")
	// ErrInvalidParameter marks a caller-supplied parameter outside its valid range.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// FormatError describes where the input structure is malformed. Err, when
// set, is the underlying cause reported by the source.
type FormatError struct {
	Hour   int
	Table  string
	Detail string
	Err    error
}

func (e *FormatError) Error() string {
	switch {
	case e.Table != "":
		return fmt.Sprintf("%v: hour_%d/%s: %s", ErrDataFormat, e.Hour, e.Table, e.Detail)
	case e.Hour != 0:
		return fmt.Sprintf("%v: hour_%d: %s", ErrDataFormat, e.Hour, e.Detail)
	}
	return fmt.Sprintf("%v: %s", ErrDataFormat, e.Detail)
}

func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDataFormat}
	}
	return []error{ErrDataFormat, e.Err}
}

// ParamError describes a rejected parameter value. Raw holds the input as
// received when it could not be parsed into Value.
type ParamError struct {
	Name   string
	Value  int
	Raw    string
	Reason string
}

func (e *ParamError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("%v: %s=%q: %s", ErrInvalidParameter, e.Name, e.Raw, e.Reason)
	}
	return fmt.Sprintf("%v: %s=%d: %s", ErrInvalidParameter, e.Name, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}
