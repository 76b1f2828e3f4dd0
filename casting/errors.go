package casting

import (
	"errors"

	"github.com/codemix/modeling/internal/value"
)

// ErrCast is matched by every cast failure through errors.Is.
var ErrCast = errors.New("casting: cast failed")

// UnknownTypeError is returned when no caster is registered for a type.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return "Cannot cast to unknown type: " + e.Type
}

func (e *UnknownTypeError) Is(target error) bool { return target == ErrCast }

// InvalidDateError is returned when a value cannot be read as a date.
type InvalidDateError struct {
	Value any
}

func (e *InvalidDateError) Error() string { return "Invalid date value." }

func (e *InvalidDateError) Is(target error) bool { return target == ErrCast }

// CastError is returned when a value cannot be coerced to Type.
type CastError struct {
	Type  string
	Value any
	Cause error
}

func (e *CastError) Error() string {
	return "Cannot cast " + quote(e.Value) + " to " + e.Type + "."
}

func (e *CastError) Unwrap() error { return e.Cause }

func (e *CastError) Is(target error) bool { return target == ErrCast }

// FieldError locates a cast failure on a named field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return "casting: field " + e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

func quote(v any) string {
	if s, ok := v.(string); ok {
		return `"` + s + `"`
	}
	return value.ToString(v)
}
