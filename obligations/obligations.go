// Package obligations provides assertion helpers that distinguish
// precondition, postcondition and invariant failures.
//
// A failed obligation means a caller broke a contract or the compiler has a
// bug. The errors are returned (or panicked by the Must variants) so they can
// be reported, but they are not meant to be retried.
package obligations

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors through errors.Is.
var (
	ErrPrecondition  = errors.New("precondition failed")
	ErrPostcondition = errors.New("postcondition failed")
	ErrInvariant     = errors.New("invariant failed")
)

// PreconditionError reports a violated caller contract.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	if e.Message == "" {
		return "Precondition failed"
	}
	return e.Message
}

// Is lets errors.Is(err, ErrPrecondition) match.
func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }

// PostconditionError reports a result that does not satisfy its contract.
type PostconditionError struct {
	Message string
}

func (e *PostconditionError) Error() string {
	if e.Message == "" {
		return "Postcondition failed"
	}
	return e.Message
}

func (e *PostconditionError) Is(target error) bool { return target == ErrPostcondition }

// InvariantError reports broken internal state.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	if e.Message == "" {
		return "Invariant failed"
	}
	return e.Message
}

func (e *InvariantError) Is(target error) bool { return target == ErrInvariant }

// Precondition returns a *PreconditionError carrying msg when ok is false.
func Precondition(ok bool, msg string) error {
	if ok {
		return nil
	}
	return &PreconditionError{Message: msg}
}

// Preconditionf is Precondition with a formatted message.
func Preconditionf(ok bool, format string, args ...any) error {
	if ok {
		return nil
	}
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// Postcondition returns a *PostconditionError carrying msg when ok is false.
func Postcondition(ok bool, msg string) error {
	if ok {
		return nil
	}
	return &PostconditionError{Message: msg}
}

// Invariant returns an *InvariantError carrying msg when ok is false.
func Invariant(ok bool, msg string) error {
	if ok {
		return nil
	}
	return &InvariantError{Message: msg}
}

// MustPrecondition panics with a *PreconditionError when ok is false.
func MustPrecondition(ok bool, msg string) {
	if err := Precondition(ok, msg); err != nil {
		panic(err)
	}
}

// MustPostcondition panics with a *PostconditionError when ok is false.
func MustPostcondition(ok bool, msg string) {
	if err := Postcondition(ok, msg); err != nil {
		panic(err)
	}
}

// MustInvariant panics with an *InvariantError when ok is false.
func MustInvariant(ok bool, msg string) {
	if err := Invariant(ok, msg); err != nil {
		panic(err)
	}
}

// IsContractViolation reports whether err is any of the three obligation kinds.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrPrecondition) || errors.Is(err, ErrPostcondition) || errors.Is(err, ErrInvariant)
}
