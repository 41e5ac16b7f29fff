// Package prereq defines the guard raised when a learner tries to start an
// activity before finishing what it depends on.
package prereq

import (
	"errors"
	"strings"
)

// ErrNotMet matches any *Error via errors.Is.
var ErrNotMet = errors.New("prerequisites not met")

// Requirement names something that must be finished first.
type Requirement string

const (
	Lectures   Requirement = "lectures"
	Diagnostic Requirement = "diagnostic"
)

// Error lists the requirements that are still outstanding.
type Error struct {
	Missing []Requirement
	// Cause is set when a requirement could not be read and was counted as
	// missing.
	Cause error
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		parts[i] = string(m)
	}
	msg := "prerequisites not met: " + strings.Join(parts, ", ")
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is makes errors.Is(err, ErrNotMet) succeed.
func (e *Error) Is(target error) bool {
	return target == ErrNotMet
}

// Has reports whether r is among the missing requirements.
func (e *Error) Has(r Requirement) bool {
	for _, m := range e.Missing {
		if m == r {
			return true
		}
	}
	return false
}

// Check returns an *Error listing the unmet requirements, or nil.
func Check(lecturesDone, diagnosticDone bool) error {
	var missing []Requirement
	if !lecturesDone {
		missing = append(missing, Lectures)
	}
	if !diagnosticDone {
		missing = append(missing, Diagnostic)
	}
	if len(missing) == 0 {
		return nil
	}
	return &Error{Missing: missing}
}

// WithCause attaches cause to a guard error returned by Check. Any other
// err, including nil, is returned unchanged.
func WithCause(err, cause error) error {
	var pe *Error
	if cause != nil && errors.As(err, &pe) {
		pe.Cause = cause
	}
	return err
}

// Missing extracts the outstanding requirements from err, if it is a guard error.
func Missing(err error) []Requirement {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Missing
	}
	return nil
}
