package wiremap

import (
	"errors"
	"fmt"
)

// ErrSchema marks configuration errors: a malformed mapper or registry.
// These indicate broken schema data, not bad input, and are never retried.
var ErrSchema = errors.New("invalid mapper configuration")

func schemaErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchema, fmt.Sprintf(format, args...))
}

// AbsenceError reports a violated required/nullable contract.
type AbsenceError struct {
	ObjectName string
	Reason     string
}

func (e *AbsenceError) Error() string {
	return fmt.Sprintf("%s %s", e.ObjectName, e.Reason)
}

// ConstraintError reports the first violated constraint for a value, naming
// the constraint and its configured bound.
type ConstraintError struct {
	ObjectName string
	Value      any
	Constraint string
	Bound      any
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%q with value %v fails the constraint %q: %v",
		e.ObjectName, e.Value, e.Constraint, e.Bound)
}

// TypeError reports a value whose host shape does not match its mapper.
type TypeError struct {
	ObjectName string
	Value      any
	Expected   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s with value %v must be %s", e.ObjectName, e.Value, e.Expected)
}

// EnumError reports a value outside an enum's allowed set.
type EnumError struct {
	ObjectName string
	Value      any
	Allowed    []any
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("%v is not a valid value for %s, the valid values are %v",
		e.Value, e.ObjectName, e.Allowed)
}

// DiscriminatorError reports a missing discriminator field on a value whose
// mapper requires one.
type DiscriminatorError struct {
	ObjectName string
	Field      string
}

func (e *DiscriminatorError) Error() string {
	return fmt.Sprintf("missing discriminator field %q on %s", e.Field, e.ObjectName)
}
