package errors

import (
	stderrors "errors"
	"fmt"
)

// ShapeMismatchError indicates that a sub-vector's width disagrees with the
// canonical feature layout. It is always fatal to the current request or
// training run; callers must never pad or truncate to recover.
type ShapeMismatchError struct {
	Field string
	Want  int
	Got   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch for %s: expected width %d, got %d", e.Field, e.Want, e.Got)
}

// ShapeMismatchf returns a ShapeMismatchError for the named field.
func ShapeMismatchf(field string, want, got int) error {
	return &ShapeMismatchError{Field: field, Want: want, Got: got}
}

// IsShapeMismatch reports whether err is (or wraps) a ShapeMismatchError.
func IsShapeMismatch(err error) bool {
	var sm *ShapeMismatchError
	return stderrors.As(err, &sm)
}

// PreconditionError indicates that an operation was invoked in a state it
// does not support, e.g. oversampling with fewer than two minority samples
// or predicting with an unfitted ensemble. Fatal to the current run.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: precondition failed: %s", e.Op, e.Reason)
}

// Preconditionf returns a PreconditionError for the given operation.
func Preconditionf(op, format string, args ...interface{}) error {
	return &PreconditionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsPrecondition reports whether err is (or wraps) a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return stderrors.As(err, &pe)
}

// InputError indicates a malformed or incomplete scoring request. It is
// reported to the caller and is never fatal to the service.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input for %s: %s", e.Field, e.Reason)
}

// Inputf returns an InputError for the given field.
func Inputf(field, format string, args ...interface{}) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsInput reports whether err is (or wraps) an InputError.
func IsInput(err error) bool {
	var ie *InputError
	return stderrors.As(err, &ie)
}
