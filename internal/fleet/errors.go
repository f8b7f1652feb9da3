package fleet

import "fmt"

// ValidationError reports a malformed or out-of-range input field.
// It is always recoverable by the caller correcting the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateTransitionError reports an operation attempted against an
// aggregate in an incompatible state.
type StateTransitionError struct {
	Op       string
	Current  string
	Requires string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("%s not allowed: requires %s, current state is %s", e.Op, e.Requires, e.Current)
}

// NotFoundError reports a lookup by id that yielded nothing.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func errValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
