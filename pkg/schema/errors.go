package schema

import "fmt"

type (
	// MissingRequiredFieldError is returned when a required attribute is absent
	// from the input. Required fields are never defaulted.
	MissingRequiredFieldError struct {
		Kind  string
		Field string
	}

	// ConstraintViolationError is returned when a present attribute fails its
	// field-level checks. Reason is a human-readable description of the
	// violated constraint.
	ConstraintViolationError struct {
		Kind   string
		Field  string
		Reason string
	}

	// InvariantViolationError is returned when individually-valid attributes
	// conflict with each other. Only raised after every field-level check has
	// passed.
	InvariantViolationError struct {
		Kind      string
		Invariant string
		Message   string
	}
)

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Kind, e.Field)
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("%s: invalid value for %q: %s", e.Kind, e.Field, e.Reason)
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
