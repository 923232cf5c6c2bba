package synth

import "fmt"

// DSLUsageError reports malformed builder usage: a name used both for a leaf
// value and a nested block, or a declaration applied to the wrong entry point.
// This is a programmer error, surfaced immediately, never deferred to
// serialization.
type DSLUsageError struct {
	Op    string
	Cause error
}

func (e *DSLUsageError) Error() string {
	return fmt.Sprintf("invalid DSL usage in %s: %v", e.Op, e.Cause)
}

func (e *DSLUsageError) Unwrap() error {
	return e.Cause
}

func usageErr(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &DSLUsageError{Op: op, Cause: cause}
}
