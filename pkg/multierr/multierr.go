package multierr

import (
	"bytes"
	"errors"
	"fmt"
)

// Error collects multiple errors into one. The zero value is usable:
//
//	var e Error
//	e.Append(err)
//	return e.ErrOrNil()
type Error []error

func (e Error) Error() string {
	switch len(e) {
	case 0:
		return "<nil>"
	case 1:
		return e[0].Error()
	default:
		buf := new(bytes.Buffer)
		fmt.Fprintf(buf, "%d errors occurred:", len(e))
		for _, err := range e {
			fmt.Fprintf(buf, "\n\t* %v", err)
		}
		return buf.String()
	}
}

// Append adds err, ignoring nil.
func (e *Error) Append(err error) {
	switch {
	case e == nil:
	case err == nil:
	case *e == nil:
		*e = Error{err}
	default:
		*e = append(*e, err)
	}
}

// ErrOrNil converts to a plain error: nil when empty, the sole member when
// there is exactly one, the collection otherwise. Needed because a typed nil
// Error compares non-nil as an error value.
func (e Error) ErrOrNil() error {
	switch len(e) {
	case 0:
		return nil
	case 1:
		return e[0]
	default:
		return e
	}
}

// Unwrap implements the interface used by [errors.Unwrap].
func (e Error) Unwrap() error {
	switch len(e) {
	case 0:
		return nil
	case 1:
		return e[0]
	default:
		return e[1:]
	}
}

// As implements the interface used by [errors.As], matching the first member
// that satisfies the target.
func (e Error) As(target any) bool {
	for _, err := range e {
		if errors.As(err, target) {
			return true
		}
	}
	return false
}
