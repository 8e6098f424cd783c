package orchestrate

import (
	"fmt"
	"runtime/debug"
)

// ErrPanic is the error recorded when a job body panics.
type ErrPanic struct {
	Value any
	Stack []byte
}

func newErrPanic(value any) ErrPanic {
	return ErrPanic{Value: value, Stack: debug.Stack()}
}

func (err ErrPanic) Error() string {
	return fmt.Sprintf("panic: %v", err.Value)
}

// Unwrap returns the value passed to panic if it was an error, nil otherwise.
func (err ErrPanic) Unwrap() error {
	if e, ok := err.Value.(error); ok {
		return e
	}
	return nil
}
