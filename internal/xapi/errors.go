package xapi

import "fmt"

// ErrInvalidStatement indicates a payload that is not a usable xAPI event.
type ErrInvalidStatement struct {
	Err error
}

func (e *ErrInvalidStatement) Error() string {
	return fmt.Sprintf("invalid xAPI statement: %v", e.Err)
}

func (e *ErrInvalidStatement) Unwrap() error { return e.Err }
