package engine

import (
	"errors"
	"fmt"
)

// ErrUnauthorized means the acting role lacks the capability for the
// requested operation or transition.
var ErrUnauthorized = errors.New("role not authorized for this operation")

// ErrNotFound means the operation targeted a record id that does not exist.
var ErrNotFound = errors.New("record not found")

// ValidationError means a required field was missing or malformed on
// creation. It is decided before any store call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StoreError wraps a failure from the record store adapter. The engine never
// retries; retry policy belongs to the adapter.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
