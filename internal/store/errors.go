package store

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("event not found")

// ValidationError reports input rejected before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PersistenceError wraps a failure of the underlying database.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
