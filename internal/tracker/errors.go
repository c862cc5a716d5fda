package tracker

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by lookups and Update when no record matches.
	ErrNotFound = errors.New("application not found")
	// ErrInvalidInput is returned for malformed candidates and import payloads.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPersistence matches every *PersistenceError.
	ErrPersistence = errors.New("persistence failure")
	// ErrClosed is returned by a Service after Close.
	ErrClosed = errors.New("service closed")
)

// PersistenceError reports a failed read or write of the persisted aggregate.
// The backend error is kept intact and reachable through errors.Is/As.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
