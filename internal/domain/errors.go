package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")

	// Unit-of-work state errors.
	ErrNoTransaction     = errors.New("no active transaction")
	ErrTransactionActive = errors.New("transaction already active")
	ErrSessionClosed     = errors.New("session closed")
)

// PersistenceError wraps a failure raised by the storage layer during a
// flush or commit. The surrounding transaction has already been rolled back
// by the time the error reaches the caller.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
