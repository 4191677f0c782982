package domain

import "fmt"

// ValidationError indicates a missing or empty required field. It is
// user-correctable and never retried automatically.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError indicates a referenced task id is absent, usually a sign of
// stale client state.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("task %s not found", e.ID) }

// InvalidColumnError indicates a move referenced a column id that does not
// exist on the board.
type InvalidColumnError struct {
	ID string
}

func (e *InvalidColumnError) Error() string { return fmt.Sprintf("invalid column %s", e.ID) }

// PersistenceError wraps a failure of the durable document store. It is fatal
// for the current operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
