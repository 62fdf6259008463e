package roster

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned when an operation runs before Connect or after Close.
	ErrNotConnected = errors.New("not connected to a database")

	// ErrNoSelection is returned by Delete when no student ids are given.
	ErrNoSelection = errors.New("select at least one student to delete")

	// ErrInvalidTable is returned when the table name is blank.
	ErrInvalidTable = errors.New("table name is required")

	// ErrEmptyID is returned by Insert when the student id is blank.
	ErrEmptyID = errors.New("student id (MSSV) is required")
)

// QueryError wraps a failed statement with the operation and table it ran against.
type QueryError struct {
	Op    string
	Table string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Table, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
