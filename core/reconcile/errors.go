package reconcile

import (
	"errors"
	"fmt"
)

// ConnectionError reports a source that could not be reached at startup.
type ConnectionError struct {
	Source Source
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.Source, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError reports a failed read. It is fatal for the current table only.
type QueryError struct {
	Job    string
	Table  string
	Source Source
	// Code is the driver error code (SQLSTATE or MySQL error number) when known.
	Code string
	Err  error
}

func (e *QueryError) Error() string {
	msg := fmt.Sprintf("query on %s failed", e.Source)
	if e.Table != "" {
		msg = fmt.Sprintf("%s (job=%s table=%s)", msg, e.Job, e.Table)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// DataShapeError reports rows that cannot be matched by key.
// Callers recover by diffing positionally.
type DataShapeError struct {
	Job    string
	Table  string
	Reason string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("unexpected data shape (job=%s table=%s): %s", e.Job, e.Table, e.Reason)
}

// PaginationError reports a cursor whose boundary stopped decreasing.
type PaginationError struct {
	Job      string
	Table    string
	Boundary WindowBound
	Next     WindowBound
}

func (e *PaginationError) Error() string {
	return fmt.Sprintf("pagination did not advance (job=%s table=%s): %s -> %s", e.Job, e.Table, e.Boundary, e.Next)
}

// Annotate stamps job and table onto any taxonomy error inside err.
// Errors outside the taxonomy are wrapped as a QueryError.
func Annotate(err error, job, table string) error {
	if err == nil {
		return nil
	}

	var qe *QueryError
	if errors.As(err, &qe) {
		qe.Job, qe.Table = job, table
		return err
	}
	var de *DataShapeError
	if errors.As(err, &de) {
		de.Job, de.Table = job, table
		return err
	}
	var pe *PaginationError
	if errors.As(err, &pe) {
		pe.Job, pe.Table = job, table
		return err
	}
	var ce *ConnectionError
	if errors.As(err, &ce) {
		return err
	}
	return &QueryError{Job: job, Table: table, Err: err}
}
