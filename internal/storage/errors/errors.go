// Package errors provides typed errors of the validation history storage.

package errors

import (
	"fmt"
)

type (
	// StatementPSQLError wraps a failure to prepare a statement.
	StatementPSQLError struct {
		Err error
	}
	// AlreadyExistsError is returned when a validation run with the same request ID is stored.
	AlreadyExistsError struct {
		Err       error
		RequestID string
	}
	ExecutionPSQLError struct {
		Err error
	}
	ContextTimeoutExceededError struct {
		Err error
	}
	ScanningPSQLError struct {
		Err error
	}
	// InvalidStatusError is returned when a validation run carries an unknown status.
	InvalidStatusError struct {
		Status string
	}
	// DisabledError is returned by history operations when no database is configured.
	DisabledError struct{}
)

func (e *StatementPSQLError) Error() string {
	return fmt.Sprintf("could not prepare statement: %v", e.Err)
}

func (e *StatementPSQLError) Unwrap() error { return e.Err }

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("validation run %s is already recorded", e.RequestID)
}

func (e *AlreadyExistsError) Unwrap() error { return e.Err }

func (e *ExecutionPSQLError) Error() string {
	return fmt.Sprintf("could not execute statement: %v", e.Err)
}

func (e *ExecutionPSQLError) Unwrap() error { return e.Err }

func (e *ContextTimeoutExceededError) Error() string {
	return fmt.Sprintf("storage call abandoned: %v", e.Err)
}

func (e *ContextTimeoutExceededError) Unwrap() error { return e.Err }

func (e *ScanningPSQLError) Error() string {
	return fmt.Sprintf("could not scan validation runs: %v", e.Err)
}

func (e *ScanningPSQLError) Unwrap() error { return e.Err }

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("unknown validation run status %q", e.Status)
}

func (e *DisabledError) Error() string {
	return "storage is disabled: DATABASE_DSN is not set"
}
