// Package errors provides string codes for error instantiation.

package errors

import "fmt"

const (
	ValidationSubprocessError = "could not run validation shell command"
	ValidationTimeoutError    = "validation shell command timed out"
	ValidationCanceledError   = "validation shell command was canceled"
	ValidationDecodingError   = "validation output is not valid UTF-8"
	LockSubprocessError       = "could not run labextension lock shell command"
)

type (
	SpawnError struct {
		Err        error
		Executable string
	}
	TimeoutError struct {
		Err error
	}
	CanceledError struct {
		Err error
	}
	DecodingError struct {
		Path string
	}
)

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: %s", e.Executable, e.Err.Error())
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: validation timed out", e.Err.Error())
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

func (e *CanceledError) Error() string {
	return fmt.Sprintf("%s: validation canceled", e.Err.Error())
}

func (e *CanceledError) Unwrap() error {
	return e.Err
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("%s: output is not valid UTF-8", e.Path)
}
