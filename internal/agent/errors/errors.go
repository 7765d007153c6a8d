// Package errors provides string codes for error instantiation.

package errors

import "fmt"

const (
	PathResolutionError     = "could not resolve notebook path"
	PathOutsideRootError    = "notebook path is outside of the root directory"
	ValidationRunError      = "could not run validation"
	ValidationTimeoutError  = "validation timed out"
	ValidationCanceledError = "validation was canceled"
	ThrottledError          = "too many validations in progress"
	HistoryRecordingError   = "could not record validation run"
	SideChannelError        = "could not archive or publish validation result"
	InternalError           = "internal server error"
)

// ThrottledRequestError is returned when no concurrency slot could be acquired.
type ThrottledRequestError struct {
	Err error
}

func (e *ThrottledRequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), ThrottledError)
}

func (e *ThrottledRequestError) Unwrap() error {
	return e.Err
}
