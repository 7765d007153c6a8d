// Package errors provides string codes for error instantiation.

package errors

const (
	AuthenticationError     = "authentication required"
	RequestBodyReadingError = "failed to read request body"
	UnmarshallingError      = "failed to unmarshall request body"
	RequestValidationError  = "request body failed validation"
	MarshallingError        = "failed to marshall response body"
)
