// Package errors provides string codes for error instantiation.

package errors

const (
	ValidationRunError     = "could not run validation"
	ExtensionLockError     = "could not lock competing labextension"
	HistoryReadingError    = "could not read validation history from DB"
	TokenCreationError     = "could not create an access token"
	MessagePublishingError = "could not publish a validation request"
	StorageDisabledError   = "DATABASE_DSN is not set"
)
