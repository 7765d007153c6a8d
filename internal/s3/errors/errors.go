// Package errors provides string codes for error instantiation.

package errors

const (
	SessionError    = "failed to create S3 session"
	FileUploadError = "failed to upload report"
)
