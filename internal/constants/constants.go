// Package constants provides constants.

package constants

const (
	ServiceSegment = "jupyterlab-nbgrader-validate"
	ActionSegment  = "validate"
	DocSegment     = "doc"

	RunStatusCompleted   = "completed"
	RunStatusTimeout     = "timeout"
	RunStatusCanceled    = "canceled"
	RunStatusSpawnError  = "spawn_error"
	RunStatusDecodeError = "decode_error"

	RequestIDHeader = "X-Request-Id"
)

// ValidRunStatuses lists the statuses a validation run may be recorded with.
var ValidRunStatuses = []string{
	RunStatusCompleted,
	RunStatusTimeout,
	RunStatusCanceled,
	RunStatusSpawnError,
	RunStatusDecodeError,
}
