// Package models provides data types and models used in package processor.

package models

import "time"

// ValidationData is the outcome of one `nbgrader validate` invocation.
type ValidationData struct {
	Path     string
	Output   string
	Stderr   string
	ExitCode int
	Status   string
	Duration time.Duration
}

// ValidationRun is a persisted record of a validation invocation.
type ValidationRun struct {
	RequestID    string
	NotebookPath string
	Status       string
	ExitCode     int
	Duration     time.Duration
	CreatedAt    time.Time
}
