// Package modeldto provides models for data transfer objects.

package modeldto

type (
	// RequestValidate carries the notebook path relative to the server root directory.
	// Name is a pointer so that a missing field is told apart from an empty string.
	RequestValidate struct {
		Name *string `json:"name" validate:"required" example:"ps1/problem1.ipynb"`
	}

	ResponseValidate struct {
		Output string `json:"output" example:"Success! Your notebook passes all the tests."`
	}

	ResponseError struct {
		Status  string            `json:"status" example:"request body failed validation"`
		Details map[string]string `json:"details,omitempty"`
	}
)
