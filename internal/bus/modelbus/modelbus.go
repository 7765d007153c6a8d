// Package modelbus provides models for AMQP transfer objects.

package modelbus

type MsgValidate struct {
	RequestID string  `json:"request_id,omitempty"`
	Name      *string `json:"name" validate:"required"`
}

type Rsp struct {
	RequestID string `json:"request_id"`
	Path      string `json:"path"`
	Status    string `json:"status"`
	ExitCode  int    `json:"exit_code"`
	Output    string `json:"output"`
}
