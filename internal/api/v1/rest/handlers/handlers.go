// Package handlers implements handling functions for HTTP endpoints.

// @title nbgrader validate REST API
// @desc Validation of student notebooks with `nbgrader validate`.
//
// @ver 1.0.0

package handlers

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"nbgrader-validate/internal/agent/agent"
	"nbgrader-validate/internal/api/v1/errors"
	"nbgrader-validate/internal/api/v1/modeldto"
	"nbgrader-validate/internal/api/v1/rest/middleware"
	"nbgrader-validate/internal/config"
	"nbgrader-validate/internal/validation"

	"github.com/rs/zerolog"
)

const (
	handlerKey   = "handler"
	requestIDKey = "request_id"

	outputPrefix = `{"output": `
)

var errTrailingData = stderrors.New("unexpected data after request body")

// EndpointHandlers defines URLHandler object structure.
type EndpointHandlers struct {
	log   *zerolog.Logger
	cfg   *config.Config
	agent *agent.Agent
}

// NewEndpointHandlers initializes EndpointHandlers object setting its attributes.
func NewEndpointHandlers(
	cfg *config.Config,
	logger *zerolog.Logger,
	agent *agent.Agent,
) *EndpointHandlers {
	logger.Debug().Msg("calling initializer of HTTP handling service")
	return &EndpointHandlers{cfg: cfg, log: logger, agent: agent}
}

// ValidateHandle handles requests to validate a notebook.
// @summary Validate notebook request
// @desc Run `nbgrader validate` on a notebook relative to the server root directory
// @id validateNotebook
// @accept json
// @produce json
// @param request body modeldto.RequestValidate true "Notebook to validate"
// @success 200 {object} modeldto.ResponseValidate
// @failure 400 {object} modeldto.ResponseError
// @failure 403 {string} Forbidden
// @failure 500 {string} Internal Server Error
// @failure 503 {string} Service Unavailable
// @failure 504 {string} Gateway Timeout
// @router /jupyterlab-nbgrader-validate/validate [post]
func (h *EndpointHandlers) ValidateHandle(w http.ResponseWriter, r *http.Request) {
	const handler = "validate"

	requestID := middleware.RequestID(r.Context())
	h.log.Info().Str(handlerKey, handler).Str(requestIDKey, requestID).Msg(fmt.Sprintf("HTTP: %s endpoint hit", handler))

	var request modeldto.RequestValidate
	if err := decodeBody(r.Body, &request); err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Str(requestIDKey, requestID).Msg(errors.UnmarshallingError)
		h.writeJSON(w, http.StatusBadRequest, modeldto.ResponseError{Status: errors.UnmarshallingError})
		return
	}
	if err := validation.Struct(request); err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Str(requestIDKey, requestID).Msg(errors.RequestValidationError)
		h.writeJSON(w, http.StatusBadRequest, modeldto.ResponseError{
			Status:  errors.RequestValidationError,
			Details: validation.Details(err),
		})
		return
	}

	data, err := h.agent.Validate(r.Context(), requestID, *request.Name, handler)
	if err != nil {
		httpStatus, errorCode := agent.HTTPStatus(err)
		http.Error(w, errorCode, httpStatus)
		return
	}

	h.writeOutput(w, modeldto.ResponseValidate{Output: data.Output})
	h.log.Info().Str(handlerKey, handler).Str(requestIDKey, requestID).Msg("response sent")
}

// decodeBody decodes exactly one JSON value from body into v. Anything but whitespace
// after that value is an error.
func decodeBody(body io.Reader, v interface{}) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		return errTrailingData
	}
	return nil
}

// writeJSON writes v as the JSON response body without HTML escaping.
func (h *EndpointHandlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	resBody, err := marshal(v)
	if err != nil {
		h.log.Error().Err(err).Msg(errors.MarshallingError)
		http.Error(w, errors.MarshallingError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(resBody)
}

// writeOutput writes the validate response as `{"output": "<output>"}`, with the key and
// value separated by ": " like Python's json.dumps.
func (h *EndpointHandlers) writeOutput(w http.ResponseWriter, response modeldto.ResponseValidate) {
	value, err := marshal(response.Output)
	if err != nil {
		h.log.Error().Err(err).Msg(errors.MarshallingError)
		http.Error(w, errors.MarshallingError, http.StatusInternalServerError)
		return
	}
	resBody := make([]byte, 0, len(value)+len(outputPrefix)+1)
	resBody = append(resBody, outputPrefix...)
	resBody = append(resBody, value...)
	resBody = append(resBody, '}')

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resBody)
}

// marshal encodes v without HTML escaping and without the encoder's trailing newline.
func marshal(v interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
