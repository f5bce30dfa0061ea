package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/sankey/pkg/errors"
)

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// statusFor maps an error to an HTTP status. Graphs that are well formed
// but cannot be laid out get 422; other input errors get 400.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}

	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}

	code := errors.GetCode(err)
	switch code {
	case errors.ErrCodeCyclicGraph, errors.ErrCodeDegenerateCanvas:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSuperseded:
		return http.StatusConflict
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	if errors.IsInputError(code) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError writes err as JSON. Internal errors are reported without
// their details, which only go to the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{
		Code:      errors.GetCode(err),
		Message:   errors.UserMessage(err),
		RequestID: RequestID(r.Context()),
	}
	if resp.Code == "" {
		resp.Code = errors.ErrCodeInternal
	}
	switch status {
	case http.StatusInternalServerError:
		resp.Message = "internal error"
	case http.StatusGatewayTimeout:
		resp.Message = "request timed out"
	case http.StatusRequestEntityTooLarge:
		resp.Code = errors.ErrCodeInvalidInput
		resp.Message = "request body too large"
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errNotFound(r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

func writeMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
		Code:      errors.ErrCodeInvalidInput,
		Message:   "method " + r.Method + " not allowed on " + r.URL.Path,
		RequestID: RequestID(r.Context()),
	})
}
