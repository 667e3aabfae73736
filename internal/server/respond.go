package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/WillyGrv/Wedding-M-W/internal/shared"
)

const (
	codeInvalidRequest = "invalid_request"
	codeConflict       = "conflict"
	codeNotFound       = "not_found"
	codeStorage        = "storage_error"
	codeRateLimited    = "rate_limited"
	codeInternal       = "internal_error"
)

// errorBody is the JSON shape of every failed response.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// statusFor maps an error to its HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest, codeInvalidRequest
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict, codeConflict
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, shared.ErrRateLimited):
		return http.StatusTooManyRequests, codeRateLimited
	case errors.Is(err, shared.ErrStorage):
		return http.StatusInternalServerError, codeStorage
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// httpError writes err as an [errorBody]. Server-side failures carry a generic message only.
func httpError(w http.ResponseWriter, err error) int {
	status, code := statusFor(err)

	msg := err.Error()
	switch code {
	case codeStorage:
		msg = shared.ErrStorage.Error()
	case codeInternal:
		msg = "internal server error"
	}

	writeJSON(w, status, errorBody{Error: code, Message: msg})
	return status
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
