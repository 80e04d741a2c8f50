package types

import (
	"net/http"

	appErr "github.com/lofoneh/usersvc/pkg/errors"
)

// StatusFromError maps an error's code onto an HTTP status.
func StatusFromError(err error) int {
	switch appErr.CodeOf(err) {
	case appErr.CodeInvalid, appErr.CodeConflict:
		return http.StatusBadRequest
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeUnavailable:
		return http.StatusServiceUnavailable
	case appErr.CodeDeadline:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// FromAppError builds the client-facing body. Server-side failures get the
// status text only; the cause is logged instead.
func FromAppError(err error) ErrorResponse {
	status := StatusFromError(err)
	if status >= http.StatusInternalServerError {
		return ErrorResponse{Error: http.StatusText(status)}
	}
	if e, ok := appErr.As(err); ok {
		return ErrorResponse{Error: e.Message}
	}
	return ErrorResponse{Error: err.Error()}
}
