package zapapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrBackendUnavailable wraps transport failures reaching the backend.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrCircuitOpen is returned without a network call while the circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrUnexpectedContent is returned when a resolve response has an unknown shape.
	ErrUnexpectedContent = errors.New("unexpected content in backend response")
)

// Machine-readable error codes the backend may send alongside its message.
const (
	CodePasswordRequired  = "PASSWORD_REQUIRED"
	CodeIncorrectPassword = "INCORRECT_PASSWORD"
	CodeExpired           = "EXPIRED"
	CodeViewLimitExceeded = "VIEW_LIMIT_EXCEEDED"
	CodeNotFound          = "NOT_FOUND"
)

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Status returns the HTTP status code.
func (e *APIError) Status() int { return e.StatusCode }

// BackendMessage returns the human-readable message sent by the backend, if any.
func (e *APIError) BackendMessage() string { return e.Message }

// ErrorCode returns the machine-readable code sent by the backend, if any.
func (e *APIError) ErrorCode() string { return e.Code }

// errorBody is the backend's error payload. Older deployments send "error" instead of "message".
type errorBody struct {
	Message   string `json:"message"`
	Error     string `json:"error"`
	ErrorCode string `json:"errorCode"`
}
