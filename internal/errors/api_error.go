package errors

import (
	stderrors "errors"
	"net/http"
)

type APIError struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Envelope is the JSON body the Task API wraps errors in.
type Envelope struct {
	Error *APIError `json:"error"`
	// Message is the flat form some backends answer with instead.
	Message string `json:"message,omitempty"`
}

func New(status int, code, message string) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func Internal(message string) *APIError {
	if message == "" {
		message = "internal server error"
	}
	return New(http.StatusInternalServerError, "internal_error", message)
}

func BadRequest(code, message string) *APIError {
	return New(http.StatusBadRequest, code, message)
}

func Unauthorized(message string) *APIError {
	if message == "" {
		message = "unauthorized"
	}
	return New(http.StatusUnauthorized, "unauthorized", message)
}

func Forbidden(message string) *APIError {
	if message == "" {
		message = "forbidden"
	}
	return New(http.StatusForbidden, "forbidden", message)
}

func NotFound(code, message string) *APIError {
	return New(http.StatusNotFound, code, message)
}

func Conflict(code, message string, details interface{}) *APIError {
	err := New(http.StatusConflict, code, message)
	err.Details = details
	return err
}

// FromResponse builds the error for a non-2xx response whose body decoded
// into envelope (which may be empty).
func FromResponse(status int, envelope Envelope) *APIError {
	if envelope.Error != nil {
		apiErr := *envelope.Error
		apiErr.Status = status
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return &apiErr
	}
	message := envelope.Message
	if message == "" {
		message = http.StatusText(status)
	}
	return New(status, codeForStatus(status), message)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusBadRequest:
		return "bad_request"
	default:
		return "http_error"
	}
}

// StatusOf returns the HTTP status carried by err, or 0 if err is not an
// *APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether err means the credentials were rejected
// (401 or 403).
func IsUnauthorized(err error) bool {
	status := StatusOf(err)
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}
