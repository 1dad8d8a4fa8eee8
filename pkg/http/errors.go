package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// KindInternal is the error kind used for unclassified failures.
const KindInternal = "InternalError"

// AppError represents application-level error with HTTP status.
type AppError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(kind, message string, status int) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Status:  status,
	}
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error *AppError `json:"error"`
}

// InternalError creates a 500 error with the generic message.
func InternalError() *AppError {
	return NewAppError(KindInternal, "internal error", http.StatusInternalServerError)
}

// AsAppError converts any error raised inside a handler chain. Echo routing errors
// keep their status; everything else is an internal error.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := strings.ToLower(http.StatusText(he.Code))
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return NewAppError(kindForStatus(he.Code), msg, he.Code).WithError(err)
	}
	return InternalError().WithError(err)
}

func kindForStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return "NotFound"
	case status == http.StatusMethodNotAllowed:
		return "MethodNotAllowed"
	case status >= 400 && status < 500:
		return "InvalidRequest"
	default:
		return KindInternal
	}
}
