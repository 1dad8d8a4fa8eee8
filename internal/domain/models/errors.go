package models

import (
	"errors"
	"fmt"
)

// Kind classifies request failures. The value is exposed as error.kind on the wire.
type Kind string

const (
	KindInvalidSymbol    Kind = "InvalidSymbol"
	KindInvalidDateRange Kind = "InvalidDateRange"
	KindInvalidRequest   Kind = "InvalidRequest"
	KindSymbolNotFound   Kind = "SymbolNotFound"
	KindUnknownMarket    Kind = "UnknownMarket"
	KindUpstreamTimeout  Kind = "UpstreamTimeout"
	KindUpstreamError    Kind = "UpstreamError"
	KindInternal         Kind = "InternalError"
)

// Error is a classified domain error.
type Error struct {
	Kind    Kind
	Message string
	// Status is the upstream HTTP status for UpstreamError, 0 otherwise.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// NewError creates a classified error.
func NewError(kind Kind, format string, a ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

// WithError attaches a cause.
func (e *Error) WithError(err error) *Error {
	e.Err = err
	return e
}

// InvalidSymbol creates an InvalidSymbol error.
func InvalidSymbol(format string, a ...any) *Error {
	return NewError(KindInvalidSymbol, format, a...)
}

// InvalidDateRange creates an InvalidDateRange error.
func InvalidDateRange(format string, a ...any) *Error {
	return NewError(KindInvalidDateRange, format, a...)
}

// InvalidRequest creates an InvalidRequest error.
func InvalidRequest(format string, a ...any) *Error {
	return NewError(KindInvalidRequest, format, a...)
}

// SymbolNotFound creates a SymbolNotFound error.
func SymbolNotFound(symbol string) *Error {
	return NewError(KindSymbolNotFound, "symbol %s not found", symbol)
}

// UnknownMarket creates an UnknownMarket error.
func UnknownMarket(market string) *Error {
	return NewError(KindUnknownMarket, "unknown market %q", market)
}

// UpstreamTimeout creates an UpstreamTimeout error.
func UpstreamTimeout(err error) *Error {
	return NewError(KindUpstreamTimeout, "upstream request timed out").WithError(err)
}

// UpstreamError creates an UpstreamError carrying the upstream status and message.
func UpstreamError(status int, message string) *Error {
	e := NewError(KindUpstreamError, "%s", message)
	e.Status = status
	return e
}

// Internal creates an InternalError. The message returned to callers is generic;
// cause carries the detail for server-side logs.
func Internal(cause error) *Error {
	return NewError(KindInternal, "internal error").WithError(cause)
}

// KindOf classifies err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// AsError returns err as *Error, wrapping unclassified errors as internal.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
