package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for callers; the HTTP layer maps kinds to statuses
type ErrorKind string

const (
	KindInvalidRequest      ErrorKind = "invalid_request"      // missing or malformed fields
	KindNotFound            ErrorKind = "not_found"            // entity lookup miss
	KindInsufficientFunds   ErrorKind = "insufficient_funds"   // balance below the requested debit
	KindIncorrectCredential ErrorKind = "incorrect_credential" // owner or PIN mismatch
	KindInvalidOperation    ErrorKind = "invalid_operation"    // e.g. non-checking funding account
	KindUpstream            ErrorKind = "upstream_error"       // price oracle failure
	KindInternal            ErrorKind = "internal"             // storage or programming errors
)

// Error is the error type returned by ledger operations
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Sentinel errors for errors.Is checks; they match any Error of the same kind
var (
	ErrInvalidRequest      = &Error{Kind: KindInvalidRequest}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrInsufficientFunds   = &Error{Kind: KindInsufficientFunds}
	ErrIncorrectCredential = &Error{Kind: KindIncorrectCredential}
	ErrInvalidOperation    = &Error{Kind: KindInvalidOperation}
	ErrUpstream            = &Error{Kind: KindUpstream}
)

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

// Unwrap exposes the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind so that errors.Is(err, ErrNotFound) works regardless of message
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds an Error with a formatted message
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds an Error that keeps cause in the chain
func WrapError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// InvalidRequest is shorthand for NewError(KindInvalidRequest, ...)
func InvalidRequest(format string, args ...interface{}) *Error {
	return NewError(KindInvalidRequest, format, args...)
}

// NotFound is shorthand for NewError(KindNotFound, ...)
func NotFound(format string, args ...interface{}) *Error {
	return NewError(KindNotFound, format, args...)
}

// KindOf returns the kind of the first Error in err's chain, or KindInternal
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of the first Error in err's chain
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		return string(e.Kind)
	}
	return ""
}
