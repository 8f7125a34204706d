package core

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidIdentifier   Code = "INVALID_IDENTIFIER"
	CodeInvalidAttribute    Code = "INVALID_ATTRIBUTE"
	CodeInvalidRequest      Code = "INVALID_REQUEST"
	CodeNotFound            Code = "NOT_FOUND"
	CodeConstraintViolation Code = "CONSTRAINT_VIOLATION"
	CodeStoreUnavailable    Code = "STORE_UNAVAILABLE"
	CodePartialExecution    Code = "PARTIAL_EXECUTION"
	CodeRejectedStatement   Code = "REJECTED_STATEMENT"
	CodeStoreError          Code = "STORE_ERROR"
)

// Sentinels for errors.Is matching. Any *Error with the same code matches.
var (
	ErrInvalidIdentifier   = &Error{Code: CodeInvalidIdentifier, Message: "invalid identifier"}
	ErrInvalidAttribute    = &Error{Code: CodeInvalidAttribute, Message: "invalid attribute"}
	ErrInvalidRequest      = &Error{Code: CodeInvalidRequest, Message: "invalid request"}
	ErrNotFound            = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConstraintViolation = &Error{Code: CodeConstraintViolation, Message: "constraint violation"}
	ErrStoreUnavailable    = &Error{Code: CodeStoreUnavailable, Message: "store unavailable"}
	ErrPartialExecution    = &Error{Code: CodePartialExecution, Message: "partial execution"}
	ErrRejectedStatement   = &Error{Code: CodeRejectedStatement, Message: "rejected statement"}
	ErrStoreError          = &Error{Code: CodeStoreError, Message: "store error"}
)

// Error is a structured engine error carrying a taxonomy code.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Errorf creates a new *Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new *Error with the given code that wraps err.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// CodeOf extracts the taxonomy code from err, or "" when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
