// Package errors provides structured error types for sankey.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND: Resource not found
//   - INTERNAL_ERROR, UNSUPPORTED: Unexpected or unavailable operations
//
// Layout failures from the core packages carry their own codes
// (CYCLIC_GRAPH, SELF_LOOP, DEGENERATE_CANVAS, ...). [Classify] maps the
// sentinel errors of package flow and package sankey onto them.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "unknown format: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Attach a code to a layout failure
//	_, err := sankey.Compute(g, w, h)
//	err = errors.Classify(err)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidReference Code = "INVALID_REFERENCE"
	ErrCodeSelfLoop         Code = "SELF_LOOP"
	ErrCodeDuplicateNode    Code = "DUPLICATE_NODE"
	ErrCodeInvalidValue     Code = "INVALID_VALUE"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle     Code = "INVALID_STYLE"
	ErrCodeInvalidVizType   Code = "INVALID_VIZ_TYPE"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	// Layout errors
	ErrCodeCyclicGraph      Code = "CYCLIC_GRAPH"
	ErrCodeDegenerateCanvas Code = "DEGENERATE_CANVAS"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Concurrency errors
	ErrCodeSuperseded Code = "SUPERSEDED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface. A cause whose text equals the
// message is not repeated.
func (e *Error) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
