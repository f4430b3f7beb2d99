// Package errors provides structured error types for umlconv.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP preview
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages with optional hints
//   - Stack traces on every coded error, printed with %+v
//
// Coded errors are built on github.com/cockroachdb/errors: [New] and [Wrap]
// attach the caller's stack, and the usual inspection helpers are
// re-exported so callers need only one errors import.
//
// # Error Codes
//
// Error codes follow a coarse naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - *_NOT_FOUND: Missing inputs
//   - *_FAILED: A pipeline stage failed
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "max types per page must be positive, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Show usage
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLoadFailed, origErr, "load %s", pattern)
package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidModel  Code = "INVALID_MODEL"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Stage failures
	ErrCodeLoadFailed   Code = "LOAD_FAILED"
	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeExportFailed Code = "EXPORT_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Re-exported helpers from github.com/cockroachdb/errors.
var (
	Newf        = crdb.Newf
	Wrapf       = crdb.Wrapf
	WithStack   = crdb.WithStack
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	GetAllHints = crdb.GetAllHints
	As          = crdb.As
	Unwrap      = crdb.Unwrap
	IsError     = crdb.Is
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a coded error with the given formatted message and the
// caller's stack.
func New(code Code, format string, args ...any) error {
	return crdb.WithStackDepth(&Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}, 1)
}

// Wrap creates a coded error wrapping cause. A nil cause behaves like New.
func Wrap(code Code, cause error, format string, args ...any) error {
	return crdb.WithStackDepth(&Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}, 1)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for the outermost *Error.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the chain holds no *Error.
func GetCode(err error) Code {
	var e *Error
	if crdb.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For coded errors, returns the message without the code prefix, followed
// by the cause's message when there is one.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if crdb.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
