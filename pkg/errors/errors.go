// Package errors provides structured error types for pagestack.
//
// Every failure that reaches the user carries a machine-readable [Code] so the
// CLI and the interactive session can decide how to surface it:
//
//   - INVALID_*: user input rejected before any work starts
//   - IMAGE_*, UNSUPPORTED_FORMAT, FILE_NOT_FOUND: a single image could not be used
//   - EMPTY_INPUT, EXPORT_*: document export failures
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyInput, "no images selected")
//	if errors.Is(err, errors.ErrCodeEmptyInput) {
//	    // show the dialog
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeImageDecode, origErr, "decode %s", path)
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
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidPath        Code = "INVALID_PATH"
	ErrCodeInvalidOrientation Code = "INVALID_ORIENTATION"
	ErrCodeInvalidPaper       Code = "INVALID_PAPER"
	ErrCodeInvalidSelection   Code = "INVALID_SELECTION"

	// Image errors
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	ErrCodeImageDecode       Code = "IMAGE_DECODE"

	// Export errors
	ErrCodeEmptyInput  Code = "EMPTY_INPUT"
	ErrCodeExportEmpty Code = "EXPORT_EMPTY"
	ErrCodeExportWrite Code = "EXPORT_WRITE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
// Only the outermost *Error in the chain is considered.
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
// For *Error types the code prefix is dropped and the cause, if any, is
// appended after a colon. Other errors are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsPerImage reports whether err concerns a single source image and therefore
// should not abort a multi-image operation.
func IsPerImage(err error) bool {
	switch GetCode(err) {
	case ErrCodeFileNotFound, ErrCodeUnsupportedFormat, ErrCodeImageDecode:
		return true
	}
	return false
}
