// Package errors provides structured error types for geometric transforms.
//
// Every failure a transform can produce falls into one of a small set of
// codes:
//   - UNSUPPORTED_KIND: no implementation is registered for the operation and
//     the runtime kind of the input (e.g. rotate on a segmentation mask)
//   - INVALID_FORMAT: a bounding box format outside the known enumeration
//   - SHAPE_MISMATCH: an array does not satisfy the rank or axis assumptions
//     of the operation (fewer than 3 axes for an image, trailing axis other
//     than 4 for a bounding box)
//   - INVALID_ARGUMENT: a malformed parameter (bad size list, unknown
//     interpolation mode, out of range legacy resample code)
//
// Computation is deterministic, so none of these are retryable.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeShapeMismatch, "image needs at least 3 axes, got %d", rank)
//	if errors.Is(err, errors.ErrCodeShapeMismatch) {
//	    // handle
//	}
//
// The exported sentinels also work with the standard library:
//
//	if stderrors.Is(err, errors.ErrUnsupportedKind) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure categories of the transforms.
const (
	ErrCodeUnsupportedKind Code = "UNSUPPORTED_KIND"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeShapeMismatch   Code = "SHAPE_MISMATCH"
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"
)

// Sentinels for use with the standard errors.Is.
var (
	ErrUnsupportedKind = &Error{Code: ErrCodeUnsupportedKind, Message: "unsupported kind"}
	ErrInvalidFormat   = &Error{Code: ErrCodeInvalidFormat, Message: "invalid bounding box format"}
	ErrShapeMismatch   = &Error{Code: ErrCodeShapeMismatch, Message: "shape mismatch"}
	ErrInvalidArgument = &Error{Code: ErrCodeInvalidArgument, Message: "invalid argument"}
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

// Is reports whether target is an *Error with the same code. This lets the
// package sentinels match any error of their category.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
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

// UnsupportedKind reports that op has no implementation for kind.
func UnsupportedKind(op, kind string) *Error {
	return New(ErrCodeUnsupportedKind, "%s is not supported for %s", op, kind)
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
