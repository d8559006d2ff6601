// Package exterr defines the coded error type shared by the clinekit
// utilities.
//
// Every error carries a machine-readable Code so callers can branch with
// errors.Is against a sentinel built from the same code:
//
//	if errors.Is(err, exterr.New(exterr.CodeRetryFailed, "", nil)) { ... }
package exterr

import (
	"errors"
	"fmt"
)

// Error codes.
const (
	CodeMissingEnvVar    = "MISSING_ENV_VAR"
	CodeInvalidPath      = "INVALID_PATH"
	CodeInvalidConfig    = "INVALID_CONFIG"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeRetryFailed      = "RETRY_FAILED"
	CodeUnknownTool      = "UNKNOWN_TOOL"
	CodeUnknown          = "UNKNOWN"
)

// Error is a coded error with optional structured detail.
type Error struct {
	Message string
	Code    string
	// Details holds the underlying cause or any structured context.
	Details any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns Details when it is an error.
func (e *Error) Unwrap() error {
	if err, ok := e.Details.(error); ok {
		return err
	}
	return nil
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// New creates an Error.
func New(code, message string, details any) *Error {
	return &Error{Message: message, Code: code, Details: details}
}

// Newf creates an Error with a formatted message and no details.
func Newf(code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap creates an Error from err, reusing its message.
// Returns nil for a nil err.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// Safe passes an existing *Error through untouched and wraps anything else
// with code. Returns nil for a nil err.
func Safe(err error, code string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Wrap(code, err)
}

// Code extracts the code from err, or "" if err is not an *Error.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err carries code anywhere in its chain.
func HasCode(err error, code string) bool {
	return errors.Is(err, &Error{Code: code})
}
