package sloginit

import (
	"errors"
	"fmt"
)

// Error codes for composition and installation failures.
const (
	ErrCodeBadDirective     = "BAD_DIRECTIVE"
	ErrCodeBadFormat        = "BAD_FORMAT"
	ErrCodeInvalidOutputs   = "INVALID_OUTPUTS"
	ErrCodeSinkUnavailable  = "SINK_UNAVAILABLE"
	ErrCodeAlreadyInstalled = "ALREADY_INSTALLED"
)

// Error represents a logging setup error with a code.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether err is (or wraps) an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
