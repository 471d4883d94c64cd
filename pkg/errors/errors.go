package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Pattern errors
	ErrParse         ErrorCode = "PARSE"
	ErrPatternConfig ErrorCode = "PATTERN_CONFIG"

	// Guard errors
	ErrNameResolution ErrorCode = "NAME_RESOLUTION"
	ErrGuardEval      ErrorCode = "GUARD_EVAL"

	// Dispatch errors
	ErrNoMatch        ErrorCode = "NO_MATCH"
	ErrInvalidHandler ErrorCode = "INVALID_HANDLER"
	ErrHandler        ErrorCode = "HANDLER"
)

// FpmError represents a structured error with code and details
type FpmError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *FpmError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *FpmError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *FpmError) Is(target error) bool {
	var targetErr *FpmError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new FpmError with the given code and message
func New(code ErrorCode, message string) *FpmError {
	return &FpmError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new FpmError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *FpmError {
	return &FpmError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an FpmError
func Wrap(err error, code ErrorCode, message string) *FpmError {
	if err == nil {
		return nil
	}
	return &FpmError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FpmError {
	if err == nil {
		return nil
	}
	return &FpmError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *FpmError) WithDetail(key string, value interface{}) *FpmError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *FpmError) WithDetails(details map[string]interface{}) *FpmError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code.
// Any error in the chain exposing a Code() method is inspected too, so
// positioned errors such as parser.ParseError answer to their code.
func IsErrorCode(err error, code ErrorCode) bool {
	return err != nil && GetErrorCode(err) == code
}

// coder is implemented by errors that carry a code without being an FpmError.
type coder interface {
	Code() ErrorCode
}

// GetErrorCode returns the error code from an error, or ErrUnknown if it carries none
func GetErrorCode(err error) ErrorCode {
	var fpmErr *FpmError
	if errors.As(err, &fpmErr) {
		return fpmErr.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an FpmError
func GetErrorDetails(err error) map[string]interface{} {
	var fpmErr *FpmError
	if errors.As(err, &fpmErr) {
		return fpmErr.Details
	}
	return nil
}
