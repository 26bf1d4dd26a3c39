/*
Package listkit – error types.
*/
package listkit

import "fmt"

// ErrorCode is a well-known error category string.
type ErrorCode string

const (
	ErrArgument            ErrorCode = "ArgumentError"
	ErrValidation          ErrorCode = "ValidationError"
	ErrUnknownFieldType    ErrorCode = "UnknownFieldTypeError"
	ErrListNotRegistered   ErrorCode = "ListNotRegisteredError"
	ErrUnknownFilterPath   ErrorCode = "UnknownFilterPathError"
	ErrUnresolvedReference ErrorCode = "UnresolvedReferenceError"
	ErrUniqueExhausted     ErrorCode = "UniqueValueExhaustedError"
	ErrBackend             ErrorCode = "BackendError"
	ErrCancelled           ErrorCode = "CancelledError"
)

// ListKitError is the general runtime error. It carries an optional Code and
// a free-form Context map for extra debugging data.
type ListKitError struct {
	Message string
	Code    ErrorCode
	Context map[string]any
	Cause   error
}

func (e *ListKitError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *ListKitError) Unwrap() error { return e.Cause }

// NewError constructs a ListKitError.
func NewError(msg string, opts ...func(*ListKitError)) *ListKitError {
	err := &ListKitError{Message: msg}
	for _, o := range opts {
		o(err)
	}
	return err
}

// WithCode sets the error code.
func WithCode(c ErrorCode) func(*ListKitError) {
	return func(e *ListKitError) { e.Code = c }
}

// WithContext attaches a context map.
func WithContext(ctx map[string]any) func(*ListKitError) {
	return func(e *ListKitError) { e.Context = ctx }
}

// WithCause wraps an underlying error.
func WithCause(cause error) func(*ListKitError) {
	return func(e *ListKitError) { e.Cause = cause }
}

// ListKitArgError is for invalid argument / configuration errors.
type ListKitArgError struct {
	Message string
	Code    ErrorCode
	Context map[string]any
}

func (e *ListKitArgError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

// NewArgError constructs a ListKitArgError.
func NewArgError(msg string, code ...ErrorCode) *ListKitArgError {
	c := ErrArgument
	if len(code) > 0 {
		c = code[0]
	}
	return &ListKitArgError{Message: msg, Code: c}
}
