// Package errors provides the typed error taxonomy for redisutil.
//
// Every failure surfaced by the pool, the command facade and the codecs is an
// *Error carrying an ErrorType. Callers branch on the type rather than on
// message text:
//
//	if errors.IsPoolExhausted(err) {
//	    // back off, the pool stays usable
//	}
//
// Nothing in redisutil retries on its own; the type only tells the caller
// what went wrong.
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeConfig is a missing resource, a missing required key or a
	// malformed optional value. Fatal at initialization.
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypePoolExhausted means no connection became available within
	// the configured max wait.
	ErrorTypePoolExhausted ErrorType = "pool_exhausted"
	// ErrorTypeCommand means the store rejected or failed a command.
	ErrorTypeCommand ErrorType = "command"
	// ErrorTypeSerialization is a JSON codec failure on encode or decode.
	ErrorTypeSerialization ErrorType = "serialization"
	// ErrorTypeConnection is a failure to dial or authenticate a new connection.
	ErrorTypeConnection ErrorType = "connection"
	// ErrorTypeNotInitialized is returned when the pool is used before Initialize.
	ErrorTypeNotInitialized ErrorType = "not_initialized"
	// ErrorTypeClosed is returned when the pool is used after Close.
	ErrorTypeClosed ErrorType = "closed"
	// ErrorTypeInternal represents internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf is New with a format string.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context. It returns nil for
// a nil err, so only call it on a non-nil error when the result is returned
// as the error interface.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if stderrors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the outermost *Error in the chain has the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// IsConfig reports whether err is a configuration error.
func IsConfig(err error) bool { return IsType(err, ErrorTypeConfig) }

// IsPoolExhausted reports whether err is a pool exhaustion error.
func IsPoolExhausted(err error) bool { return IsType(err, ErrorTypePoolExhausted) }

// IsCommand reports whether err is a store command error.
func IsCommand(err error) bool { return IsType(err, ErrorTypeCommand) }

// IsSerialization reports whether err is a serialization error.
func IsSerialization(err error) bool { return IsType(err, ErrorTypeSerialization) }

// Is forwards to the standard library so callers need a single errors import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As forwards to the standard library so callers need a single errors import.
func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
