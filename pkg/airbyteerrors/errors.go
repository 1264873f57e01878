// Package airbyteerrors provides structured error handling for the connector
// runner. Errors carry a category, key-value details, and the call stack at
// the point of creation, so a failed sync can be diagnosed from its logs
// alone.
//
// The categories map onto the runner's error taxonomy: config errors abort
// the current command, validation errors abort everything except CHECK, data
// errors cover malformed protocol input, and connection/internal errors come
// from the connector implementation itself.
package airbyteerrors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal invariant violations
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeConfig represents unreadable or malformed configuration files
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeValidation represents configuration failing the connector's declared schema
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeData represents malformed protocol data
	ErrorTypeData ErrorType = "data"
	// ErrorTypeConnection represents connector connectivity failures
	ErrorTypeConnection ErrorType = "connection"
)

// Error is a structured error with category, context details, and stack.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame is a single frame captured at error creation.
type StackFrame struct {
	Function string
	File     string
	Line     int
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error. Chainable.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message, capturing the
// call stack at the point of creation.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error, preserving it as the cause. If err is
// already a structured Error its stack is kept. Returns nil for a nil err.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existing.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks whether err is a structured Error of the given category.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

func captureStack(skip int) []StackFrame {
	const maxDepth = 16
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	stack := make([]StackFrame, 0, n)
	for {
		frame, more := frames.Next()
		stack = append(stack, StackFrame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})
		if !more {
			break
		}
	}
	return stack
}
