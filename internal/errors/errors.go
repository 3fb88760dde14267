// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeDiscovery indicates a failure while listing resources from the
	// cloud inspection API
	TypeDiscovery Type = "DISCOVERY_ERROR"

	// TypeNotSupported indicates a request for an unregistered provider
	// or service
	TypeNotSupported Type = "NOT_SUPPORTED"

	// TypeFilter indicates a filter evaluation error
	TypeFilter Type = "FILTER_ERROR"

	// TypeRender indicates a configuration rendering error
	TypeRender Type = "RENDER_ERROR"

	// TypeState indicates a state snapshot rendering error
	TypeState Type = "STATE_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeNetwork indicates a network error
	TypeNetwork Type = "NETWORK_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// Discovery creates a discovery error
func Discovery(service string, cause error) *Error {
	return Wrapf(TypeDiscovery, cause, "failed to discover resources for service %s", service)
}

// NotSupported creates a not supported error
func NotSupported(kind, name string) *Error {
	return Newf(TypeNotSupported, "%s not supported: %s", kind, name)
}

// Render creates a rendering error
func Render(message string, cause error) *Error {
	return Wrap(TypeRender, message, cause)
}

// State creates a state rendering error
func State(message string, cause error) *Error {
	return Wrap(TypeState, message, cause)
}

// Config creates a configuration error
func Config(message string) *Error {
	return New(TypeConfig, message)
}

// Network creates a network error
func Network(message string, cause error) *Error {
	return Wrap(TypeNetwork, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
