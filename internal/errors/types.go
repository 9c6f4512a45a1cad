// Package errors defines the structured error taxonomy used across forge.
//
// Schema errors are data: they are collected by validation and returned to
// the caller. Contract errors indicate a broken built-in definition and are
// raised as panics by the compiler and registry. Reference errors describe
// unresolvable component ids and are logged, never propagated as failures.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeSchema    ErrorType = "schema"
	ErrorTypeContract  ErrorType = "contract"
	ErrorTypeReference ErrorType = "reference"
	ErrorTypeIO        ErrorType = "io"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeInternal  ErrorType = "internal"
)

// Error codes shared by the registry and compiler.
const (
	CodeDuplicateBuiltin  = "ERR_DUPLICATE_BUILTIN"
	CodeMissingVariantKey = "ERR_MISSING_VARIANT_BINDING"
	CodeMissingName       = "ERR_MISSING_PROPERTY_NAME"
	CodeInvalidChild      = "ERR_INVALID_CHILD"
	CodeNoTagName         = "ERR_NO_TAG_NAME"
	CodeUnknownComponent  = "ERR_UNKNOWN_COMPONENT"
	CodeInvalidDefinition = "ERR_INVALID_DEFINITION"
	CodeLoadFailed        = "ERR_LOAD_FAILED"
	CodeInvalidConfig     = "ERR_INVALID_CONFIG"
	CodeMultipleErrors    = "ERR_MULTIPLE_ERRORS"
)

// Error is a structured error type with context.
type Error struct {
	Type      ErrorType
	Code      string
	Message   string
	Cause     error
	Context   map[string]interface{}
	Component string
	FilePath  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error comparison on type and code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component

	return e
}

// WithFile adds the path of the file the error originated from.
func (e *Error) WithFile(path string) *Error {
	e.FilePath = path

	return e
}

// NewSchemaError creates a schema error.
func NewSchemaError(code, message string) *Error {
	return &Error{
		Type:    ErrorTypeSchema,
		Code:    code,
		Message: message,
	}
}

// NewContractError creates a contract error. Contract errors describe
// definitions that cannot be compiled at all.
func NewContractError(code, message string) *Error {
	return &Error{
		Type:    ErrorTypeContract,
		Code:    code,
		Message: message,
	}
}

// NewReferenceError creates a missing-reference error.
func NewReferenceError(code, message string) *Error {
	return &Error{
		Type:    ErrorTypeReference,
		Code:    code,
		Message: message,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *Error {
	return &Error{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// IsContractError reports whether err is a contract error.
func IsContractError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrorTypeContract
	}

	return false
}

// FromPanic converts a recovered panic value into an error. Values that are
// already errors are returned unchanged.
func FromPanic(r interface{}) error {
	switch v := r.(type) {
	case nil:
		return nil
	case error:
		return v
	default:
		return &Error{
			Type:    ErrorTypeInternal,
			Message: fmt.Sprint(v),
		}
	}
}
