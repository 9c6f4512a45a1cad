package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps err in a structured error, keeping the component and file of
// an existing structured cause.
func Wrap(err error, errType ErrorType, code, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := &Error{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}

	var e *Error
	if errors.As(err, &e) {
		wrapped.Component = e.Component
		wrapped.FilePath = e.FilePath
		wrapped.Context = e.Context
	}

	return wrapped
}

// Combine folds several errors into one. Nil errors are skipped; a single
// error is returned unchanged.
func Combine(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}

	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	}

	return &Error{
		Type:    ErrorTypeInternal,
		Code:    CodeMultipleErrors,
		Message: fmt.Sprintf("%d errors occurred", len(nonNil)),
		Cause:   errors.Join(nonNil...),
		Context: map[string]interface{}{"error_count": len(nonNil)},
	}
}
