package utils

import "fmt"

// StreamError is a structured error carrying the operation that failed and
// its underlying cause.
type StreamError struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// Unwrap provides compatibility with errors.Unwrap().
func (e *StreamError) Unwrap() error {
	return e.Cause
}

// WrapError creates a contextual error. A nil cause returns nil, so call
// sites can wrap unconditionally.
func WrapError(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &StreamError{
		Context: context,
		Cause:   cause,
	}
}
