package service

import (
	"errors"
	"fmt"
)

// ErrInvalidPromptID is returned when a caller passes the zero UUID.
var ErrInvalidPromptID = errors.New("prompt ID cannot be empty")

// PromptServiceError wraps an unexpected failure in a prompt service operation.
// Expected conditions such as store.ErrPromptNotFound stay reachable through Unwrap.
type PromptServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *PromptServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prompt service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("prompt service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *PromptServiceError) Unwrap() error {
	return e.Err
}

// NewPromptServiceError creates a new PromptServiceError.
func NewPromptServiceError(operation, message string, err error) *PromptServiceError {
	return &PromptServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
