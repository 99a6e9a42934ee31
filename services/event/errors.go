package event

import "fmt"

// ConflictError signals a concurrency or membership conflict: over-capacity
// join, already-joined, already-left, creator leave. The count and status
// are left untouched when one is returned.
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewConflictError(msg string) error {
	return &ConflictError{
		Code:    "conflictError",
		Message: msg,
	}
}

// ValidationError signals a malformed request against the event service.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(msg string) error {
	return &ValidationError{
		Code:    "validationError",
		Message: msg,
	}
}
