package availability

import "fmt"

// ValidationError signals a malformed request: bad range, empty participant
// set, unknown event. Surfaced to the caller immediately.
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
