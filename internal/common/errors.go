package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Failure taxonomy for a single invocation. The first four abort the
// invocation; ErrNotification is caught at the orchestrator and only logged,
// because the record is already durably persisted before we notify.
var (
	ErrInvalidInvocation = errors.New("invalid invocation payload")
	ErrExtractionService = errors.New("extraction service call failed")
	ErrExtractionParse   = errors.New("malformed extraction response")
	ErrPersistence       = errors.New("persistence write failed")
	ErrNotification      = errors.New("notification send failed")
)

// ErrInvalidConfig is a startup-time error, not part of the invocation taxonomy.
var ErrInvalidConfig = errors.New("invalid configuration")

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
