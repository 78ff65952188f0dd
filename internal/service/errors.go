package service

import (
	"errors"
	"fmt"

	"chatdemo/internal/llm"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrExternalService is returned when an external service call fails.
	ErrExternalService = errors.New("external service error")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrInvalidInput) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// ExternalError wraps a failure reported by an external service.
// errors.Is(err, ErrExternalService) matches it.
type ExternalError struct {
	Err error
}

func (e *ExternalError) Error() string {
	return e.Err.Error()
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

func (e *ExternalError) Is(target error) bool {
	return target == ErrExternalService
}

// UserMessage renders err as the text shown to the user.
// Completion failures keep the upstream status code and raw body.
func UserMessage(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var failure *llm.Failure
	if errors.As(err, &failure) {
		if failure.IsTransport() {
			return fmt.Sprintf("Error: %s", failure.Body)
		}
		return fmt.Sprintf("Error %d: %s", failure.StatusCode, failure.Body)
	}

	return "Something went wrong while processing your request. Please try again."
}
