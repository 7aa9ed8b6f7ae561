// Package reviewerr defines the two error kinds a review session can surface.
//
// ValidationError is returned when annotation input is rejected; the message is
// field specific and safe to show to the reviewer. UnknownError wraps anything
// unexpected with a generic user-facing message while keeping the original
// error for diagnostics. State machines never return either: invalid
// transitions are reported with a boolean.
package reviewerr

import (
	"errors"
	"fmt"
)

// CodeUnknown is the code attached to every UnknownError.
const CodeUnknown = "UNKNOWN_ERROR"

const genericUserMessage = "An unexpected error occurred. Please try again."

// ValidationError reports rejected annotation input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UnknownError wraps an unexpected failure.
type UnknownError struct {
	// Err is the original failure, kept for logging.
	Err error
	// Context names the operation that failed, if known.
	Context string
	// UserMessage is safe to show to the reviewer.
	UserMessage string
}

func (e *UnknownError) Error() string {
	if e.Err == nil {
		return "an unknown error occurred"
	}
	return e.Err.Error()
}

func (e *UnknownError) Unwrap() error {
	return e.Err
}

// Code returns CodeUnknown.
func (e *UnknownError) Code() string {
	return CodeUnknown
}

// Handle normalises err into one of the package's kinds.
//
// Validation and unknown errors (anywhere in the chain) are returned as found.
// Anything else is wrapped in an UnknownError whose user message mentions
// context when one is given. Handle(nil, ...) returns nil.
func Handle(err error, context string) error {
	if err == nil {
		return nil
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	var uerr *UnknownError
	if errors.As(err, &uerr) {
		return uerr
	}

	msg := genericUserMessage
	if context != "" {
		msg = fmt.Sprintf("An error occurred in %s. Please try again.", context)
	}
	return &UnknownError{Err: err, Context: context, UserMessage: msg}
}

// FromPanic converts a recovered panic value into an UnknownError.
func FromPanic(v any, context string) error {
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", v)
	}
	return Handle(err, context)
}

// UserMessage returns the text to show for err: the validation message, the
// unknown error's user message, or the generic fallback.
func UserMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var uerr *UnknownError
	if errors.As(err, &uerr) && uerr.UserMessage != "" {
		return uerr.UserMessage
	}
	return genericUserMessage
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
