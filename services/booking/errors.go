package booking

import (
	"errors"
	"fmt"
)

// Error codes for ledger-level failures. Every code maps to a synchronous,
// human-readable result for the caller; only unexpected store faults surface
// as plain errors.
const (
	CodeValidation       = "validationError"
	CodeConflict         = "conflictError"
	CodeNotFound         = "notFound"
	CodeAlreadyCancelled = "alreadyCancelled"
	CodeGateDenied       = "gateDenied"
)

type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(msg string) error {
	return &BookingError{Code: CodeValidation, Message: msg}
}

func NewConflictError(msg string) error {
	return &BookingError{Code: CodeConflict, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &BookingError{Code: CodeNotFound, Message: msg}
}

func NewAlreadyCancelledError(msg string) error {
	return &BookingError{Code: CodeAlreadyCancelled, Message: msg}
}

// ErrorCode extracts the booking error code, or "" for unexpected errors.
func ErrorCode(err error) string {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// UserMessage returns the human-readable message for a ledger failure, or a
// generic fallback for unexpected errors.
func UserMessage(err error) string {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Message
	}
	return "Something went wrong. Please try again later."
}
