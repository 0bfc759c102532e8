// Package errors classifies failures surfaced to the views. Backend answers,
// transport failures and local validation problems are all mapped onto a small
// set of codes so handlers can choose a status and a user-facing message.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., duplicate SKU).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeUnauthorized indicates the backend rejected the bearer token.
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeForbidden indicates the caller lacks the role for the operation.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeUnavailable indicates the backend could not be reached.
	ErrCodeUnavailable ErrorCode = "unavailable"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific form field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a new Validation error for a specific form field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// statusCoder is implemented by transport errors that carry an upstream HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// messager is implemented by transport errors that carry a backend message.
type messager interface {
	UserMessage() string
}

// Classify maps any error onto an AppError. AppErrors pass through unchanged;
// errors carrying an upstream status are mapped by status; context errors map
// to timeout or canceled; everything else is unavailable, which is what a
// network failure toward the backend looks like from a view.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	message := ""
	var m messager
	if errors.As(err, &m) {
		message = m.UserMessage()
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		code := codeForStatus(sc.HTTPStatus())
		if message == "" {
			message = defaultMessage(code)
		}
		return &AppError{Code: code, Message: message, Cause: err}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &AppError{Code: ErrCodeTimeout, Message: defaultMessage(ErrCodeTimeout), Cause: err}
	case errors.Is(err, context.Canceled):
		return &AppError{Code: ErrCodeCanceled, Message: defaultMessage(ErrCodeCanceled), Cause: err}
	}
	return &AppError{Code: ErrCodeUnavailable, Message: defaultMessage(ErrCodeUnavailable), Cause: err}
}

func codeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusConflict:
		return ErrCodeConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrCodeValidation
	case status == http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case status == http.StatusForbidden:
		return ErrCodeForbidden
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return ErrCodeTimeout
	case status == http.StatusBadGateway || status == http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	default:
		return ErrCodeInternal
	}
}

func defaultMessage(code ErrorCode) string {
	switch code {
	case ErrCodeNotFound:
		return "The requested item was not found."
	case ErrCodeConflict:
		return "The item conflicts with existing data."
	case ErrCodeValidation:
		return "Please check the submitted values."
	case ErrCodeUnauthorized:
		return "Your session has expired. Please log in again."
	case ErrCodeForbidden:
		return "You do not have permission to do that."
	case ErrCodeUnavailable:
		return "The inventory service is unavailable. Please try again."
	case ErrCodeTimeout:
		return "The inventory service took too long to answer."
	case ErrCodeCanceled:
		return "The request was canceled."
	default:
		return "An unexpected error occurred. Please try again."
	}
}

// HTTPStatus returns the status a view should answer with for the code.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeUnavailable:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsUnauthorized checks if an error is an Unauthorized error.
func IsUnauthorized(err error) bool {
	return isCode(err, ErrCodeUnauthorized)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
