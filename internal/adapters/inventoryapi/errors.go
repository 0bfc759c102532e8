package inventoryapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Op         string
	StatusCode int
	// Message is the backend's "message" field when the body carried one.
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.StatusCode, msg)
}

// HTTPStatus exposes the upstream status for error classification.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// UserMessage is the backend's message, suitable for showing to the user.
func (e *APIError) UserMessage() string { return e.Message }

func newAPIError(op string, status int, body []byte) *APIError {
	var envelope struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &envelope)
	return &APIError{
		Op:         op,
		StatusCode: status,
		Message:    strings.TrimSpace(envelope.Message),
		Body:       body,
	}
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// MessageFromError returns the user-facing message the backend attached to a
// failed call, or fallback when there is none (network failures included).
func MessageFromError(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
