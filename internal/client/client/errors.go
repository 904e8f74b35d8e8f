package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
	ErrServer        = errors.New("server error")
	ErrUnavailable   = errors.New("server unavailable")
	ErrRequestFailed = errors.New("request failed")
)

// APIError is a failed call with its message normalized for display.
type APIError struct {
	// StatusCode is the HTTP status, or 0 when no response was received or
	// the input was rejected locally.
	StatusCode int
	Message    string

	kind  error
	cause error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() []error {
	var errs []error
	for _, err := range []error{e.kind, e.cause} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// NewAPIError returns the error for an HTTP status with message as its text.
func NewAPIError(status int, message string) *APIError {
	return &APIError{StatusCode: status, Message: message, kind: kindOf(status)}
}

// NewValidationError wraps a local input validation failure so it reads and
// matches like a 400 from the server.
func NewValidationError(err error) error {
	return &APIError{Message: err.Error(), kind: ErrValidation, cause: err}
}

func newNetworkError(err error) error {
	return &APIError{Message: err.Error(), kind: ErrUnavailable, cause: err}
}

// serverError is the error body shape of the authentication server; message
// is either a string or a list of strings.
type serverError struct {
	StatusCode int             `json:"statusCode"`
	Message    json.RawMessage `json:"message"`
}

func kindOf(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrValidation
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusConflict:
		return ErrConflict
	case status >= 500:
		return ErrServer
	default:
		return ErrRequestFailed
	}
}

func defaultMessage(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "invalid data provided"
	case status == http.StatusUnauthorized:
		return "incorrect email or password"
	case status == http.StatusConflict:
		return "email or username already exists"
	case status >= 500:
		return "internal server error"
	default:
		return fmt.Sprintf("error %d: %s", status, http.StatusText(status))
	}
}

// normalizeError builds the APIError for a non-2xx/3xx response.
func normalizeError(status int, body []byte) *APIError {
	e := NewAPIError(status, defaultMessage(status))
	if status >= 500 {
		return e
	}

	var se serverError
	if json.Unmarshal(body, &se) != nil || len(se.Message) == 0 {
		return e
	}

	var single string
	if json.Unmarshal(se.Message, &single) == nil {
		if single = strings.TrimSpace(single); single != "" {
			e.Message = single
		}
		return e
	}

	var many []string
	if json.Unmarshal(se.Message, &many) == nil && len(many) > 0 {
		e.Message = strings.Join(many, ", ")
	}
	return e
}
