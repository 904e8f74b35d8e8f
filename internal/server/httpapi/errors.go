package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/dmitrijs2005/authsession/internal/server/users"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
)

// DomainError is an error with the HTTP status and messages to answer with.
type DomainError struct {
	HTTPStatus int
	Messages   []string
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %v: %v", e.HTTPStatus, e.Messages, e.Err)
	}
	return fmt.Sprintf("%d %v", e.HTTPStatus, e.Messages)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func newError(status int, messages ...string) *DomainError {
	return &DomainError{HTTPStatus: status, Messages: messages}
}

// errorBody is the wire shape of every error: message is a string, or a list
// when there are several.
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Error      string `json:"error"`
}

// toDomainError maps service errors onto HTTP answers.
func toDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return newError(fe.Code, fe.Message)
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for f := range verrs {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			msgs = append(msgs, fmt.Sprintf("%s: %s", f, verrs[f].Error()))
		}
		return &DomainError{HTTPStatus: http.StatusBadRequest, Messages: msgs, Err: err}
	}

	switch {
	case errors.Is(err, users.ErrDuplicateEmail):
		return &DomainError{HTTPStatus: http.StatusConflict, Messages: []string{"Email already registered"}, Err: err}
	case errors.Is(err, users.ErrDuplicateUsername):
		return &DomainError{HTTPStatus: http.StatusConflict, Messages: []string{"Username already taken"}, Err: err}
	case errors.Is(err, users.ErrInvalidCredentials):
		return &DomainError{HTTPStatus: http.StatusUnauthorized, Messages: []string{"Invalid credentials"}, Err: err}
	case errors.Is(err, users.ErrUnauthorized):
		return &DomainError{HTTPStatus: http.StatusUnauthorized, Messages: []string{"Unauthorized"}, Err: err}
	default:
		return &DomainError{HTTPStatus: http.StatusInternalServerError, Messages: []string{"Internal server error"}, Err: err}
	}
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	de := toDomainError(err)
	if de.HTTPStatus >= 500 {
		s.logger.Error(c.UserContext(), "request failed", "path", c.Path(), "error", err)
	}

	body := errorBody{StatusCode: de.HTTPStatus, Error: http.StatusText(de.HTTPStatus)}
	if len(de.Messages) == 1 {
		body.Message = de.Messages[0]
	} else {
		body.Message = de.Messages
	}
	return c.Status(de.HTTPStatus).JSON(body)
}
