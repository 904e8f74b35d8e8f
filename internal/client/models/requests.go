package models

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 50
	PasswordMinLength = 6
)

// Credentials is the login input. It is not retained after the call.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the credentials before they are sent.
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("email must be a valid email address"),
		),
		validation.Field(&c.Password,
			validation.Required.Error("password is required"),
		),
	)
}

// RegistrationData is the sign-up input. It is not retained after the call.
type RegistrationData struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration data before it is sent.
func (r RegistrationData) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(UsernameMinLength, UsernameMaxLength).
				Error("username must be between 3 and 50 characters long"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("email must be a valid email address"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(PasswordMinLength, 0).
				Error("password must be at least 6 characters long"),
		),
	)
}
