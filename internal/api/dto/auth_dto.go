package dto

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// SignInForm is posted by the sign-in view.
type SignInForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	From     string `form:"from" json:"from"`
}

// Normalize trims the email.
func (f *SignInForm) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
}

// Validate checks the form before any backend call.
func (f SignInForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&f.Password, validation.Required, validation.Length(1, 128)),
	)
}

// RegisterForm is posted by the registration view.
type RegisterForm struct {
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

func (f *RegisterForm) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
}

func (f RegisterForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&f.Password, validation.Required, validation.Length(6, 128)),
		validation.Field(&f.ConfirmPassword,
			validation.Required,
			validation.In(f.Password).Error("passwords do not match"),
		),
	)
}
