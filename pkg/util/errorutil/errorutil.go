package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels matched with errors.Is across packages.
var (
	ErrAuthentication        = errors.New("authentication failed")
	ErrCredentialInvalidated = errors.New("credential invalidated")
	ErrForbidden             = errors.New("forbidden")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("validation failed")
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return &DomainError{
		Code:       "VALIDATION_FAILED",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
		Err:        ErrValidation,
	}
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
		Err:        ErrNotFound,
	}
}

func NewUnauthorized(message string) error {
	return &DomainError{
		Code:       "UNAUTHORIZED",
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
		Err:        ErrUnauthorized,
	}
}

func NewForbidden(message string) error {
	return &DomainError{
		Code:       "FORBIDDEN",
		Message:    message,
		HTTPStatus: http.StatusForbidden,
		Err:        ErrForbidden,
	}
}

// NewAuthenticationError reports a rejected login. status and message are the
// backend's, passed through unchanged.
func NewAuthenticationError(code string, status int, message string) error {
	if status == 0 {
		status = http.StatusUnauthorized
	}
	return &DomainError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		Err:        ErrAuthentication,
	}
}

// NewCredentialInvalidated reports a stored credential the backend no longer accepts.
func NewCredentialInvalidated(message string) error {
	return &DomainError{
		Code:       "CREDENTIAL_INVALIDATED",
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
		Err:        ErrCredentialInvalidated,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewBackendError wraps a non-2xx backend answer that has no dedicated class.
func NewBackendError(status int, message string) error {
	if message == "" {
		message = http.StatusText(status)
	}
	err := &DomainError{
		Code:       "BACKEND_ERROR",
		Message:    message,
		HTTPStatus: status,
	}
	switch status {
	case http.StatusNotFound:
		err.Code, err.Err = "NOT_FOUND", ErrNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		err.Code, err.Err = "VALIDATION_FAILED", ErrValidation
	}
	return err
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCredentialInvalidated reports whether err signals a revoked credential.
func IsCredentialInvalidated(err error) bool {
	return errors.Is(err, ErrCredentialInvalidated)
}

// IsNotFound reports whether err is a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsForbidden reports whether err is a role or permission rejection.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsAuthentication reports whether err is a rejected login.
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsValidation reports whether err is a rejected input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
