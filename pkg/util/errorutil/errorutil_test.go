package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBackendErrorClassifiesStatus(t *testing.T) {
	tests := []struct {
		status int
		code   string
		target error
	}{
		{status: http.StatusNotFound, code: "NOT_FOUND", target: ErrNotFound},
		{status: http.StatusBadRequest, code: "VALIDATION_FAILED", target: ErrValidation},
		{status: http.StatusConflict, code: "VALIDATION_FAILED", target: ErrValidation},
		{status: http.StatusUnprocessableEntity, code: "VALIDATION_FAILED", target: ErrValidation},
		{status: http.StatusInternalServerError, code: "BACKEND_ERROR"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := NewBackendError(tt.status, "")
			domainErr := ToDomainError(err)
			assert.Equal(t, tt.code, domainErr.Code)
			assert.Equal(t, tt.status, domainErr.HTTPStatus)
			assert.Equal(t, http.StatusText(tt.status), domainErr.Message)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	assert.True(t, IsCredentialInvalidated(fmt.Errorf("load: %w", NewCredentialInvalidated("expired"))))
	assert.True(t, IsForbidden(fmt.Errorf("load: %w", NewForbidden("admins only"))))
	assert.True(t, IsAuthentication(NewAuthenticationError("UNAUTHORIZED", 0, "bad password")))
	assert.True(t, IsNotFound(NewNotFound("listing", nil)))
	assert.True(t, IsValidation(NewValidationError("bad", nil)))
	assert.False(t, IsForbidden(errors.New("plain")))
}

func TestAuthenticationErrorDefaultsTo401(t *testing.T) {
	domainErr := ToDomainError(NewAuthenticationError("UNAUTHORIZED", 0, "bad password"))
	assert.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus)
	assert.Equal(t, "bad password", domainErr.Message)
}

func TestToDomainErrorWrapsPlainErrors(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
	domainErr := ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
}
