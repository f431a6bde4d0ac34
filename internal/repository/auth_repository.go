package repository

import (
	"context"
	"net/http"

	"github.com/spec-kit/car-marketplace-client/internal/gateway"
	"github.com/spec-kit/car-marketplace-client/internal/session"
)

// AuthRepository calls the sign-in and registration endpoints.
type AuthRepository interface {
	Login(ctx context.Context, email, secret string) (*session.LoginResponse, error)
	Register(ctx context.Context, email, secret string) (*RegisteredAccount, error)
}

// RegisteredAccount is the identity echoed back by auth/register.
type RegisteredAccount struct {
	ID    session.FlexibleID `json:"id"`
	Email string             `json:"email"`
	Role  string             `json:"role,omitempty"`
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authRepository struct {
	backend Backend
}

// NewAuthRepository constructs repository.
func NewAuthRepository(backend Backend) AuthRepository {
	return &authRepository{backend: backend}
}

func (r *authRepository) Login(ctx context.Context, email, secret string) (*session.LoginResponse, error) {
	var resp session.LoginResponse
	err := r.backend.Do(ctx, gateway.Request{
		Method:    http.MethodPost,
		Path:      "auth/login",
		Body:      credentialsBody{Email: email, Password: secret},
		Anonymous: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *authRepository) Register(ctx context.Context, email, secret string) (*RegisteredAccount, error) {
	var account RegisteredAccount
	err := r.backend.Do(ctx, gateway.Request{
		Method:    http.MethodPost,
		Path:      "auth/register",
		Body:      credentialsBody{Email: email, Password: secret},
		Anonymous: true,
	}, &account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}
