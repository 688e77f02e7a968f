package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	"github.com/sangkips/billing-counter/internal/domain/repository"
)

const defaultRole = "staff"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	User  struct {
		FirstName string `json:"first_name"`
	} `json:"user"`
}

type authenticator struct {
	client *Client
}

// NewAuthenticator verifies credentials with POST /auth/login.
func NewAuthenticator(client *Client) repository.Authenticator {
	return &authenticator{client: client}
}

// Login succeeds only on a 200 response that carries a token.
func (a *authenticator) Login(ctx context.Context, username, password string) (*entity.AuthResult, error) {
	var resp loginResponse
	status, err := a.client.do(ctx, http.MethodPost, "/auth/login", loginRequest{Username: username, Password: password}, nil, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || resp.Token == "" {
		return nil, fmt.Errorf("%w: status %d without token", ErrUnauthorized, status)
	}

	role := resp.Role
	if role == "" {
		role = defaultRole
	}
	return &entity.AuthResult{
		Token:     resp.Token,
		Role:      role,
		FirstName: resp.User.FirstName,
	}, nil
}
