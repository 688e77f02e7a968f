package repository

import (
	"context"

	"github.com/sangkips/billing-counter/internal/domain/entity"
)

// Authenticator verifies operator credentials against the backend.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*entity.AuthResult, error)
}
