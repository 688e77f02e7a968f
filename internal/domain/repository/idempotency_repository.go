package repository

import (
	"context"

	"github.com/sangkips/billing-counter/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey returns nil, nil when the key has not been seen
	GetByKey(ctx context.Context, key, username string) (*entity.IdempotencyRecord, error)
	Create(ctx context.Context, record *entity.IdempotencyRecord) error
}
