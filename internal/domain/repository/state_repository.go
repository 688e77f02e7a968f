package repository

import (
	"context"

	"github.com/sangkips/billing-counter/internal/domain/entity"
)

// The state repositories hold counter-local state that survives restarts.
// Absent or unreadable entries load as empty defaults, never as errors.

type TillRepository interface {
	Get(ctx context.Context) (*entity.TillSession, error)
	Save(ctx context.Context, till *entity.TillSession) error
}

type HeldOrderRepository interface {
	List(ctx context.Context) ([]entity.HeldOrder, error)
	Save(ctx context.Context, orders []entity.HeldOrder) error
	Clear(ctx context.Context) error
}

type FavouriteRepository interface {
	List(ctx context.Context) ([]string, error)
	Save(ctx context.Context, itemIDs []string) error
}

// SessionRepository returns nil, nil when nobody is signed in.
type SessionRepository interface {
	Get(ctx context.Context) (*entity.CounterSession, error)
	Save(ctx context.Context, session *entity.CounterSession) error
	Delete(ctx context.Context) error
}
