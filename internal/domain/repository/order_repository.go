package repository

import (
	"context"

	"github.com/sangkips/billing-counter/internal/domain/entity"
)

// OrderRepository is the backend's order store. The counter never numbers
// orders itself.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.OrderSubmission) (*entity.OrderConfirmation, error)
	ListAll(ctx context.Context) ([]entity.FinalizedOrder, error)
}
