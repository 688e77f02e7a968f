package repository

import (
	"context"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-counter/internal/domain/repository"
	"github.com/sangkips/billing-counter/internal/infrastructure/kvstore"
	"github.com/sangkips/billing-counter/pkg/logger"
)

type heldOrderRepository struct {
	store kvstore.Store
	log   *logger.Logger
}

// NewHeldOrderRepository creates a new held order repository
func NewHeldOrderRepository(store kvstore.Store, log *logger.Logger) domainRepo.HeldOrderRepository {
	return &heldOrderRepository{store: store, log: log}
}

func (r *heldOrderRepository) List(ctx context.Context) ([]entity.HeldOrder, error) {
	var orders []entity.HeldOrder
	ok, err := loadJSON(ctx, r.store, r.log, keyHeldOrders, &orders)
	if err != nil {
		return nil, err
	}
	if !ok || orders == nil {
		return []entity.HeldOrder{}, nil
	}
	return orders, nil
}

func (r *heldOrderRepository) Save(ctx context.Context, orders []entity.HeldOrder) error {
	if orders == nil {
		orders = []entity.HeldOrder{}
	}
	return saveJSON(ctx, r.store, keyHeldOrders, orders, 0)
}

func (r *heldOrderRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, keyHeldOrders)
}
