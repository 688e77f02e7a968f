package repository

import (
	"context"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-counter/internal/domain/repository"
	"github.com/sangkips/billing-counter/internal/infrastructure/kvstore"
	"github.com/sangkips/billing-counter/pkg/logger"
)

type tillRepository struct {
	store kvstore.Store
	log   *logger.Logger
}

// NewTillRepository creates a new till repository
func NewTillRepository(store kvstore.Store, log *logger.Logger) domainRepo.TillRepository {
	return &tillRepository{store: store, log: log}
}

func (r *tillRepository) Get(ctx context.Context) (*entity.TillSession, error) {
	var till entity.TillSession
	ok, err := loadJSON(ctx, r.store, r.log, keyTill, &till)
	if err != nil {
		return nil, err
	}
	if !ok || !till.IsOpen {
		return &entity.TillSession{}, nil
	}
	return &till, nil
}

func (r *tillRepository) Save(ctx context.Context, till *entity.TillSession) error {
	return saveJSON(ctx, r.store, keyTill, till, 0)
}
