package repository

import (
	"context"
	"time"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-counter/internal/domain/repository"
	"github.com/sangkips/billing-counter/internal/infrastructure/kvstore"
	"github.com/sangkips/billing-counter/pkg/logger"
)

type idempotencyRepository struct {
	store kvstore.Store
	log   *logger.Logger
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(store kvstore.Store, log *logger.Logger) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{store: store, log: log}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key, username string) (*entity.IdempotencyRecord, error) {
	var record entity.IdempotencyRecord
	ok, err := loadJSON(ctx, r.store, r.log, idempotencyKey(key, username), &record)
	if err != nil || !ok {
		return nil, err
	}
	return &record, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, record *entity.IdempotencyRecord) error {
	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return saveJSON(ctx, r.store, idempotencyKey(record.Key, record.Username), record, ttl)
}

func idempotencyKey(key, username string) string {
	return keyIdempotency + username + ":" + key
}
