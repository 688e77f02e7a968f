package repository

import (
	"context"

	"github.com/sangkips/billing-counter/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-counter/internal/domain/repository"
	"github.com/sangkips/billing-counter/internal/infrastructure/kvstore"
	"github.com/sangkips/billing-counter/pkg/logger"
)

type sessionRepository struct {
	store kvstore.Store
	log   *logger.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(store kvstore.Store, log *logger.Logger) domainRepo.SessionRepository {
	return &sessionRepository{store: store, log: log}
}

func (r *sessionRepository) Get(ctx context.Context) (*entity.CounterSession, error) {
	var session entity.CounterSession
	ok, err := loadJSON(ctx, r.store, r.log, keySession, &session)
	if err != nil {
		return nil, err
	}
	if !ok || session.Username == "" {
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *entity.CounterSession) error {
	return saveJSON(ctx, r.store, keySession, session, 0)
}

func (r *sessionRepository) Delete(ctx context.Context) error {
	return r.store.Delete(ctx, keySession)
}
